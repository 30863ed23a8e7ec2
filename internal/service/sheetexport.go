package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"site-lock-system/internal/config"
	"site-lock-system/internal/model"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"gorm.io/gorm"
)

// SheetExporter mirrors activity log entries into a Google Sheet so the
// audit trail survives outside the service's own database. A nil exporter
// is the disabled state; every method no-ops on it.
type SheetExporter struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetExporter(cfg config.SheetsConfig) (*SheetExporter, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	ctx := context.Background()

	b, err := os.ReadFile(cfg.CredentialPath)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("load sheets credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, err
	}

	return &SheetExporter{
		service:       srv,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// AppendEntry adds one entry as a new row. The log is append-only, so
// rows are never updated in place.
func (s *SheetExporter) AppendEntry(entry model.ActivityLog) error {
	if s == nil {
		return nil
	}

	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetName+"!A2:F",
		&sheets.ValueRange{Values: [][]interface{}{entryRow(entry)}},
	).ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}
	return nil
}

// ExportAll rewrites the sheet from the full activity log, oldest first.
func (s *SheetExporter) ExportAll(db *gorm.DB) error {
	if s == nil {
		return nil
	}

	var entries []model.ActivityLog
	if err := db.Order("created_at ASC").Find(&entries).Error; err != nil {
		return err
	}

	if _, err := s.service.Spreadsheets.Values.Clear(
		s.spreadsheetID,
		s.sheetName+"!A2:F",
		&sheets.ClearValuesRequest{},
	).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	values := make([][]interface{}, 0, len(entries))
	for _, entry := range entries {
		values = append(values, entryRow(entry))
	}
	if len(values) == 0 {
		return nil
	}

	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetName+"!A2:F",
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		return fmt.Errorf("export to sheet: %w", err)
	}
	return nil
}

func entryRow(entry model.ActivityLog) []interface{} {
	return []interface{}{
		entry.ID,
		entry.KeyID,
		entry.EventType,
		entry.Description,
		entry.UserID,
		entry.CreatedAt.Format(time.RFC3339),
	}
}
