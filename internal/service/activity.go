package service

import (
	"time"

	"site-lock-system/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ActivityService owns the append-only activity log. Entries are written
// after their mutation succeeds; a failed append never rolls the mutation
// back.
type ActivityService struct {
	db       *gorm.DB
	feed     *Feed
	exporter *SheetExporter
	log      *logrus.Logger
}

func NewActivityService(db *gorm.DB, feed *Feed, exporter *SheetExporter, log *logrus.Logger) *ActivityService {
	return &ActivityService{db: db, feed: feed, exporter: exporter, log: log}
}

// Append records one event against a key and notifies watchers. The sheet
// export runs in the background; its failures are logged and dropped.
func (s *ActivityService) Append(userID uint, keyID, eventType, description string) error {
	entry := model.ActivityLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		KeyID:       keyID,
		EventType:   eventType,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return err
	}

	if s.feed != nil {
		s.feed.Publish(entry)
	}
	if s.exporter != nil {
		go func() {
			if err := s.exporter.AppendEntry(entry); err != nil {
				s.log.WithError(err).Warn("sheet export failed")
			}
		}()
	}
	return nil
}

// ListByKey returns entries for one key, newest first.
func (s *ActivityService) ListByKey(keyID string, page, pageSize int) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	q := s.db.Model(&model.ActivityLog{}).Where("key_id = ?", keyID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// ListByUser returns every entry written by one dashboard user, newest
// first.
func (s *ActivityService) ListByUser(userID uint, page, pageSize int) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	q := s.db.Model(&model.ActivityLog{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
