package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"site-lock-system/internal/config"
	"site-lock-system/internal/database"
	"site-lock-system/internal/model"
	"site-lock-system/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "lockctl",
	Short: "Operator tooling for the site lock service",
	Long:  `Bootstrap the dashboard account and manage license keys directly against the backing store, without going through the dashboard.`,
}

func main() {
	rootCmd.AddCommand(useraddCmd())
	rootCmd.AddCommand(keysCmd())
	rootCmd.AddCommand(lockCmd(true))
	rootCmd.AddCommand(lockCmd(false))
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openServices() (*config.Config, *gorm.DB, *service.KeyService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	activity := service.NewActivityService(db, nil, nil, log)
	keys := service.NewKeyService(db, activity, log)
	return cfg, db, keys, nil
}

func useraddCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create a dashboard user",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return stderrors.New("--email and --password are required")
			}

			_, db, _, err := openServices()
			if err != nil {
				return err
			}

			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			user := &model.User{
				Username:  args[0],
				Password:  string(hashed),
				Email:     email,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := db.Create(user).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Printf("created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "user password")
	return cmd
}

func keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List all license keys",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, db, _, err := openServices()
			if err != nil {
				return err
			}

			var keys []model.LicenseKey
			if err := db.Order("created_at DESC").Find(&keys).Error; err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROJECT\tKEY\tLOCKED\tCREATED")
			for _, key := range keys {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
					key.ID, key.ProjectName, key.KeyValue, key.IsLocked,
					key.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func lockCmd(locked bool) *cobra.Command {
	use, short := "lock <key-id>", "Lock a license key"
	if !locked {
		use, short = "unlock <key-id>", "Unlock a license key"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, db, keys, err := openServices()
			if err != nil {
				return err
			}

			// Accept either the key id or the key value.
			var key model.LicenseKey
			err = db.Where("id = ? OR key_value = ?", args[0], args[0]).First(&key).Error
			if err != nil {
				if stderrors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("key %q not found", args[0])
				}
				return err
			}

			// The activity entry is attributed to the key's owner.
			updated, err := keys.SetLock(key.UserID, key.ID, locked)
			if err != nil {
				return err
			}

			fmt.Printf("%s is now locked=%t\n", updated.ProjectName, updated.IsLocked)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Rewrite the Google Sheet from the full activity log",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, db, _, err := openServices()
			if err != nil {
				return err
			}

			exporter, err := service.NewSheetExporter(cfg.Sheets)
			if err != nil {
				return fmt.Errorf("configure sheet export: %w", err)
			}
			if exporter == nil {
				return stderrors.New("sheet export is not configured; set SHEETS_CREDENTIALS and SHEETS_SPREADSHEET_ID")
			}

			if err := exporter.ExportAll(db); err != nil {
				return err
			}
			fmt.Println("activity log exported")
			return nil
		},
	}
}
