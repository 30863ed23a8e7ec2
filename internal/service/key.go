package service

import (
	stderrors "errors"
	"fmt"
	"time"

	"site-lock-system/internal/keygen"
	"site-lock-system/internal/model"
	"site-lock-system/internal/observability/metrics"
	apperrors "site-lock-system/pkg/errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// KeyService implements the two-step mutation contract: apply the change
// to the key row, then append an activity entry. A failed mutation writes
// no entry; a failed entry after a successful mutation is logged and the
// mutation stands.
type KeyService struct {
	db       *gorm.DB
	activity *ActivityService
	log      *logrus.Logger
}

func NewKeyService(db *gorm.DB, activity *ActivityService, log *logrus.Logger) *KeyService {
	return &KeyService{db: db, activity: activity, log: log}
}

// Create issues a fresh unlocked key for a client project.
func (s *KeyService) Create(userID uint, projectName string) (model.LicenseKey, error) {
	if projectName == "" {
		return model.LicenseKey{}, apperrors.Validation("project name is required")
	}

	key := model.LicenseKey{
		ID:          uuid.NewString(),
		KeyValue:    keygen.NewLiveKey(),
		ProjectName: projectName,
		IsLocked:    false,
		UserID:      userID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.db.Create(&key).Error; err != nil {
		return model.LicenseKey{}, apperrors.Internal("create key", err)
	}

	metrics.KeyMutationsTotal.WithLabelValues("create").Inc()
	s.appendEntry(userID, key.ID, model.EventCreated,
		fmt.Sprintf("License key created for %s", projectName))
	return key, nil
}

// List returns the caller's keys, newest first.
func (s *KeyService) List(userID uint) ([]model.LicenseKey, error) {
	var keys []model.LicenseKey
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error; err != nil {
		return nil, apperrors.Internal("list keys", err)
	}
	return keys, nil
}

// Get returns one key owned by the caller.
func (s *KeyService) Get(userID uint, id string) (model.LicenseKey, error) {
	var key model.LicenseKey
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&key).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return model.LicenseKey{}, apperrors.NotFound("key not found")
		}
		return model.LicenseKey{}, apperrors.Internal("load key", err)
	}
	return key, nil
}

// SetLock flips the lock flag. Setting the flag to its current value is
// not an error and still appends an entry.
func (s *KeyService) SetLock(userID uint, id string, locked bool) (model.LicenseKey, error) {
	key, err := s.Get(userID, id)
	if err != nil {
		return model.LicenseKey{}, err
	}

	key.IsLocked = locked
	key.UpdatedAt = time.Now()
	if err := s.db.Save(&key).Error; err != nil {
		return model.LicenseKey{}, apperrors.Internal("update lock state", err)
	}

	eventType := model.EventUnlocked
	description := "Access restrictions disabled"
	action := "unlock"
	if locked {
		eventType = model.EventLocked
		description = "Access restrictions enabled"
		action = "lock"
	}
	metrics.KeyMutationsTotal.WithLabelValues(action).Inc()
	s.appendEntry(userID, key.ID, eventType, description)
	return key, nil
}

// Rename changes the project label.
func (s *KeyService) Rename(userID uint, id, projectName string) (model.LicenseKey, error) {
	if projectName == "" {
		return model.LicenseKey{}, apperrors.Validation("project name is required")
	}

	key, err := s.Get(userID, id)
	if err != nil {
		return model.LicenseKey{}, err
	}

	oldName := key.ProjectName
	key.ProjectName = projectName
	key.UpdatedAt = time.Now()
	if err := s.db.Save(&key).Error; err != nil {
		return model.LicenseKey{}, apperrors.Internal("rename key", err)
	}

	metrics.KeyMutationsTotal.WithLabelValues("rename").Inc()
	s.appendEntry(userID, key.ID, model.EventRenamed,
		fmt.Sprintf("Renamed project from %q to %q", oldName, projectName))
	return key, nil
}

// Rotate replaces the key value. The old value becomes permanently
// invalid; it is never reissued.
func (s *KeyService) Rotate(userID uint, id string) (model.LicenseKey, error) {
	key, err := s.Get(userID, id)
	if err != nil {
		return model.LicenseKey{}, err
	}

	key.KeyValue = keygen.NewRotatedKey()
	key.UpdatedAt = time.Now()
	if err := s.db.Save(&key).Error; err != nil {
		return model.LicenseKey{}, apperrors.Internal("rotate key", err)
	}

	metrics.KeyMutationsTotal.WithLabelValues("rotate").Inc()
	s.appendEntry(userID, key.ID, model.EventKeyRotated, "API key was rotated (regenerated)")
	return key, nil
}

// Delete removes the key. Deletion writes no activity entry; existing
// entries for the key are kept.
func (s *KeyService) Delete(userID uint, id string) error {
	key, err := s.Get(userID, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&key).Error; err != nil {
		return apperrors.Internal("delete key", err)
	}

	metrics.KeyMutationsTotal.WithLabelValues("delete").Inc()
	return nil
}

// CheckStatus resolves a presented key value to its lock flag. This is
// the only read the public status endpoint performs.
func (s *KeyService) CheckStatus(keyValue string) (bool, error) {
	if keyValue == "" {
		return false, apperrors.Validation("Missing API key")
	}

	var key model.LicenseKey
	err := s.db.Select("is_locked").Where("key_value = ?", keyValue).First(&key).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("Invalid API key")
		}
		return false, apperrors.Internal("Database error", err)
	}
	return key.IsLocked, nil
}

func (s *KeyService) appendEntry(userID uint, keyID, eventType, description string) {
	if err := s.activity.Append(userID, keyID, eventType, description); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"key_id": keyID,
			"event":  eventType,
		}).Warn("activity log write failed")
	}
}
