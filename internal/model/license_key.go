package model

import "time"

// LicenseKey pairs the opaque key string embedded in a client site with
// the lock flag the status endpoint exposes. KeyValue is the credential
// presented by the gate; ID is the dashboard-facing identity.
type LicenseKey struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	KeyValue    string    `json:"key_value" gorm:"uniqueIndex;not null"`
	ProjectName string    `json:"project_name" gorm:"not null"`
	IsLocked    bool      `json:"is_locked" gorm:"not null;default:false"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
