package model

import "time"

// Activity log event types. One entry is appended per state-changing
// dashboard action; deletion writes no entry.
const (
	EventCreated    = "CREATED"
	EventLocked     = "LOCKED"
	EventUnlocked   = "UNLOCKED"
	EventRenamed    = "RENAMED"
	EventKeyRotated = "KEY_ROTATED"
)

// ActivityLog is append-only. KeyID is a weak reference: entries are kept
// even after their key is deleted.
type ActivityLog struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index"`
	KeyID       string    `json:"key_id" gorm:"index;not null"`
	EventType   string    `json:"event_type" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
