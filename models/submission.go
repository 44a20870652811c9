package models

import (
	"time"
)

// Submission records the first (and only) time a photo's content was seen.
// The unique index on Fingerprint is what enforces the no-double-award
// guarantee: duplicate inserts fail at the storage layer, never via an
// application-side existence check. Rows are written once and never
// updated or deleted.
type Submission struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Fingerprint string    `gorm:"uniqueIndex;size:32;not null" json:"fingerprint"`
	Username    string    `gorm:"index;not null" json:"username"`
	PhotoKey    string    `json:"photo_key,omitempty"` // R2 object key; empty when archiving is disabled
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
