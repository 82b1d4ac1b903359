// Package domain defines the persistence models for the scheduling engine.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency represents a recorded result of a previously processed
// booking request, keyed by (user_id, key). It enables safe retries of
// POST /appointments — in particular recurring-series creation, whose batch
// of inserts must not run twice — by pointing back at the originally
// created appointment (or recurrence group) instead of re-executing side
// effects.
type Idempotency struct {
	ID string `gorm:"type:TEXT NOT NULL;primaryKey"`
	// UserID identifies the caller that supplied the key.
	UserID string `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_key,priority:1"`
	// Key is the client-supplied Idempotency-Key header value.
	Key string `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_key,priority:2"`
	// AppointmentID is the id of the created appointment, or of the first
	// occurrence when the request created a series.
	AppointmentID string `gorm:"type:TEXT NOT NULL"`
	// RecurrenceGroupID is set when the original request created a series.
	RecurrenceGroupID string    `gorm:"type:TEXT"`
	Status            int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt         time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt         time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
