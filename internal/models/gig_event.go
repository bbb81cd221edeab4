package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GigEventKind string

const (
	GigEventCreated  GigEventKind = "created"
	GigEventUpdated  GigEventKind = "updated"
	GigEventAssigned GigEventKind = "assigned"
)

// GigEvent is an append-only trail of gig state changes. The "assigned" event
// is written in the same transaction as the hire writes.
type GigEvent struct {
	ID    uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GigID uuid.UUID    `gorm:"type:uuid;not null;index" json:"gig_id"`
	Kind  GigEventKind `gorm:"type:varchar(20);not null" json:"kind"`

	// Detail holds kind-specific payload, e.g. the hired bid and loser count
	// for "assigned".
	Detail datatypes.JSON `json:"detail"`

	CreatedAt time.Time `json:"created_at"`
}
