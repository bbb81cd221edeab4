package models

import (
	"time"

	"github.com/google/uuid"
)

type GigStatus string

const (
	GigStatusOpen     GigStatus = "open"
	GigStatusAssigned GigStatus = "assigned"
)

func ValidGigStatus(s GigStatus) bool {
	switch s {
	case GigStatusOpen, GigStatusAssigned:
		return true
	default:
		return false
	}
}

// Gig is a job posting. assigned_to is set exactly when status is "assigned",
// and only the hire transaction moves a gig there.
type Gig struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(100);not null" json:"title"`
	Description string    `gorm:"type:varchar(2000);not null" json:"description"`
	Budget      int64     `gorm:"not null" json:"budget"`

	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Status  GigStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	AssignedTo *uuid.UUID `gorm:"type:uuid" json:"assigned_to,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner    *User `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
	Assignee *User `gorm:"foreignKey:AssignedTo;references:ID" json:"assignee,omitempty"`

	Bids []Bid `gorm:"foreignKey:GigID;references:ID" json:"bids,omitempty"`
}
