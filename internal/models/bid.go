package models

import (
	"time"

	"github.com/google/uuid"
)

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusHired    BidStatus = "hired"
	BidStatusRejected BidStatus = "rejected"
)

func ValidBidStatus(s BidStatus) bool {
	switch s {
	case BidStatusPending, BidStatusHired, BidStatusRejected:
		return true
	default:
		return false
	}
}

// Bid is a freelancer's offer on an open gig. One bid per (gig, freelancer);
// hired and rejected are terminal.
type Bid struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GigID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_bids_gig_freelancer" json:"gig_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_bids_gig_freelancer" json:"freelancer_id"`

	Message string    `gorm:"type:varchar(1000);not null" json:"message"`
	Price   int64     `gorm:"not null" json:"price"`
	Status  BidStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Gig        *Gig  `gorm:"foreignKey:GigID;references:ID" json:"gig,omitempty"`
	Freelancer *User `gorm:"foreignKey:FreelancerID;references:ID" json:"freelancer,omitempty"`
}
