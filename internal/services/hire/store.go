package hire

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow-api/internal/models"
)

// Store is the slice of persistence the coordinator needs. The conditional
// updates return whether a row actually changed, which is what makes the
// write sequence race-safe and replayable.
type Store interface {
	GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error)

	// AssignGig flips the gig to assigned only if it is still open.
	AssignGig(ctx context.Context, gigID, freelancerID uuid.UUID) (bool, error)
	// MarkBidHired flips the bid to hired only if it is still pending.
	MarkBidHired(ctx context.Context, bidID uuid.UUID) (bool, error)
	// RejectPendingBids rejects every other pending bid of the gig and
	// returns how many it touched.
	RejectPendingBids(ctx context.Context, gigID, exceptBidID uuid.UUID) (int64, error)

	RecordEvent(ctx context.Context, ev *models.GigEvent) error

	GigWithParties(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	BidWithFreelancer(ctx context.Context, id uuid.UUID) (*models.Bid, error)
}

// Transactor is implemented by stores that can run the write sequence in one
// transaction. Stores without one still converge via the conditional writes.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(Store) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	if err := s.db.WithContext(ctx).First(&bid, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bid, nil
}

func (s *GormStore) GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	if err := s.db.WithContext(ctx).First(&gig, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &gig, nil
}

func (s *GormStore) AssignGig(ctx context.Context, gigID, freelancerID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Gig{}).
		Where("id = ? AND status = ?", gigID, models.GigStatusOpen).
		Updates(map[string]interface{}{
			"status":      models.GigStatusAssigned,
			"assigned_to": freelancerID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) MarkBidHired(ctx context.Context, bidID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Bid{}).
		Where("id = ? AND status = ?", bidID, models.BidStatusPending).
		Update("status", models.BidStatusHired)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) RejectPendingBids(ctx context.Context, gigID, exceptBidID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Bid{}).
		Where("gig_id = ? AND id <> ? AND status = ?", gigID, exceptBidID, models.BidStatusPending).
		Update("status", models.BidStatusRejected)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s *GormStore) RecordEvent(ctx context.Context, ev *models.GigEvent) error {
	return s.db.WithContext(ctx).Create(ev).Error
}

func (s *GormStore) GigWithParties(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Assignee").
		First(&gig, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &gig, nil
}

func (s *GormStore) BidWithFreelancer(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := s.db.WithContext(ctx).
		Preload("Freelancer").
		First(&bid, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bid, nil
}
