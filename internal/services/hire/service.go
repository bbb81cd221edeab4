package hire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gigflow/gigflow-api/internal/models"
)

// Service accepts a bid on behalf of a gig owner: the gig becomes assigned,
// the chosen bid hired, and every other pending bid on the gig rejected.
// The gig update is conditional on the gig still being open, so of two
// concurrent hires on one gig exactly one wins; the loser gets
// ErrGigAlreadyAssigned. Every write is idempotent, so a caller may retry the
// whole call after a store failure and converge to the same final state.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type Result struct {
	Gig *models.Gig
	Bid *models.Bid
}

func (s *Service) Hire(ctx context.Context, actorID, bidID uuid.UUID) (*Result, error) {
	bid, err := s.store.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("load bid: %w", err)
	}

	if bid.Status != models.BidStatusPending {
		return nil, ErrBidAlreadyProcessed
	}

	gig, err := s.store.GetGig(ctx, bid.GigID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// A bid should never outlive its gig; surface it as a missing gig
			// rather than pretending the bid is fine.
			return nil, ErrGigNotFound
		}
		return nil, fmt.Errorf("load gig: %w", err)
	}

	if gig.OwnerID != actorID {
		return nil, ErrNotGigOwner
	}

	if gig.Status != models.GigStatusOpen {
		// One exception: an interrupted earlier attempt may have flipped the
		// gig for this bid's freelancer without landing the bid writes.
		// Re-running the sequence repairs that; every step is a no-op where
		// the previous attempt already got through.
		if gig.AssignedTo == nil || *gig.AssignedTo != bid.FreelancerID {
			return nil, ErrGigAlreadyAssigned
		}
	}

	err = inTransaction(ctx, s.store, func(st Store) error {
		return s.apply(ctx, st, gig, bid)
	})
	if err != nil {
		return nil, err
	}

	// Explicit read-side join for the response; no implicit populate magic.
	freshGig, err := s.store.GigWithParties(ctx, gig.ID)
	if err != nil {
		return nil, fmt.Errorf("reload gig: %w", err)
	}
	freshBid, err := s.store.BidWithFreelancer(ctx, bid.ID)
	if err != nil {
		return nil, fmt.Errorf("reload bid: %w", err)
	}

	return &Result{Gig: freshGig, Bid: freshBid}, nil
}

// apply runs the three-way transition. Order matters: the gig flips first, so
// an interruption leaves the gig visibly assigned (no second hire can sneak
// in) instead of a hired bid on a seemingly open gig.
func (s *Service) apply(ctx context.Context, st Store, gig *models.Gig, bid *models.Bid) error {
	ok, err := st.AssignGig(ctx, gig.ID, bid.FreelancerID)
	if err != nil {
		return fmt.Errorf("assign gig: %w", err)
	}
	if !ok {
		// Either a concurrent hire won, or a previous attempt got through the
		// gig write before failing. Only the latter may be repaired.
		cur, err := st.GetGig(ctx, gig.ID)
		if err != nil {
			return fmt.Errorf("recheck gig: %w", err)
		}
		if cur.Status != models.GigStatusAssigned ||
			cur.AssignedTo == nil || *cur.AssignedTo != bid.FreelancerID {
			return ErrGigAlreadyAssigned
		}
	}

	hired, err := st.MarkBidHired(ctx, bid.ID)
	if err != nil {
		return fmt.Errorf("mark bid hired: %w", err)
	}
	if !hired {
		// The bid stopped being pending between the precondition read and
		// this write. Hired means an earlier attempt (or a duplicate call)
		// already landed it and the sequence stays idempotent; anything else
		// must abort so the gig write does not commit without a hired bid.
		cur, err := st.GetBid(ctx, bid.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// withdrawn while we were hiring
				return ErrBidNotFound
			}
			return fmt.Errorf("recheck bid: %w", err)
		}
		if cur.Status != models.BidStatusHired {
			return ErrBidAlreadyProcessed
		}
	}

	rejected, err := st.RejectPendingBids(ctx, gig.ID, bid.ID)
	if err != nil {
		return fmt.Errorf("reject other bids: %w", err)
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"bid_id":        bid.ID,
		"freelancer_id": bid.FreelancerID,
		"rejected_bids": rejected,
	})
	ev := &models.GigEvent{
		GigID:  gig.ID,
		Kind:   models.GigEventAssigned,
		Detail: detail,
	}
	if err := st.RecordEvent(ctx, ev); err != nil {
		return fmt.Errorf("record event: %w", err)
	}

	return nil
}

func inTransaction(ctx context.Context, st Store, fn func(Store) error) error {
	if tx, ok := st.(Transactor); ok {
		return tx.InTransaction(ctx, fn)
	}
	return fn(st)
}
