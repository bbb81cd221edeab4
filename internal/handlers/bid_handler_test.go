package handlers

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gigflow/gigflow-api/internal/models"
)

func TestToBidResponse(t *testing.T) {
	gigID := uuid.New()
	flID := uuid.New()

	t.Run("unresolved freelancer is omitted, not broken", func(t *testing.T) {
		bid := models.Bid{
			ID:           uuid.New(),
			GigID:        gigID,
			FreelancerID: flID,
			Message:      "pick me",
			Price:        450,
			Status:       models.BidStatusPending,
		}

		resp := toBidResponse(&bid)
		if resp.Freelancer != nil {
			t.Fatalf("expected no freelancer payload, got %+v", resp.Freelancer)
		}
		if resp.FreelancerID != flID.String() {
			t.Fatalf("expected freelancer id %s, got %s", flID, resp.FreelancerID)
		}
		if resp.Status != string(models.BidStatusPending) {
			t.Fatalf("expected status %q, got %q", models.BidStatusPending, resp.Status)
		}
	})

	t.Run("resolved relations are carried through", func(t *testing.T) {
		bid := models.Bid{
			ID:           uuid.New(),
			GigID:        gigID,
			FreelancerID: flID,
			Message:      "pick me",
			Price:        450,
			Status:       models.BidStatusHired,
			Freelancer:   &models.User{ID: flID, Name: "u2", Email: "u2@example.com"},
			Gig: &models.Gig{
				ID:     gigID,
				Title:  "build a thing",
				Budget: 500,
				Status: models.GigStatusAssigned,
			},
		}

		resp := toBidResponse(&bid)
		if resp.Freelancer == nil || resp.Freelancer.ID != flID.String() {
			t.Fatalf("expected freelancer resolved, got %+v", resp.Freelancer)
		}
		if resp.Gig == nil || resp.Gig.Title != "build a thing" {
			t.Fatalf("expected gig resolved, got %+v", resp.Gig)
		}
	})
}
