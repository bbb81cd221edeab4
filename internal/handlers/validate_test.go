package handlers

import "testing"

func TestCheckStruct(t *testing.T) {
	t.Run("valid gig payload", func(t *testing.T) {
		req := CreateGigReq{Title: "Logo design", Description: "A logo", Budget: 100}
		if errs := checkStruct(&req); errs != nil {
			t.Fatalf("expected no errors, got %v", errs)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		errs := checkStruct(&CreateGigReq{})
		if errs == nil {
			t.Fatal("expected validation errors")
		}
		for _, field := range []string{"title", "description", "budget"} {
			if len(errs[field]) == 0 {
				t.Fatalf("expected an error for %q, got %v", field, errs)
			}
		}
	})

	t.Run("non-positive price", func(t *testing.T) {
		req := CreateBidReq{GigID: "5c9f8f8f-0000-4000-8000-000000000000", Message: "hi", Price: 0}
		errs := checkStruct(&req)
		if errs == nil || len(errs["price"]) == 0 {
			t.Fatalf("expected a price error, got %v", errs)
		}
	})

	t.Run("bad gig id", func(t *testing.T) {
		req := CreateBidReq{GigID: "nope", Message: "hi", Price: 10}
		errs := checkStruct(&req)
		if errs == nil || len(errs["gigid"]) == 0 {
			t.Fatalf("expected a gig id error, got %v", errs)
		}
	})
}
