package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow-api/internal/cache"
	"github.com/gigflow/gigflow-api/internal/models"
	"github.com/gigflow/gigflow-api/internal/realtime"
	"github.com/gigflow/gigflow-api/internal/services/hire"
)

type BidHandler struct {
	DB    *gorm.DB
	Hub   *realtime.Hub
	Cache *cache.GigCache
	Hire  *hire.Service
}

func NewBidHandler(db *gorm.DB, hub *realtime.Hub, gc *cache.GigCache, hireSvc *hire.Service) *BidHandler {
	return &BidHandler{DB: db, Hub: hub, Cache: gc, Hire: hireSvc}
}

type CreateBidReq struct {
	GigID   string `json:"gig_id" validate:"required,uuid"`
	Message string `json:"message" validate:"required,max=1000"`
	Price   int64  `json:"price" validate:"required,gt=0"`
}

type GigMini struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Budget int64     `json:"budget"`
	Status string    `json:"status"`
	Owner  *UserMini `json:"owner,omitempty"`
}

type BidResponse struct {
	ID           string    `json:"id"`
	GigID        string    `json:"gig_id"`
	FreelancerID string    `json:"freelancer_id"`
	Message      string    `json:"message"`
	Price        int64     `json:"price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`

	Freelancer *UserMini `json:"freelancer,omitempty"`
	Gig        *GigMini  `json:"gig,omitempty"`
}

func toBidResponse(b *models.Bid) BidResponse {
	resp := BidResponse{
		ID:           b.ID.String(),
		GigID:        b.GigID.String(),
		FreelancerID: b.FreelancerID.String(),
		Message:      b.Message,
		Price:        b.Price,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		Freelancer:   toUserMini(b.Freelancer),
	}
	if b.Gig != nil {
		resp.Gig = &GigMini{
			ID:     b.Gig.ID.String(),
			Title:  b.Gig.Title,
			Budget: b.Gig.Budget,
			Status: string(b.Gig.Status),
			Owner:  toUserMini(b.Gig.Owner),
		}
	}
	return resp
}

func (h *BidHandler) Create(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var req CreateBidReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if errs := checkStruct(&req); errs != nil {
		return validationFail(c, errs)
	}

	gigID, err := uuid.Parse(req.GigID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid gig ID",
		})
	}

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ?", gigID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Gig not found",
		})
	}

	if gig.Status != models.GigStatusOpen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "This gig is no longer accepting bids",
		})
	}

	if gig.OwnerID == uid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "You cannot bid on your own gig",
		})
	}

	var existing models.Bid
	if err := h.DB.Where("gig_id = ? AND freelancer_id = ?", gigID, uid).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "You have already submitted a bid for this gig",
		})
	} else if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to submit bid",
		})
	}

	bid := models.Bid{
		GigID:        gigID,
		FreelancerID: uid,
		Message:      strings.TrimSpace(req.Message),
		Price:        req.Price,
		Status:       models.BidStatusPending,
	}

	if err := h.DB.Create(&bid).Error; err != nil {
		log.Println("Error creating bid:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to submit bid",
		})
	}

	h.Cache.InvalidateGig(c.Context(), gigID.String())

	if err := h.DB.Preload("Freelancer").First(&bid, "id = ?", bid.ID).Error; err != nil {
		// the bid is created either way; the response just goes out
		// without the freelancer resolved
		log.Println("Error reloading bid:", err)
	}

	// let the gig owner know right away
	h.Hub.SendToUser(gig.OwnerID, fiber.Map{
		"type": "bid_created",
		"bid":  toBidResponse(&bid),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Bid submitted successfully",
		"data":    fiber.Map{"bid": toBidResponse(&bid)},
	})
}

// ListByGig returns every bid on a gig; only the gig owner may look.
func (h *BidHandler) ListByGig(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	gigID, err := uuid.Parse(c.Params("gigId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid gig ID",
		})
	}

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ?", gigID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Gig not found",
		})
	}

	if gig.OwnerID != uid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Only the gig owner can view bids",
		})
	}

	var bids []models.Bid
	if err := h.DB.
		Preload("Freelancer").
		Where("gig_id = ?", gigID).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		log.Println("Error fetching bids:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch bids",
		})
	}

	out := make([]BidResponse, 0, len(bids))
	for i := range bids {
		out = append(out, toBidResponse(&bids[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Bids fetched successfully",
		"data":    fiber.Map{"bids": out, "gig_id": gigID},
	})
}

func (h *BidHandler) ListMine(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var bids []models.Bid
	if err := h.DB.
		Preload("Gig").
		Preload("Gig.Owner").
		Where("freelancer_id = ?", uid).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		log.Println("Error fetching own bids:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch bids",
		})
	}

	out := make([]BidResponse, 0, len(bids))
	for i := range bids {
		out = append(out, toBidResponse(&bids[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Your bids fetched successfully",
		"data":    fiber.Map{"bids": out},
	})
}

// Withdraw deletes the caller's own pending bid.
func (h *BidHandler) Withdraw(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	bidID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid bid ID",
		})
	}

	var bid models.Bid
	if err := h.DB.First(&bid, "id = ?", bidID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Bid not found",
		})
	}

	if bid.FreelancerID != uid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You can only withdraw your own bids",
		})
	}

	if bid.Status != models.BidStatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot withdraw a processed bid",
		})
	}

	if err := h.DB.Delete(&bid).Error; err != nil {
		log.Println("Error withdrawing bid:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to withdraw bid",
		})
	}

	h.Cache.InvalidateGig(c.Context(), bid.GigID.String())

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ?", bid.GigID).Error; err == nil {
		h.Hub.SendToUser(gig.OwnerID, fiber.Map{
			"type":   "bid_withdrawn",
			"bid_id": bid.ID,
			"gig_id": bid.GigID,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Bid withdrawn successfully",
	})
}

// HireBid accepts a bid on behalf of the gig owner. The heavy lifting, the
// three-way state transition and its race handling, lives in the hire
// service; this handler only translates its errors to HTTP.
func (h *BidHandler) HireBid(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	bidID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid bid ID",
		})
	}

	res, err := h.Hire.Hire(c.Context(), uid, bidID)
	if err != nil {
		switch {
		case errors.Is(err, hire.ErrBidNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Bid not found",
			})
		case errors.Is(err, hire.ErrGigNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Associated gig not found",
			})
		case errors.Is(err, hire.ErrNotGigOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Only the gig owner can hire freelancers",
			})
		case errors.Is(err, hire.ErrBidAlreadyProcessed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "This bid has already been processed",
			})
		case errors.Is(err, hire.ErrGigAlreadyAssigned):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "This gig has already been assigned",
			})
		default:
			log.Println("Error hiring bid:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to hire freelancer",
			})
		}
	}

	h.Cache.InvalidateGig(c.Context(), res.Gig.ID.String())

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Freelancer hired successfully",
		"data": fiber.Map{
			"gig": toGigResponse(res.Gig),
			"bid": toBidResponse(res.Bid),
		},
	})
}
