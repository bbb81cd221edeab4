package handlers

import (
	"encoding/json"
	"log"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow-api/internal/cache"
	"github.com/gigflow/gigflow-api/internal/models"
	"github.com/gigflow/gigflow-api/internal/realtime"
)

type GigHandler struct {
	DB    *gorm.DB
	Hub   *realtime.Hub
	Cache *cache.GigCache
}

func NewGigHandler(db *gorm.DB, hub *realtime.Hub, gc *cache.GigCache) *GigHandler {
	return &GigHandler{DB: db, Hub: hub, Cache: gc}
}

// ==== REQUEST STRUCTS ====

type CreateGigReq struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=2000"`
	Budget      int64  `json:"budget" validate:"required,gt=0"`
}

type UpdateGigReq struct {
	Title       *string `json:"title" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Budget      *int64  `json:"budget" validate:"omitempty,gt=0"`
}

// ==== RESPONSE DTOS ====

type UserMini struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserMini(u *models.User) *UserMini {
	if u == nil {
		return nil
	}
	return &UserMini{ID: u.ID.String(), Name: u.Name, Email: u.Email}
}

type GigResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      int64     `json:"budget"`
	Status      string    `json:"status"`
	Owner       *UserMini `json:"owner,omitempty"`
	Assignee    *UserMini `json:"assignee,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Bids []BidResponse `json:"bids,omitempty"`
}

func toGigResponse(g *models.Gig) GigResponse {
	resp := GigResponse{
		ID:          g.ID.String(),
		Title:       g.Title,
		Description: g.Description,
		Budget:      g.Budget,
		Status:      string(g.Status),
		Owner:       toUserMini(g.Owner),
		Assignee:    toUserMini(g.Assignee),
		CreatedAt:   g.CreatedAt,
	}
	for i := range g.Bids {
		resp.Bids = append(resp.Bids, toBidResponse(&g.Bids[i]))
	}
	return resp
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
}

// ==== HANDLERS ====

// List serves the public board: open gigs only, optional search, newest
// first. Rendered pages live in Redis until a write invalidates them.
func (h *GigHandler) List(c *fiber.Ctx) error {
	search := strings.TrimSpace(c.Query("search"))
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	key := cache.ListKey(search, page, limit)
	if body, ok := h.Cache.Get(c.Context(), key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	base := func() *gorm.DB {
		q := h.DB.Model(&models.Gig{}).Where("status = ?", models.GigStatusOpen)
		if search != "" {
			s := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", s, s)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		log.Println("Error counting gigs:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch gigs",
		})
	}

	var gigs []models.Gig
	if err := base().
		Preload("Owner").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&gigs).Error; err != nil {
		log.Println("Error fetching gigs:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch gigs",
		})
	}

	out := make([]GigResponse, 0, len(gigs))
	for i := range gigs {
		out = append(out, toGigResponse(&gigs[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	payload := fiber.Map{
		"success": true,
		"message": "Gigs fetched successfully",
		"data": fiber.Map{
			"gigs": out,
			"pagination": Pagination{
				CurrentPage:  page,
				TotalPages:   totalPages,
				TotalItems:   total,
				ItemsPerPage: limit,
				HasNextPage:  page < totalPages,
				HasPrevPage:  page > 1,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return c.JSON(payload)
	}
	h.Cache.Set(c.Context(), key, body)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *GigHandler) GetDetail(c *fiber.Ctx) error {
	id := c.Params("id")

	key := cache.DetailKey(id)
	if body, ok := h.Cache.Get(c.Context(), key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	var gig models.Gig
	err := h.DB.
		Preload("Owner").
		Preload("Assignee").
		Preload("Bids", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Bids.Freelancer").
		First(&gig, "id = ?", id).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Gig not found",
		})
	}

	payload := fiber.Map{
		"success": true,
		"message": "Gig fetched successfully",
		"data":    fiber.Map{"gig": toGigResponse(&gig)},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return c.JSON(payload)
	}
	h.Cache.Set(c.Context(), key, body)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *GigHandler) Create(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var req CreateGigReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if errs := checkStruct(&req); errs != nil {
		return validationFail(c, errs)
	}

	gig := models.Gig{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Budget:      req.Budget,
		OwnerID:     uid,
		Status:      models.GigStatusOpen,
	}

	if err := h.DB.Create(&gig).Error; err != nil {
		log.Println("Error creating gig:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create gig",
		})
	}

	h.recordEvent(gig.ID, models.GigEventCreated, fiber.Map{
		"title":  gig.Title,
		"budget": gig.Budget,
	})
	h.Cache.InvalidateGig(c.Context(), gig.ID.String())

	if err := h.DB.Preload("Owner").First(&gig, "id = ?", gig.ID).Error; err != nil {
		log.Println("Error reloading gig:", err)
	}

	// announce the new gig on the live board
	h.Hub.BroadcastJSON(fiber.Map{
		"type": "gig_created",
		"gig": fiber.Map{
			"id":     gig.ID,
			"title":  gig.Title,
			"budget": gig.Budget,
		},
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Gig created successfully",
		"data":    fiber.Map{"gig": toGigResponse(&gig)},
	})
}

func (h *GigHandler) Update(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Gig not found",
		})
	}

	if gig.OwnerID != uid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You are not authorized to update this gig",
		})
	}

	if gig.Status != models.GigStatusOpen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot update an assigned gig",
		})
	}

	var req UpdateGigReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if errs := checkStruct(&req); errs != nil {
		return validationFail(c, errs)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&gig).Updates(updates).Error; err != nil {
			log.Println("Error updating gig:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to update gig",
			})
		}
		h.recordEvent(gig.ID, models.GigEventUpdated, updates)
		h.Cache.InvalidateGig(c.Context(), gig.ID.String())
	}

	if err := h.DB.Preload("Owner").First(&gig, "id = ?", gig.ID).Error; err != nil {
		log.Println("Error reloading gig:", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Gig updated successfully",
		"data":    fiber.Map{"gig": toGigResponse(&gig)},
	})
}

func (h *GigHandler) Delete(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Gig not found",
		})
	}

	if gig.OwnerID != uid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You are not authorized to delete this gig",
		})
	}

	if gig.Status != models.GigStatusOpen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot delete an assigned gig",
		})
	}

	// bids must not outlive their gig
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gig_id = ?", gig.ID).Delete(&models.Bid{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gig_id = ?", gig.ID).Delete(&models.GigEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&gig).Error
	})
	if err != nil {
		log.Println("Error deleting gig:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete gig",
		})
	}

	h.Cache.InvalidateGig(c.Context(), gig.ID.String())

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Gig deleted successfully",
	})
}

func (h *GigHandler) ListMine(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var gigs []models.Gig
	if err := h.DB.
		Preload("Owner").
		Preload("Assignee").
		Preload("Bids").
		Preload("Bids.Freelancer").
		Where("owner_id = ?", uid).
		Order("created_at DESC").
		Find(&gigs).Error; err != nil {
		log.Println("Error fetching own gigs:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch gigs",
		})
	}

	out := make([]GigResponse, 0, len(gigs))
	for i := range gigs {
		out = append(out, toGigResponse(&gigs[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Your gigs fetched successfully",
		"data":    fiber.Map{"gigs": out},
	})
}

func (h *GigHandler) recordEvent(gigID uuid.UUID, kind models.GigEventKind, detail fiber.Map) {
	b, err := json.Marshal(detail)
	if err != nil {
		return
	}
	ev := models.GigEvent{GigID: gigID, Kind: kind, Detail: b}
	if err := h.DB.Create(&ev).Error; err != nil {
		log.Println("Error recording gig event:", err)
	}
}
