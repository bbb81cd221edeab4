package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/gigflow/gigflow-api/internal/cache"
	"github.com/gigflow/gigflow-api/internal/config"
	"github.com/gigflow/gigflow-api/internal/db"
	"github.com/gigflow/gigflow-api/internal/handlers"
	"github.com/gigflow/gigflow-api/internal/middleware"
	"github.com/gigflow/gigflow-api/internal/models"
	"github.com/gigflow/gigflow-api/internal/realtime"
	"github.com/gigflow/gigflow-api/internal/services/hire"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Gig{},
		&models.Bid{},
		&models.GigEvent{},
	); err != nil {
		log.Fatal(err)
	}

	gigCache := cache.NewGigCache(rdb, time.Duration(cfg.GigCacheTTLSec)*time.Second)
	hireSvc := hire.NewService(hire.NewGormStore(gdb))

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	gigH := handlers.NewGigHandler(gdb, hub, gigCache)
	bidH := handlers.NewBidHandler(gdb, hub, gigCache, hireSvc)
	wsH := handlers.NewWSHandler(hub, cfg.JWTSecret)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	api := app.Group("/api")

	// public
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "GigFlow API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/gigs", gigH.List)
	api.Get("/gigs/:id", gigH.GetDetail)

	// protected (JWT from cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", authH.Me)

	// gigs are posted and managed by clients
	protected.Post("/gigs",
		middleware.RequireRoles("client"),
		gigH.Create,
	)
	protected.Get("/gigs/mine/list", gigH.ListMine)
	protected.Put("/gigs/:id",
		middleware.RequireRoles("client"),
		gigH.Update,
	)
	protected.Delete("/gigs/:id",
		middleware.RequireRoles("client"),
		gigH.Delete,
	)

	// bids are submitted and withdrawn by freelancers
	protected.Post("/bids",
		middleware.RequireRoles("freelancer"),
		bidH.Create,
	)
	protected.Get("/bids/mine", bidH.ListMine)
	protected.Get("/bids/gig/:gigId", bidH.ListByGig)
	protected.Delete("/bids/:id",
		middleware.RequireRoles("freelancer"),
		bidH.Withdraw,
	)

	// the hire transaction
	protected.Patch("/bids/:id/hire",
		middleware.RequireRoles("client"),
		bidH.HireBid,
	)

	// live feed (auth via query param)
	app.Get("/ws/notifications", websocket.New(wsH.WebSocketHandler))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
