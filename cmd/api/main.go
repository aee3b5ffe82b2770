package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/fintrack-app/fintrack-backend/internal/auth"
	"github.com/fintrack-app/fintrack-backend/internal/config"
	handlers "github.com/fintrack-app/fintrack-backend/internal/http"
	"github.com/fintrack-app/fintrack-backend/internal/monthly"
	"github.com/fintrack-app/fintrack-backend/internal/notifications"
	"github.com/fintrack-app/fintrack-backend/internal/reports"
	"github.com/fintrack-app/fintrack-backend/internal/router"
	"github.com/fintrack-app/fintrack-backend/internal/targets"
	"github.com/fintrack-app/fintrack-backend/internal/transactions"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("database ping: %v", err)
	}
	log.Println("connected to database")

	tokens := auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}

	targetsRepo := targets.NewRepository(pool)
	reconciler := targets.NewReconciler(targetsRepo)
	txRepo := transactions.NewRepository(pool)
	notifRepo := notifications.NewRepository(pool)
	monthlyRepo := monthly.NewRepository(pool)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": "FinTrack API", "status": "running"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unreachable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	r := router.Router{
		AuthHandler:          &handlers.AuthHandler{DB: pool, Tokens: tokens},
		TransactionsHandler:  transactions.NewHandler(txRepo, reconciler, notifRepo),
		TargetsHandler:       targets.NewHandler(targetsRepo),
		MonthlyHandler:       monthly.NewHandler(monthlyRepo),
		NotificationsHandler: notifications.NewHandler(notifRepo),
		ReportsHandler:       reports.NewHandler(pool),
		AuthMW:               auth.Middleware(tokens),
		AuthRateMW:           router.RateLimitAuth(cfg.AuthRateMax),
		WriteRateMW:          router.RateLimitWrite(cfg.WriteRateMax),
	}
	r.RegisterRoutes(app)

	scheduleMonthlyRollup(monthlyRepo)

	log.Printf("listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
		return err
	}
}

// scheduleMonthlyRollup refreshes the current month's aggregates once a day.
// Rollups are derived from transactions, so a missed run self-heals on the
// next one.
func scheduleMonthlyRollup(repo *monthly.Repository) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		now := time.Now()
		n, err := repo.Rollup(ctx, int(now.Month()), now.Year())
		if err != nil {
			log.Printf("monthly rollup failed: %v", err)
			return
		}
		log.Printf("monthly rollup completed for %d-%02d, %d users", now.Year(), int(now.Month()), n)
	})
	if err != nil {
		log.Printf("failed to schedule monthly rollup: %v", err)
		return
	}
	c.Start()
}
