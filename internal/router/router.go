package router

import (
	"github.com/gofiber/fiber/v2"

	handlers "github.com/fintrack-app/fintrack-backend/internal/http"
	"github.com/fintrack-app/fintrack-backend/internal/monthly"
	"github.com/fintrack-app/fintrack-backend/internal/notifications"
	"github.com/fintrack-app/fintrack-backend/internal/reports"
	"github.com/fintrack-app/fintrack-backend/internal/targets"
	"github.com/fintrack-app/fintrack-backend/internal/transactions"
)

type Router struct {
	AuthHandler          *handlers.AuthHandler
	TransactionsHandler  *transactions.Handler
	TargetsHandler       *targets.Handler
	MonthlyHandler       *monthly.Handler
	NotificationsHandler *notifications.Handler
	ReportsHandler       *reports.Handler
	AuthMW               fiber.Handler
	AuthRateMW           fiber.Handler
	WriteRateMW          fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/api/auth/signup", r.AuthRateMW, r.AuthHandler.Signup)
	app.Post("/api/auth/login", r.AuthRateMW, r.AuthHandler.Login)
	app.Get("/api/me", r.AuthMW, r.AuthHandler.Me)
	app.Put("/api/me/avatar", r.AuthMW, r.AuthHandler.UpdateAvatar)

	tx := app.Group("/api/transactions", r.AuthMW)
	tx.Get("/", r.TransactionsHandler.List)
	tx.Post("/", r.WriteRateMW, r.TransactionsHandler.Create)
	tx.Get("/:id", r.TransactionsHandler.Get)
	tx.Put("/:id", r.WriteRateMW, r.TransactionsHandler.Update)
	tx.Delete("/:id", r.WriteRateMW, r.TransactionsHandler.Delete)

	tg := app.Group("/api/targets", r.AuthMW)
	tg.Get("/", r.TargetsHandler.List)
	tg.Post("/", r.WriteRateMW, r.TargetsHandler.Create)
	tg.Get("/:id", r.TargetsHandler.Get)
	tg.Put("/:id", r.WriteRateMW, r.TargetsHandler.Update)
	tg.Delete("/:id", r.WriteRateMW, r.TargetsHandler.Delete)

	// Fixed paths must be registered before the :month/:year catch-all.
	mo := app.Group("/api/monthly", r.AuthMW)
	mo.Get("/", r.MonthlyHandler.List)
	mo.Get("/summary", r.MonthlyHandler.Summary)
	mo.Get("/year-summary/:year", r.MonthlyHandler.YearSummary)
	mo.Post("/", r.WriteRateMW, r.MonthlyHandler.Upsert)
	mo.Get("/:month/:year", r.MonthlyHandler.Get)

	no := app.Group("/api/notifications", r.AuthMW)
	no.Get("/", r.NotificationsHandler.List)
	no.Post("/", r.WriteRateMW, r.NotificationsHandler.Create)
	no.Get("/:id", r.NotificationsHandler.Get)
	no.Patch("/:id/read", r.WriteRateMW, r.NotificationsHandler.MarkRead)
	no.Delete("/:id", r.WriteRateMW, r.NotificationsHandler.Delete)

	rp := app.Group("/api/reports", r.AuthMW)
	rp.Get("/statement", r.ReportsHandler.Statement)
	rp.Get("/statement.pdf", r.ReportsHandler.StatementPDF)
}
