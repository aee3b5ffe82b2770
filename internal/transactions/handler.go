package transactions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fintrack-app/fintrack-backend/internal/auth"
	"github.com/fintrack-app/fintrack-backend/internal/money"
	"github.com/fintrack-app/fintrack-backend/internal/notifications"
	"github.com/fintrack-app/fintrack-backend/internal/targets"
)

type Handler struct {
	Repo          *Repository
	Reconciler    *targets.Reconciler
	Notifications *notifications.Repository
}

func NewHandler(repo *Repository, rec *targets.Reconciler, notif *notifications.Repository) *Handler {
	return &Handler{Repo: repo, Reconciler: rec, Notifications: notif}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if !targets.ValidType(req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "type must be income or expense")
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category required")
	}
	amount, err := money.FromDecimalPositive(req.Amount)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	month, year := monthYear(date)
	if req.Month != nil {
		if *req.Month < 1 || *req.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month must be 1-12")
		}
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}

	t := &Transaction{
		UserID:      userID,
		Type:        req.Type,
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Month:       month,
		Year:        year,
	}
	if err := h.Repo.Insert(c.UserContext(), t); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create transaction")
	}

	h.reconcile(c.UserContext(), targets.Event{
		Op:       targets.OpCreate,
		TxnID:    t.ID,
		Revision: t.Revision,
		UserID:   t.UserID,
		Category: t.Category,
		Type:     t.Type,
		Amount:   t.Amount,
	})

	return c.Status(fiber.StatusCreated).JSON(t.Response())
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var month, year *int
	if v := strings.TrimSpace(c.Query("month")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "month must be a number")
		}
		month = &parsed
	}
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "year must be a number")
		}
		year = &parsed
	}

	items, err := h.Repo.List(c.UserContext(), userID, month, year)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list transactions")
	}

	out := make([]TransactionResponse, 0, len(items))
	for i := range items {
		out = append(out, items[i].Response())
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	t, err := h.Repo.GetByID(c.UserContext(), userID, int64(id))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction")
	}
	return c.JSON(t.Response())
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	t, err := h.Repo.GetByID(c.UserContext(), userID, int64(id))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction")
	}

	prev := targets.Snapshot{Category: t.Category, Type: t.Type, Amount: t.Amount}

	if req.Type != nil {
		if !targets.ValidType(*req.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "type must be income or expense")
		}
		t.Type = *req.Type
	}
	if req.Amount != nil {
		amount, err := money.FromDecimalPositive(*req.Amount)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")
		}
		t.Amount = amount
	}
	if req.Category != nil {
		cat := strings.TrimSpace(*req.Category)
		if cat == "" {
			return fiber.NewError(fiber.StatusBadRequest, "category required")
		}
		t.Category = cat
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		t.Date = date
		if req.Month == nil || req.Year == nil {
			t.Month, t.Year = monthYear(date)
		}
	}
	if req.Month != nil {
		if *req.Month < 1 || *req.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month must be 1-12")
		}
		t.Month = *req.Month
	}
	if req.Year != nil {
		t.Year = *req.Year
	}

	if err := h.Repo.Update(c.UserContext(), t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "transaction not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update transaction")
	}

	h.reconcile(c.UserContext(), targets.Event{
		Op:       targets.OpUpdate,
		TxnID:    t.ID,
		Revision: t.Revision,
		UserID:   t.UserID,
		Category: t.Category,
		Type:     t.Type,
		Amount:   t.Amount,
		Previous: &prev,
	})

	return c.JSON(t.Response())
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	t, err := h.Repo.GetByID(c.UserContext(), userID, int64(id))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction")
	}

	if err := h.Repo.Delete(c.UserContext(), userID, t.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "transaction not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete transaction")
	}

	h.reconcile(c.UserContext(), targets.Event{
		Op:       targets.OpDelete,
		TxnID:    t.ID,
		Revision: t.Revision,
		UserID:   t.UserID,
		Category: t.Category,
		Type:     t.Type,
		Amount:   t.Amount,
	})

	return c.JSON(fiber.Map{"message": "transaction deleted"})
}

// reconcile runs target progress reconciliation as a best-effort
// secondary effect. Failures are logged, never surfaced; the primary
// transaction write stands either way.
func (h *Handler) reconcile(ctx context.Context, ev targets.Event) {
	res, err := h.Reconciler.Apply(ctx, ev)
	if err != nil {
		log.Printf("target reconciliation failed: %v", err)
		return
	}
	if !res.Applied || h.Notifications == nil {
		return
	}
	for _, st := range res.Steps {
		if !st.Filled {
			continue
		}
		n := &notifications.Notification{
			UserID:  ev.UserID,
			Title:   "Target reached",
			Message: fmt.Sprintf("Your %s target for %q is fully used", st.Type, st.Category),
			Type:    notifications.TypeSuccess,
		}
		if err := h.Notifications.Insert(ctx, n); err != nil {
			log.Printf("target reached notification failed: %v", err)
		}
	}
}
