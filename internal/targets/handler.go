package targets

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fintrack-app/fintrack-backend/internal/auth"
	"github.com/fintrack-app/fintrack-backend/internal/money"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req CreateTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category required")
	}
	if !ValidType(req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "type must be income or expense")
	}
	amount, err := money.FromDecimalPositive(req.TargetAmount)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "target_amount must be greater than zero")
	}

	t := &Target{
		UserID:       userID,
		Category:     req.Category,
		Type:         req.Type,
		TargetAmount: amount,
	}
	if err := h.Repo.Insert(c.UserContext(), t); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create target")
	}
	return c.Status(fiber.StatusCreated).JSON(t.Response())
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Repo.List(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list targets")
	}

	out := make([]TargetResponse, 0, len(items))
	for i := range items {
		out = append(out, items[i].Response())
	}
	return c.JSON(out)
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
		return fiber.NewError(fiber.StatusNotFound, "target not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch target")
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

	var req UpdateTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	t, err := h.Repo.GetByID(c.UserContext(), userID, int64(id))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "target not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch target")
	}

	if req.Category != nil {
		cat := strings.TrimSpace(*req.Category)
		if cat == "" {
			return fiber.NewError(fiber.StatusBadRequest, "category required")
		}
		t.Category = cat
	}
	if req.Type != nil {
		if !ValidType(*req.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "type must be income or expense")
		}
		t.Type = *req.Type
	}
	if req.TargetAmount != nil {
		amount, err := money.FromDecimalPositive(*req.TargetAmount)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "target_amount must be greater than zero")
		}
		t.TargetAmount = amount
	}

	if err := h.Repo.Update(c.UserContext(), t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "target not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update target")
	}

	updated, err := h.Repo.GetByID(c.UserContext(), userID, t.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch target")
	}
	return c.JSON(updated.Response())
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

	if err := h.Repo.Delete(c.UserContext(), userID, int64(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "target not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete target")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
