package notifications

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fintrack-app/fintrack-backend/internal/auth"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Repo.List(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list notifications")
	}
	return c.JSON(fiber.Map{"count": len(items), "data": items})
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

	n, err := h.Repo.GetByID(c.UserContext(), userID, int64(id))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "notification not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch notification")
	}
	return c.JSON(n)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if req.Title == "" || req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title and message required")
	}
	if req.Type == "" {
		req.Type = TypeInfo
	}
	if !ValidType(req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notification type")
	}

	n := &Notification{
		UserID:  userID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	}
	if err := h.Repo.Insert(c.UserContext(), n); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create notification")
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

func (h *Handler) MarkRead(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	n, err := h.Repo.MarkRead(c.UserContext(), userID, int64(id))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "notification not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update notification")
	}
	return c.JSON(n)
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
			return fiber.NewError(fiber.StatusNotFound, "notification not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete notification")
	}
	return c.JSON(fiber.Map{"message": "notification deleted"})
}
