package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrack-app/fintrack-backend/internal/auth"
)

type AuthHandler struct {
	DB     *pgxpool.Pool
	Tokens auth.Tokens
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar,omitempty"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var body signupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	body.Username = strings.TrimSpace(body.Username)
	if body.Email == "" || body.Password == "" || body.Username == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email, password and username required")
	}

	ctx := c.UserContext()

	var exists bool
	if err := h.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, body.Email,
	).Scan(&exists); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}
	if exists {
		return fiber.NewError(fiber.StatusBadRequest, "user already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	var userID string
	err = h.DB.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, username)
		 VALUES ($1, $2, $3)
		 RETURNING id::text`,
		body.Email, string(hashed), body.Username,
	).Scan(&userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	token, err := h.Tokens.Generate(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Token: token,
		User:  userPayload{ID: userID, Email: body.Email, Username: body.Username},
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	var (
		userID       string
		passwordHash string
		username     string
	)
	err := h.DB.QueryRow(c.UserContext(),
		`SELECT id::text, password_hash, username FROM users WHERE email = $1`,
		body.Email,
	).Scan(&userID, &passwordHash, &username)
	if err != nil {
		// Unknown email and wrong password are indistinguishable on
		// purpose.
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(body.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.Tokens.Generate(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.JSON(authResponse{
		Token: token,
		User:  userPayload{ID: userID, Email: body.Email, Username: username},
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var u userPayload
	err := h.DB.QueryRow(c.UserContext(),
		`SELECT id::text, email, username, avatar FROM users WHERE id = $1::uuid`,
		userID,
	).Scan(&u.ID, &u.Email, &u.Username, &u.Avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load profile")
	}
	return c.JSON(u)
}

type avatarRequest struct {
	AvatarURL string `json:"avatar_url"`
}

// UpdateAvatar stores the object-store URL of the user's avatar. The
// upload itself happens elsewhere.
func (h *AuthHandler) UpdateAvatar(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body avatarRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	body.AvatarURL = strings.TrimSpace(body.AvatarURL)
	if body.AvatarURL == "" || len(body.AvatarURL) > 1000 {
		return fiber.NewError(fiber.StatusBadRequest, "avatar_url required, at most 1000 chars")
	}

	tag, err := h.DB.Exec(c.UserContext(),
		`UPDATE users SET avatar = $2, updated_at = NOW() WHERE id = $1::uuid`,
		userID, body.AvatarURL,
	)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update avatar")
	}
	if tag.RowsAffected() == 0 {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	return c.JSON(fiber.Map{"avatar": body.AvatarURL})
}
