package auth

import (
	"errors"
	"log/slog"
	"time"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func SignupHandler(a *Authenticator, jm *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CredentialsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		user, err := a.Register(c.UserContext(), body.Email, body.Password)
		switch {
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrEmailExists):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case err != nil:
			return err
		}

		token, err := jm.Generate(user)
		if err != nil {
			return err
		}

		slog.Info("user registered", "user_id", user.ID)
		return c.Status(fiber.StatusCreated).JSON(TokenResponse{Token: token, User: toUserResponse(user)})
	}
}

func LoginHandler(a *Authenticator, jm *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CredentialsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
		}

		user, err := a.Authenticate(c.UserContext(), body.Email, body.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		if err != nil {
			return err
		}

		token, err := jm.Generate(user)
		if err != nil {
			return err
		}
		return c.JSON(TokenResponse{Token: token, User: toUserResponse(user)})
	}
}

func MeHandler(users storage.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}

		user, err := users.GetUserByID(c.UserContext(), userID)
		if errors.Is(err, storage.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "User no longer exists")
		}
		if err != nil {
			return err
		}
		return c.JSON(toUserResponse(user))
	}
}
