package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bus_tickets/internal/hash"
	authmw "github.com/Skotchmaster/bus_tickets/internal/middleware/auth"
	"github.com/Skotchmaster/bus_tickets/internal/models"
	"github.com/Skotchmaster/bus_tickets/internal/mykafka"
	"github.com/Skotchmaster/bus_tickets/internal/tokens"
	"github.com/Skotchmaster/bus_tickets/internal/validation"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *tokens.Service
	Producer *mykafka.Producer
}

type registerRequest struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Password     string `json:"password"`
	IsDispatcher bool   `json:"is_dispatcher"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid payload")
	}

	if err := validation.Email(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err := validation.Username(req.Username); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err := validation.Password(req.Password); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	// Fast-path duplicate checks. The unique indexes on email and username
	// remain the authoritative guard against concurrent registrations.
	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if err := h.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: pwHash,
		IsDispatcher: req.IsDispatcher,
		IsActive:     true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email or username already registered")
	}

	h.publish(c, map[string]interface{}{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, user)
}

// POST /api/auth/login
//
// Accepts the OAuth2 password form: fields "username" and "password",
// where "username" may also be an email address.
func (h *AuthHandler) Login(c echo.Context) error {
	identifier := c.FormValue("username")
	password := c.FormValue("password")

	badCredentials := echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")

	var user models.User
	err := h.DB.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badCredentials
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return badCredentials
	}

	accessToken, err := h.Tokens.Issue(user.Username, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create token")
	}

	h.publish(c, map[string]interface{}{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  accessToken,
		"token_type":    "bearer",
		"is_dispatcher": user.IsDispatcher,
		"username":      user.Username,
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
