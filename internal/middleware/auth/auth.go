package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Skotchmaster/bus_tickets/internal/models"
	"github.com/Skotchmaster/bus_tickets/internal/tokens"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const userContextKey = "currentUser"

// Guard resolves bearer tokens to users. Every resolution failure is the
// same uniform 401 so callers cannot tell a bad signature from an unknown
// subject.
type Guard struct {
	DB     *gorm.DB
	Tokens *tokens.Service
}

func (g *Guard) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := g.resolve(c)
		if err != nil {
			return err
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

func (g *Guard) RequireDispatcher(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := g.resolve(c)
		if err != nil {
			return err
		}
		if !user.IsDispatcher {
			return echo.NewHTTPError(http.StatusForbidden, "Only dispatchers can perform this action")
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// CurrentUser returns the user set by RequireUser or RequireDispatcher.
func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}

func (g *Guard) resolve(c echo.Context) (*models.User, error) {
	unauthorized := echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, unauthorized
	}

	subject, err := g.Tokens.Verify(raw)
	if err != nil {
		return nil, unauthorized
	}

	var user models.User
	if err := g.DB.Where("username = ?", subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorized
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return &user, nil
}
