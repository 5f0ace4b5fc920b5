package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/bus_tickets/internal/handlers"
	"github.com/Skotchmaster/bus_tickets/internal/middleware/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	DB            *gorm.DB
	AuthHandler   *handlers.AuthHandler
	TripHandler   *handlers.TripHandler
	TicketHandler *handlers.TicketHandler
	SearchHandler *handlers.SearchHandler
	Guard         *auth.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.GET("/me", d.AuthHandler.Me, d.Guard.RequireUser)

	trips := api.Group("/trips")
	trips.GET("", d.TripHandler.ListTrips)
	trips.GET("/search", d.SearchHandler.Search)
	trips.POST("", d.TripHandler.CreateTrip, d.Guard.RequireDispatcher)
	trips.PUT("/:id", d.TripHandler.UpdateTrip, d.Guard.RequireDispatcher)
	trips.DELETE("/:id", d.TripHandler.DeleteTrip, d.Guard.RequireDispatcher)

	api.POST("/tickets", d.TicketHandler.Purchase)
}
