package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bus_tickets/internal/models"
	"github.com/Skotchmaster/bus_tickets/internal/mykafka"
	"github.com/Skotchmaster/bus_tickets/internal/service/search"
	"github.com/Skotchmaster/bus_tickets/internal/validation"
)

type TripHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

type tripCreateRequest struct {
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
	IsActive      *bool     `json:"is_active"`
}

type tripUpdateRequest struct {
	Origin        *string    `json:"origin"`
	Destination   *string    `json:"destination"`
	DepartureTime *time.Time `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	Price         *float64   `json:"price"`
	IsActive      *bool      `json:"is_active"`
}

// GET /api/trips
//
// Public schedule. Supports case-insensitive substring filters on origin and
// destination and an exact departure date; inactive trips are never listed.
func (h *TripHandler) ListTrips(c echo.Context) error {
	origin := c.QueryParam("origin")
	destination := c.QueryParam("destination")
	departureDate := c.QueryParam("departure_date")

	var date time.Time
	if departureDate != "" {
		var err error
		date, err = time.Parse("2006-01-02", departureDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "departure_date: expected YYYY-MM-DD")
		}
	}

	var trips []models.Trip
	if err := h.DB.Where("is_active = ?", true).Order("departure_time ASC").Find(&trips).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	// Substring matching is done here rather than with SQL LOWER/LIKE:
	// case folding of non-ASCII text depends on the database collation.
	filtered := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if origin != "" && !containsFold(t.Origin, origin) {
			continue
		}
		if destination != "" && !containsFold(t.Destination, destination) {
			continue
		}
		if departureDate != "" && !sameDate(t.DepartureTime, date) {
			continue
		}
		filtered = append(filtered, t)
	}

	return c.JSON(http.StatusOK, filtered)
}

// POST /api/trips (dispatcher only)
func (h *TripHandler) CreateTrip(c echo.Context) error {
	var req tripCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid payload")
	}

	if err := validation.TripText("origin", req.Origin); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err := validation.TripText("destination", req.Destination); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	trip := models.Trip{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Price:         req.Price,
		IsActive:      active,
	}
	if err := h.DB.Create(&trip).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.indexTrip(c, trip)
	h.publish(c, map[string]interface{}{
		"type":   "trip_created",
		"tripID": trip.ID,
		"origin": trip.Origin,
	})

	return c.JSON(http.StatusOK, trip)
}

// PUT /api/trips/:id (dispatcher only)
//
// Partial update: absent fields stay untouched. An inactive trip remains
// editable, including flipping is_active back to true.
func (h *TripHandler) UpdateTrip(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Trip not found")
	}

	var trip models.Trip
	if err := h.DB.First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Trip not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	var req tripUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid payload")
	}

	if req.Origin != nil {
		if err := validation.TripText("origin", *req.Origin); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		trip.Origin = *req.Origin
	}
	if req.Destination != nil {
		if err := validation.TripText("destination", *req.Destination); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		trip.Destination = *req.Destination
	}
	if req.DepartureTime != nil {
		trip.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		trip.ArrivalTime = *req.ArrivalTime
	}
	if req.Price != nil {
		trip.Price = *req.Price
	}
	if req.IsActive != nil {
		trip.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&trip).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.indexTrip(c, trip)
	h.publish(c, map[string]interface{}{
		"type":   "trip_updated",
		"tripID": trip.ID,
	})

	return c.JSON(http.StatusOK, trip)
}

// DELETE /api/trips/:id (dispatcher only)
//
// Soft delete: the trip is marked inactive and disappears from public
// listings, but tickets already sold keep a valid reference. Deleting an
// already-inactive trip is a no-op that still returns 204.
func (h *TripHandler) DeleteTrip(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Trip not found")
	}

	var trip models.Trip
	if err := h.DB.First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Trip not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	trip.IsActive = false
	if err := h.DB.Save(&trip).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.indexTrip(c, trip)
	h.publish(c, map[string]interface{}{
		"type":   "trip_deleted",
		"tripID": trip.ID,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *TripHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "trip_events", fmt.Sprint(event["tripID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// indexTrip upserts the trip document in Elasticsearch. Soft-deleted trips
// are reindexed with is_active=false, which the search filter excludes.
func (h *TripHandler) indexTrip(c echo.Context, trip models.Trip) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexTrip(ctx, h.ES, h.Index, trip); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sameDate(t, day time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
