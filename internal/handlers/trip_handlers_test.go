package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bus_tickets/internal/models"
	"github.com/Skotchmaster/bus_tickets/internal/mykafka"
)

func newTripHandler(db *gorm.DB) *TripHandler {
	return &TripHandler{DB: db, Producer: &mykafka.Producer{}}
}

func seedTrip(t *testing.T, db *gorm.DB, origin, destination string, departure time.Time, price float64, active bool) models.Trip {
	trip := models.Trip{
		Origin:        origin,
		Destination:   destination,
		DepartureTime: departure,
		ArrivalTime:   departure.Add(6 * time.Hour),
		Price:         price,
		IsActive:      active,
	}
	require.NoError(t, db.Create(&trip).Error)
	return trip
}

func TestCreateTrip(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := newTripHandler(db)

	payload := map[string]interface{}{
		"origin":         "Москва",
		"destination":    "Казань",
		"departure_time": "2026-10-01T10:30:00Z",
		"arrival_time":   "2026-10-01T18:00:00Z",
		"price":          1800.0,
	}
	rec, c := doJSONRequest(e, http.MethodPost, "/api/trips", payload)
	require.NoError(t, h.CreateTrip(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var trip models.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trip))
	require.Equal(t, "Москва", trip.Origin)
	require.Equal(t, "Казань", trip.Destination)
	require.Equal(t, 1800.0, trip.Price)
	require.True(t, trip.IsActive)
	require.NotZero(t, trip.ID)
}

func TestCreateTripValidation(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := newTripHandler(db)

	payload := map[string]interface{}{
		"origin":         "М",
		"destination":    "Казань",
		"departure_time": "2026-10-01T10:30:00Z",
		"arrival_time":   "2026-10-01T18:00:00Z",
		"price":          1800.0,
	}
	_, c := doJSONRequest(e, http.MethodPost, "/api/trips", payload)
	err := h.CreateTrip(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestListTrips(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := newTripHandler(db)

	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	later := seedTrip(t, db, "Москва", "Казань", day.Add(14*time.Hour), 1800, true)
	earlier := seedTrip(t, db, "Москва", "Санкт-Петербург", day.Add(8*time.Hour), 2500, true)
	seedTrip(t, db, "Казань", "Москва", day.Add(9*time.Hour), 1800, false)
	otherDay := seedTrip(t, db, "Воронеж", "Москва", day.AddDate(0, 0, 1).Add(10*time.Hour), 1500, true)

	// No filters: only active trips, ordered by departure.
	rec, c := doJSONRequest(e, http.MethodGet, "/api/trips", nil)
	require.NoError(t, h.ListTrips(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var trips []models.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trips))
	require.Len(t, trips, 3)
	require.Equal(t, earlier.ID, trips[0].ID)
	require.Equal(t, later.ID, trips[1].ID)
	require.Equal(t, otherDay.ID, trips[2].ID)

	// Case-insensitive substring on origin, cyrillic included.
	rec2, c2 := doJSONRequest(e, http.MethodGet, "/api/trips?origin=%D0%BC%D0%BE%D1%81%D0%BA", nil)
	c2.QueryParams().Set("origin", "моск")
	require.NoError(t, h.ListTrips(c2))
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &trips))
	require.Len(t, trips, 2)
	for _, tr := range trips {
		require.Equal(t, "Москва", tr.Origin)
	}

	// Exact departure date.
	rec3, c3 := doJSONRequest(e, http.MethodGet, "/api/trips", nil)
	c3.QueryParams().Set("departure_date", "2026-10-02")
	require.NoError(t, h.ListTrips(c3))
	require.NoError(t, json.Unmarshal(rec3.Body.Bytes(), &trips))
	require.Len(t, trips, 1)
	require.Equal(t, otherDay.ID, trips[0].ID)
}

func TestUpdateTripPartial(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := newTripHandler(db)

	trip := seedTrip(t, db, "Москва", "Казань", time.Date(2026, 10, 1, 10, 30, 0, 0, time.UTC), 1800, true)

	rec, c := doJSONRequest(e, http.MethodPut, "/api/trips/1", map[string]interface{}{
		"price": 2000.0,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.UpdateTrip(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Trip
	require.NoError(t, db.First(&updated, trip.ID).Error)
	require.Equal(t, 2000.0, updated.Price)
	require.Equal(t, "Москва", updated.Origin)
	require.Equal(t, "Казань", updated.Destination)
	require.True(t, updated.IsActive)
}

func TestUpdateTripNotFound(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := newTripHandler(db)

	_, c := doJSONRequest(e, http.MethodPut, "/api/trips/99", map[string]interface{}{"price": 1.0})
	c.SetParamNames("id")
	c.SetParamValues("99")
	err := h.UpdateTrip(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestDeleteTripIdempotent(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := newTripHandler(db)

	trip := seedTrip(t, db, "Москва", "Казань", time.Date(2026, 10, 1, 10, 30, 0, 0, time.UTC), 1800, true)

	for i := 0; i < 2; i++ {
		rec, c := doJSONRequest(e, http.MethodDelete, "/api/trips/1", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.DeleteTrip(c))
		require.Equal(t, http.StatusNoContent, rec.Code)

		var got models.Trip
		require.NoError(t, db.First(&got, trip.ID).Error)
		require.False(t, got.IsActive)
	}
}
