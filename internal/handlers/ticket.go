package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bus_tickets/internal/email"
	"github.com/Skotchmaster/bus_tickets/internal/models"
	"github.com/Skotchmaster/bus_tickets/internal/mykafka"
	"github.com/Skotchmaster/bus_tickets/internal/validation"
)

const ticketNumberPrefix = "BAL"

type TicketHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Mailer   email.Sender
}

type ticketCreateRequest struct {
	TripID              uint   `json:"trip_id"`
	FullName            string `json:"full_name"`
	Email               string `json:"email"`
	ConsentToProcessing bool   `json:"consent_to_processing"`
}

// POST /api/tickets
//
// A deactivated trip is indistinguishable from a missing one: both are 404.
// The email notification runs after the ticket is committed and can only be
// logged, never turned into a purchase failure.
func (h *TicketHandler) Purchase(c echo.Context) error {
	var req ticketCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid payload")
	}

	if !req.ConsentToProcessing {
		return echo.NewHTTPError(http.StatusBadRequest, "Consent to personal data processing is required")
	}

	if err := validation.FullName(req.FullName); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err := validation.Email(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	var trip models.Trip
	err := h.DB.Where("id = ? AND is_active = ?", req.TripID, true).First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Trip not found or inactive")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	ticket := models.Ticket{
		TripID:       trip.ID,
		FullName:     req.FullName,
		Email:        req.Email,
		Price:        trip.Price,
		TicketNumber: newTicketNumber(),
		IsPaid:       false, // placeholder until a payment provider is wired
	}
	if err := h.DB.Create(&ticket).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.notify(c, ticket, trip)
	h.publish(c, map[string]interface{}{
		"type":          "ticket_purchased",
		"ticketID":      ticket.ID,
		"ticket_number": ticket.TicketNumber,
		"tripID":        trip.ID,
	})

	return c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) notify(c echo.Context, ticket models.Ticket, trip models.Trip) {
	if h.Mailer == nil {
		return
	}
	info := email.TicketInfo{
		TicketNumber:    ticket.TicketNumber,
		FullName:        ticket.FullName,
		TripOrigin:      trip.Origin,
		TripDestination: trip.Destination,
		DepartureTime:   trip.DepartureTime.Format("02.01.2006 15:04"),
		ArrivalTime:     trip.ArrivalTime.Format("02.01.2006 15:04"),
		Price:           ticket.Price,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()
	if !h.Mailer.Send(ctx, ticket.Email, info) {
		c.Logger().Errorf("ticket email not delivered: %s -> %s", ticket.TicketNumber, ticket.Email)
	}
}

func (h *TicketHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "ticket_events", fmt.Sprint(event["ticketID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// newTicketNumber builds a human-readable unique number like
// BAL-3F2A9C01-20260901. Uniqueness is ultimately enforced by the DB index.
func newTicketNumber() string {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", ticketNumberPrefix, code, time.Now().Format("20060102"))
}
