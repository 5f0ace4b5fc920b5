package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/Skotchmaster/bus_tickets/internal/config"
)

// TicketInfo is the payload handed to the notification sink. Times are
// already formatted for display.
type TicketInfo struct {
	TicketNumber    string
	FullName        string
	TripOrigin      string
	TripDestination string
	DepartureTime   string
	ArrivalTime     string
	Price           float64
}

// Sender delivers a purchased ticket to the buyer. Send reports success or
// failure and never panics: a failed notification must not fail a purchase.
type Sender interface {
	Send(ctx context.Context, recipient string, info TicketInfo) bool
}

type SMTPSender struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	FromName string
	Log      *slog.Logger
}

func NewSMTPSender(cfg *config.Config, log *slog.Logger) *SMTPSender {
	return &SMTPSender{
		Enabled:  cfg.SMTP_ENABLED,
		Host:     cfg.SMTP_HOST,
		Port:     cfg.SMTP_PORT,
		User:     cfg.SMTP_USER,
		Password: cfg.SMTP_PASSWORD,
		FromName: cfg.SMTP_FROM_NAME,
		Log:      log,
	}
}

func (s *SMTPSender) Send(ctx context.Context, recipient string, info TicketInfo) bool {
	l := s.Log
	if l == nil {
		l = slog.Default()
	}

	// Without SMTP credentials the sink runs in mock mode: log the ticket
	// and report success.
	if !s.Enabled || s.User == "" || s.Password == "" {
		l.Info("[МУЛЯЖ] отправка билета",
			"email", recipient,
			"ticket_number", info.TicketNumber,
			"full_name", info.FullName,
			"route", info.TripOrigin+" → "+info.TripDestination,
			"departure_time", info.DepartureTime,
			"arrival_time", info.ArrivalTime,
			"price", info.Price,
		)
		return true
	}

	msg := s.buildMessage(recipient, info)
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.User, s.Password, s.Host)

	if err := smtp.SendMail(addr, auth, s.User, []string{recipient}, msg); err != nil {
		l.Error("ошибка отправки email", "email", recipient, "error", err)
		return false
	}

	l.Info("email отправлен", "email", recipient, "ticket_number", info.TicketNumber)
	return true
}

func (s *SMTPSender) buildMessage(recipient string, info TicketInfo) []byte {
	subject := fmt.Sprintf("Билет на рейс %s → %s", info.TripOrigin, info.TripDestination)
	boundary := "ticket-" + info.TicketNumber

	text := fmt.Sprintf(`Билет на автобусный рейс

Номер билета: %s

Пассажир: %s
Маршрут: %s → %s
Отправление: %s
Прибытие: %s
Цена: %.2f ₽

Спасибо за использование %s!
Приятной поездки!
`,
		info.TicketNumber, info.FullName, info.TripOrigin, info.TripDestination,
		info.DepartureTime, info.ArrivalTime, info.Price, s.FromName)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
  <h1>🎫 %s</h1>
  <p>Ваш билет на автобусный рейс</p>
  <h2>Номер билета: %s</h2>
  <p><b>Пассажир:</b> %s</p>
  <p><b>Маршрут:</b> %s → %s</p>
  <p><b>Отправление:</b> %s</p>
  <p><b>Прибытие:</b> %s</p>
  <p><b>Цена:</b> %.2f ₽</p>
  <p>Спасибо за использование %s! Приятной поездки! 🚌</p>
</body>
</html>`,
		s.FromName, info.TicketNumber, info.FullName, info.TripOrigin,
		info.TripDestination, info.DepartureTime, info.ArrivalTime, info.Price, s.FromName)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.FromName, s.User)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
