package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/bus_tickets/internal/config"
	"github.com/Skotchmaster/bus_tickets/internal/email"
	"github.com/Skotchmaster/bus_tickets/internal/es"
	"github.com/Skotchmaster/bus_tickets/internal/handlers"
	"github.com/Skotchmaster/bus_tickets/internal/logging"
	authmw "github.com/Skotchmaster/bus_tickets/internal/middleware/auth"
	"github.com/Skotchmaster/bus_tickets/internal/mykafka"
	"github.com/Skotchmaster/bus_tickets/internal/tokens"
	httpserver "github.com/Skotchmaster/bus_tickets/internal/transport/http"
)

const tripsIndex = "trips"

func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(os.Getenv("LOG_LEVEL"))

	if err := config.SeedTrips(db); err != nil {
		log.Printf("Не удалось заполнить тестовые данные: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
	}

	tokenService := &tokens.Service{
		Secret: []byte(configuration.JWT_SECRET),
		TTL:    time.Duration(configuration.ACCESS_TOKEN_EXPIRE_MINUTES) * time.Minute,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		DB:            db,
		AuthHandler:   &handlers.AuthHandler{DB: db, Tokens: tokenService, Producer: prod},
		TripHandler:   &handlers.TripHandler{DB: db, Producer: prod, ES: esClient, Index: tripsIndex},
		TicketHandler: &handlers.TicketHandler{DB: db, Producer: prod, Mailer: email.NewSMTPSender(configuration, logger)},
		SearchHandler: &handlers.SearchHandler{ES: esClient, Index: tripsIndex},
		Guard:         &authmw.Guard{DB: db, Tokens: tokenService},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.APP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
