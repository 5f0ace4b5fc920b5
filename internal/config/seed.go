package config

import (
	"log"
	"time"

	"github.com/Skotchmaster/bus_tickets/internal/models"
	"gorm.io/gorm"
)

// SeedTrips fills an empty schedule with sample routes for today and
// tomorrow so a fresh instance has something to show.
func SeedTrips(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Trip{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	today := time.Now().Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	at := func(day time.Time, hour, min int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, time.Local)
	}

	trips := []models.Trip{
		{Origin: "Москва", Destination: "Санкт-Петербург", DepartureTime: at(today, 8, 0), ArrivalTime: at(today, 14, 30), Price: 2500, IsActive: true},
		{Origin: "Москва", Destination: "Казань", DepartureTime: at(today, 10, 30), ArrivalTime: at(today, 18, 0), Price: 1800, IsActive: true},
		{Origin: "Санкт-Петербург", Destination: "Москва", DepartureTime: at(today, 9, 15), ArrivalTime: at(today, 15, 45), Price: 2500, IsActive: true},
		{Origin: "Москва", Destination: "Нижний Новгород", DepartureTime: at(today, 14, 0), ArrivalTime: at(today, 20, 30), Price: 1200, IsActive: true},
		{Origin: "Москва", Destination: "Санкт-Петербург", DepartureTime: at(tomorrow, 8, 0), ArrivalTime: at(tomorrow, 14, 30), Price: 2500, IsActive: true},
		{Origin: "Казань", Destination: "Москва", DepartureTime: at(tomorrow, 7, 30), ArrivalTime: at(tomorrow, 15, 0), Price: 1800, IsActive: true},
		{Origin: "Москва", Destination: "Воронеж", DepartureTime: at(tomorrow, 12, 0), ArrivalTime: at(tomorrow, 17, 30), Price: 1500, IsActive: true},
	}

	if err := db.Create(&trips).Error; err != nil {
		return err
	}
	log.Printf("Создано %d тестовых рейсов", len(trips))
	return nil
}
