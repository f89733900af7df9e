package main

import (
	"context"
	"fmt"
	"log"

	"github.com/70nanon/officemate/internal/config"
	"github.com/70nanon/officemate/internal/database"
	"github.com/70nanon/officemate/internal/models"
	"github.com/70nanon/officemate/internal/services"
)

// Seeds the default seat layout. Running it twice inserts a second set
// of markers, so check the seat count first.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seatService := services.NewSeatService(db)

	seats, err := seatService.InitializeLayout(ctx, models.DefaultMapID)
	if err != nil {
		log.Fatalf("Failed to seed seats: %v", err)
	}

	fmt.Printf("Seeded %d seats on map %q\n", len(seats), models.DefaultMapID)
}
