package main

import (
	"context"
	"log"
	"os"
	"time"

	"gymclass/internal/config"
	"gymclass/internal/database"
	"gymclass/internal/modules/classes"
	"gymclass/internal/repository"

	"github.com/joho/godotenv"
)

// Maintenance sweep: repairs occupied counters that drifted from the
// CONFIRMED reservation count, then completes classes that are over.
// Run from cron; every step is idempotent.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()
	now := time.Now().UTC()

	classRepo := repository.NewClassRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)

	divergences, err := classRepo.FindOccupiedDivergences(ctx)
	if err != nil {
		log.Fatalf("divergence scan failed: %v", err)
	}
	for _, d := range divergences {
		if err := classRepo.SetOccupied(ctx, d.ClassID, d.Confirmed); err != nil {
			log.Fatalf("repair class %d failed: %v", d.ClassID, err)
		}
		log.Printf("repaired class %d: occupied %d -> %d", d.ClassID, d.Occupied, d.Confirmed)
	}

	classService := classes.NewService(classRepo, reservationRepo, waitlistRepo, nil, repository.NewTxManager(db), cfg.DefaultClassCapacity)
	completed, err := classService.CompleteFinished(ctx, now)
	if err != nil {
		log.Fatalf("completion sweep failed: %v", err)
	}

	log.Printf("reconcile completed: repaired=%d classes_completed=%d", len(divergences), completed)
}
