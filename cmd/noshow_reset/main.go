package main

import (
	"context"
	"log"
	"os"
	"time"

	"gymclass/internal/database"
	"gymclass/internal/repository"

	"github.com/joho/godotenv"
)

// Monthly sweep: zeroes every member's monthly no-show counter and
// lifts lapsed blocks. Scheduled for the first day of each month;
// re-running is harmless.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	users := repository.NewUserRepository(db)

	reset, unblocked, err := users.ResetMonthlyNoShows(context.Background(), time.Now().UTC())
	if err != nil {
		log.Fatalf("no-show reset failed: %v", err)
	}

	log.Printf("no-show reset completed: counters_reset=%d members_unblocked=%d", reset, unblocked)
}
