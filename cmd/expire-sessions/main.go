package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/FieldTrace/FT-Backend/internal/mapstate"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	godotenv.Load(".env.local")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection error: %v", err)
	}

	var expired []string
	if err := db.Raw("SELECT session_id FROM app_auth.sessions WHERE expires_at < NOW()").Scan(&expired).Error; err != nil {
		log.Fatalf("Query error: %v", err)
	}

	if len(expired) == 0 {
		fmt.Println("No expired sessions.")
		return
	}

	result := db.Exec("DELETE FROM app_auth.sessions WHERE session_id IN ?", expired)
	if result.Error != nil {
		log.Fatalf("Error deleting sessions: %v", result.Error)
	}

	fmt.Printf("✓ Deleted %d expired sessions\n", result.RowsAffected)

	// Map view state keyed by those logins is unreachable now; drop it early
	// instead of waiting for the Redis TTL.
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return
	}

	store, err := mapstate.NewStore(redisURL)
	if err != nil {
		log.Fatalf("Redis error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, id := range expired {
		if err := store.Clear(ctx, id); err != nil {
			log.Fatalf("Failed to clear map session %s: %v", id, err)
		}
	}

	fmt.Printf("✓ Cleared map sessions for %d expired logins\n", len(expired))
}
