package surveys

import (
	"log"

	"github.com/FieldTrace/FT-Backend/internal/db"
)

func Init() {
	// Ensure the surveys schema exists
	if err := db.EnsureSchema(db.DB, "surveys"); err != nil {
		log.Fatal("Failed to ensure schema surveys: ", err)
	}

	// Create required extensions
	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	// Auto-migrate all survey models
	if err := db.DB.AutoMigrate(
		&Survey{},
		&SurveyResponse{},
	); err != nil {
		log.Fatal("Failed to auto-migrate survey tables: ", err)
	}

	log.Println("Surveys module initialized")
}
