package surveyors

import (
	"log"

	"github.com/FieldTrace/FT-Backend/internal/db"
)

func Init() {
	// Ensure the field schema exists
	if err := db.EnsureSchema(db.DB, "field"); err != nil {
		log.Fatal("Failed to ensure schema field: ", err)
	}

	// Create required extensions
	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	// Auto-migrate all surveyor models
	if err := db.DB.AutoMigrate(
		&Surveyor{},
		&SurveyorAdmin{},
	); err != nil {
		log.Fatal("Failed to auto-migrate surveyor tables: ", err)
	}

	log.Println("Surveyors module initialized")
}
