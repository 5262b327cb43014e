package layers

import (
	"log"

	"github.com/FieldTrace/FT-Backend/internal/db"
)

func Init() {
	// Ensure the atlas schema exists
	if err := db.EnsureSchema(db.DB, "atlas"); err != nil {
		log.Fatal("Failed to ensure schema atlas: ", err)
	}

	// Create required extensions
	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	// Auto-migrate all layer models
	if err := db.DB.AutoMigrate(
		&Layer{},
		&LayerAdmin{},
		&Feature{},
		&Assignment{},
	); err != nil {
		log.Fatal("Failed to auto-migrate layer tables: ", err)
	}

	// Layer names are unique case-insensitively; concurrent imports of the
	// same name are serialized by this index
	if err := db.DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_layers_name_lower
		ON atlas.layers (LOWER(name));
	`).Error; err != nil {
		log.Fatal("Failed to create idx_layers_name_lower: ", err)
	}

	// Covering index for the map view's assignee + completion split
	if err := db.DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_assignments_assignee_completed
		ON atlas.assignments (assignee_id, completed);
	`).Error; err != nil {
		log.Fatal("Failed to create idx_assignments_assignee_completed: ", err)
	}

	log.Println("Layers module initialized")
}
