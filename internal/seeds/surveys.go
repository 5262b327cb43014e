package seeds

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/surveys"
	"gorm.io/gorm"
)

func SeedSurveys() error {
	var defs []struct {
		Name   string          `json:"name"`
		Schema json.RawMessage `json:"schema"`
	}

	file, err := os.ReadFile("internal/surveys/data/surveys.json")
	if err != nil {
		return fmt.Errorf("could not read surveys.json: %w", err)
	}

	if err := json.Unmarshal(file, &defs); err != nil {
		return fmt.Errorf("failed to parse surveys.json: %w", err)
	}

	created := 0
	for _, def := range defs {
		var existing surveys.Survey
		err := db.DB.First(&existing, "name = ?", def.Name).Error

		if err == nil {
			log.Printf("⚠️ Survey exists, skipping: %s", def.Name)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on survey %s: %w", def.Name, err)
		}

		survey := surveys.Survey{
			Name:   def.Name,
			Schema: db.JSONB(def.Schema),
		}
		if err := db.DB.Create(&survey).Error; err != nil {
			return fmt.Errorf("failed to create survey %s: %w", def.Name, err)
		}
		created++
	}

	log.Printf("✅ Seeded %d surveys", created)
	return nil
}
