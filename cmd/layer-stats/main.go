package main

import (
	"fmt"
	"log"
	"os"

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

	// Per-layer survey progress
	type LayerRow struct {
		LayerName string
		Features  int
		Assigned  int
		Completed int
	}

	var layerRows []LayerRow
	layerQuery := `
		SELECT
			l.name AS layer_name,
			COUNT(DISTINCT f.id) AS features,
			COUNT(DISTINCT a.id) AS assigned,
			COUNT(DISTINCT a.id) FILTER (WHERE a.completed) AS completed
		FROM atlas.layers l
		LEFT JOIN atlas.features f ON f.layer_id = l.id
		LEFT JOIN atlas.assignments a ON a.feature_id = f.id
		GROUP BY l.id, l.name
		ORDER BY l.created_at
	`

	if err := db.Raw(layerQuery).Scan(&layerRows).Error; err != nil {
		log.Fatalf("Query error: %v", err)
	}

	fmt.Printf("=== Layers (%d) ===\n", len(layerRows))
	for _, r := range layerRows {
		fmt.Printf("  - %s | %d features, %d assigned, %d completed\n",
			r.LayerName, r.Features, r.Assigned, r.Completed)
	}
	fmt.Println()

	// Per-surveyor backlog
	type SurveyorRow struct {
		Username string
		Todo     int
		Done     int
	}

	var surveyorRows []SurveyorRow
	surveyorQuery := `
		SELECT
			u.username,
			COUNT(*) FILTER (WHERE NOT a.completed) AS todo,
			COUNT(*) FILTER (WHERE a.completed) AS done
		FROM atlas.assignments a
		JOIN field.surveyors s ON s.id = a.assignee_id
		JOIN app_auth.users u ON u.user_id = s.user_id
		GROUP BY u.username
		ORDER BY todo DESC
	`

	if err := db.Raw(surveyorQuery).Scan(&surveyorRows).Error; err != nil {
		log.Fatalf("Query error: %v", err)
	}

	fmt.Printf("=== Surveyors (%d) ===\n", len(surveyorRows))
	for _, r := range surveyorRows {
		fmt.Printf("  - %s | %d todo, %d done\n", r.Username, r.Todo, r.Done)
	}
}
