package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/FieldTrace/FT-Backend/internal/auth"
	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/geometry"
	"github.com/FieldTrace/FT-Backend/internal/layers"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	var (
		filesArg = flag.String("files", "", "comma-separated geometry files (.kml, .geojson, or shapefile parts)")
		name     = flag.String("name", "", "layer name (required)")
		field    = flag.String("field", "", "feature property used for labels (required)")
		survey   = flag.String("survey", "", "default survey UUID (optional)")
		owner    = flag.String("owner", "", "username of the dispatching admin (required)")
		dbURL    = flag.String("db", "", "DATABASE_URL (defaults to the environment)")
	)
	flag.Parse()

	if *filesArg == "" || *name == "" || *field == "" || *owner == "" {
		flag.Usage()
		os.Exit(2)
	}

	godotenv.Load(".env.local")
	if *dbURL != "" {
		os.Setenv("DATABASE_URL", *dbURL)
	}
	db.Connect()

	var user auth.User
	if err := db.DB.First(&user, "username = ?", *owner).Error; err != nil {
		log.Fatalf("Owner %q not found: %v", *owner, err)
	}

	input := layers.ImportInput{
		Name:         *name,
		LabelField:   *field,
		DispatcherID: user.UserID,
	}

	if *survey != "" {
		surveyID, err := uuid.Parse(*survey)
		if err != nil {
			log.Fatalf("Invalid survey UUID: %v", err)
		}
		input.DefaultSurveyID = &surveyID
	}

	paths := strings.Split(*filesArg, ",")
	files := make([]geometry.File, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", p, err)
		}
		files = append(files, geometry.File{Name: filepath.Base(p), Data: data})
		input.SourceFiles = append(input.SourceFiles, filepath.Base(p))
	}

	feats, err := geometry.Load(files)
	if err != nil {
		log.Fatalf("Failed to parse geometry: %v", err)
	}
	input.Features = feats

	layer, err := layers.Create(input)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("✓ Imported layer %q (%s) with %d features\n", layer.Name, layer.ID, layer.FeatureCount)
}
