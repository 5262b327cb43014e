package main

import (
	"log"

	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load(".env.local")

	db.Connect()

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
