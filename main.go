package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/FieldTrace/FT-Backend/internal/auth"
	"github.com/FieldTrace/FT-Backend/internal/config"
	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/layers"
	"github.com/FieldTrace/FT-Backend/internal/mapstate"
	"github.com/FieldTrace/FT-Backend/internal/middleware"
	"github.com/FieldTrace/FT-Backend/internal/surveyors"
	"github.com/FieldTrace/FT-Backend/internal/surveys"
	"github.com/FieldTrace/FT-Backend/internal/uploads"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	middleware.SetAllowedOrigins(cfg.CORS.Origins)

	db.Connect()

	auth.Init()
	surveyors.Init()
	surveys.Init()
	layers.Init()
	mapstate.Init(cfg)
	uploads.Init(cfg)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/surveyors", surveyors.SetupRoutes())
	r.Mount("/surveys", surveys.SetupRoutes())
	r.Mount("/layers", layers.SetupRoutes())
	r.Mount("/map", mapstate.SetupRoutes())
	r.Mount("/uploads", uploads.SetupRoutes())

	fmt.Println("Server listening on port :" + cfg.Server.Port + "...")

	log.Fatal(http.ListenAndServe("0.0.0.0:"+cfg.Server.Port, r))
}
