package surveys

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FieldTrace/FT-Backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}

	// Authenticated routes - surveyors read forms and submit responses
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Get("/", ListSurveys)
		r.Get("/{survey_id}", GetSurvey)
		r.Post("/responses", SubmitResponse)
	})

	// Admin routes - survey management and response review
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))

		r.Post("/", CreateSurvey)
		r.Put("/{survey_id}", UpdateSurvey)
		r.Delete("/{survey_id}", DeleteSurvey)
		r.Get("/responses/all", ListResponses)
	})

	return r
}
