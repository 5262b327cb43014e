package surveyors

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FieldTrace/FT-Backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}

	// Any authenticated user can look up their own enrollment
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Get("/me", GetMySurveyor)
	})

	// Admin routes - enrollment and management
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))

		r.Get("/", ListSurveyors)
		r.Post("/", EnrollSurveyor)
		r.Post("/{surveyor_id}/admins", AddSurveyorAdmin)
		r.Delete("/{surveyor_id}/admins/{admin_id}", RemoveSurveyorAdmin)
		r.Delete("/{surveyor_id}", DeactivateSurveyor)
	})

	return r
}
