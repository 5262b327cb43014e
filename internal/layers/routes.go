package layers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FieldTrace/FT-Backend/internal/middleware"
	"github.com/FieldTrace/FT-Backend/internal/uploads"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}
	limiter := middleware.NewRateLimiter(uploads.RatePerMinute())

	// Authenticated routes - browsing and field work
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Get("/", ListLayers)
		r.Get("/{layer_id}", GetLayer)
		r.Get("/{layer_id}/map", GetLayerMap)
		r.Post("/{layer_id}/points", AddPoint)
	})

	// Admin routes - creation and management
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))

		// The two parse-heavy routes share the upload rate budget
		r.With(limiter.Middleware).Post("/", CreateLayer)
		r.With(limiter.Middleware).Post("/import", ImportLayer)
		r.Post("/{layer_id}/assignments", AssignFeatures)
		r.Delete("/{layer_id}", DeleteLayer)
	})

	return r
}
