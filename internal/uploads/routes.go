package uploads

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FieldTrace/FT-Backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}
	limiter := middleware.NewRateLimiter(ratePerMinute)

	// Admin routes - staging geometry files for import
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))
		r.Use(limiter.Middleware)

		r.Post("/", UploadHandler)
	})

	return r
}
