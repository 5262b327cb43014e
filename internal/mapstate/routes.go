package mapstate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FieldTrace/FT-Backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Get("/session", GetMapSession)
		r.Put("/session", SaveMapSession)
		r.Delete("/session", ClearMapSession)
	})

	return r
}
