package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

func NewRouter(app *handlers.App, logger infra.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.RequestID,
		middleware.Logger(logger),
	)
	if len(allowedOrigins) > 0 {
		r.Use(middleware.CORS(allowedOrigins))
	}

	r.Get("/", app.Index)
	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", app.Generate)
	})

	return r
}
