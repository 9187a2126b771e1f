package server

import (
	// Go Internal Packages
	"net/http"

	// Local Packages
	config "ipn-gateway/config"

	// External Packages
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter assembles the HTTP surface: health and metrics are open, the
// notification endpoints sit behind bearer-token auth.
func NewRouter(handler *Handler, auth config.Auth, logger *zap.Logger, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))

	r.Get("/health", handler.Health)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(Auth(auth.JWTSecret, auth.Enabled))
		r.Post("/validate", handler.ValidateIPN)
		r.Post("/process", handler.ProcessIPN)
	})

	return r
}
