package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the proxy endpoints. The search routes are mounted
// under both /api/v1 and /backend/price_items/api/v1, matching the
// paths the ordering platform calls.
func NewRouter(h *Handlers, apiKeys []string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
	}))

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(apiKeys))

		for _, prefix := range []string{"/api/v1", "/backend/price_items/api/v1"} {
			r.Route(prefix+"/search", func(r chi.Router) {
				r.Get("/get_brands_by_oem", h.GetBrandsByOEM)
				r.Get("/get_offers_by_oem_and_make_name", h.GetOffersByOEMAndMakeName)
				r.Post("/get_offers_by_oem_and_make_name", h.GetOffersBatch)
			})
		}

		r.Get("/api/v1/options/{kind}", h.GetOptions)
	})

	return r
}
