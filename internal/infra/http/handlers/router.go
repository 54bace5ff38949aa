package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/outreachd/outreach/internal/infra/http/middleware"
)

// API groups the handlers the router mounts. Nil handlers leave their
// routes unmounted.
type API struct {
	Health     *HealthHandler
	Contacts   *ContactHandler
	Templates  *TemplateHandler
	Generate   *GenerateHandler
	Campaigns  *CampaignHandler
	Ledger     *LedgerHandler
	Enrichment *EnrichmentHandler
	Profile    *ProfileHandler

	AllowedOrigins []string
	RateLimiter    *RateLimiter
}

func NewRouter(api API) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: api.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", TenantHeader},
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if api.Health != nil {
			r.Get("/health", api.Health.Handle)
		}

		r.Group(func(r chi.Router) {
			if api.RateLimiter != nil {
				r.Use(api.RateLimiter.Middleware)
			}

			if h := api.Contacts; h != nil {
				r.Post("/contacts", h.HandleCreate)
				r.Get("/contacts", h.HandleList)
				r.Get("/contacts/stats", h.HandleStats)
				r.Get("/contacts/export", h.HandleExport)
				r.Post("/contacts/import", h.HandleImport)
				r.Put("/contacts/{id}", h.HandleUpdate)
				r.Delete("/contacts/{id}", h.HandleDelete)
			}

			if h := api.Templates; h != nil {
				r.Get("/templates", h.HandleList)
				r.Post("/templates", h.HandleCreate)
				r.Post("/templates/defaults", h.HandleCreateDefaults)
				r.Get("/templates/{id}", h.HandleGet)
				r.Put("/templates/{id}", h.HandleUpdate)
				r.Delete("/templates/{id}", h.HandleDelete)
				r.Post("/templates/{id}/duplicate", h.HandleDuplicate)
				r.Post("/templates/{id}/default", h.HandleSetDefault)
			}

			if h := api.Generate; h != nil {
				r.Post("/generate", h.Handle)
			}

			if h := api.Campaigns; h != nil {
				r.Post("/campaigns/dry-run", h.DryRun)
				r.Post("/campaigns/send", h.Send)
			}

			if h := api.Ledger; h != nil {
				r.Get("/logs", h.HandleLogs)
				r.Get("/stats", h.HandleStats)
			}

			if h := api.Enrichment; h != nil {
				r.Post("/enrichment/search", h.HandleSearch)
				r.Post("/enrichment/find-email", h.HandleFindEmail)
				r.Post("/enrichment/enrich", h.HandleEnrich)
				r.Post("/enrichment/import", h.HandleImport)
				r.Get("/enrichment/providers", h.HandleProviders)
			}

			if h := api.Profile; h != nil {
				r.Get("/profile", h.HandleGet)
				r.Put("/profile", h.HandlePut)
			}
		})
	})

	return r
}
