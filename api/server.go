/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/clients/*        Client roster
  /api/entries/*        Time entry log
  /api/invoices/*       Retainer / flat fee income
  /api/settings         Monthly target and work week
  /api/calendar/*       Non-work days and month calendar
  /api/dashboard/*      Monthly report
  /api/scenarios/*      What-if planning
  /api/demo/*           Demo datasets (dev only)
  /*                    Static files (frontend)

STATIC FILE SERVING:
  Serves a built frontend from Options.StaticDir when it exists.
  Falls back to index.html for client-side routing.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options tunes the router. The zero value is usable.
type Options struct {
	AllowedOrigins []string
	StaticDir      string
}

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{name}", h.GetClient)
			r.Put("/{name}", h.UpdateClient)
			r.Delete("/{name}", h.DeleteClient)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.ListTimeEntries)
			r.Post("/", h.CreateTimeEntry)
			r.Delete("/{id}", h.DeleteTimeEntry)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.ListInvoices)
			r.Post("/", h.CreateInvoice)
			r.Delete("/{id}", h.DeleteInvoice)
		})

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/non-work-days", h.ListNonWorkDays)
			r.Post("/non-work-days", h.CreateNonWorkDay)
			r.Delete("/non-work-days/{date}", h.DeleteNonWorkDay)
			r.Get("/{year}/{month}", h.GetCalendar)
		})

		r.Get("/dashboard/{year}/{month}", h.GetDashboard)
		r.Post("/scenarios/{year}/{month}", h.PlanScenario)

		r.Route("/demo", func(r chi.Router) {
			r.Get("/", h.ListDemos)
			r.Get("/current", h.GetCurrentDemo)
			r.Post("/load", h.LoadDemo)
			r.Post("/reset", h.ResetData)
		})
	})

	if opts.StaticDir != "" {
		if _, err := os.Stat(opts.StaticDir); err == nil {
			staticDir := opts.StaticDir
			fileServer := http.FileServer(http.Dir(staticDir))
			r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
				fullPath := filepath.Join(staticDir, filepath.Clean(r.URL.Path))
				if _, err := os.Stat(fullPath); os.IsNotExist(err) {
					// SPA routing: serve index.html
					http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
					return
				}
				fileServer.ServeHTTP(w, r)
			})
		}
	}

	return r
}
