/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the planner UI

ROUTE GROUPS:
  /api/people/*        People
  /api/teams/*         Teams (plus /prune)
  /api/departments/*   Departments
  /api/projects/*      Projects
  /api/...             Engine reports, settings, snapshots, exports
  /api/scenarios/*     Demo scenarios
  /metrics             Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/planner/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/resource-planner/metrics"
)

// DefaultAllowedOrigins is used when NewRouter gets no origins.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Handle("/metrics", metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/people", func(r chi.Router) {
			r.Get("/", h.ListPeople)
			r.Post("/", h.CreatePerson)
			r.Get("/{name}", h.GetPerson)
			r.Put("/{name}", h.UpdatePerson)
			r.Delete("/{name}", h.DeletePerson)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.ListTeams)
			r.Post("/", h.CreateTeam)
			r.Post("/prune", h.PruneTeams)
			r.Get("/{name}", h.GetTeam)
			r.Put("/{name}", h.UpdateTeam)
			r.Delete("/{name}", h.DeleteTeam)
		})

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", h.ListDepartments)
			r.Post("/", h.CreateDepartment)
			r.Get("/{name}", h.GetDepartment)
			r.Put("/{name}", h.UpdateDepartment)
			r.Delete("/{name}", h.DeleteDepartment)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{name}", h.GetProject)
			r.Put("/{name}", h.UpdateProject)
			r.Delete("/{name}", h.DeleteProject)
		})

		// Engine routes
		r.Get("/classify/{name}", h.Classify)
		r.Get("/timeline", h.GetTimeline)
		r.Get("/utilization", h.GetUtilization)
		r.Get("/conflicts", h.GetConflicts)
		r.Get("/integrity", h.GetIntegrity)
		r.Get("/validation", h.GetValidation)
		r.Get("/costs", h.GetCosts)

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)

		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", h.ListSnapshots)
			r.Get("/{id}", h.GetSnapshot)
			r.Post("/{id}/restore", h.RestoreSnapshot)
		})

		r.Route("/export", func(r chi.Router) {
			r.Get("/workbook", h.ExportWorkbook)
			r.Get("/document", h.ExportDocument)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
