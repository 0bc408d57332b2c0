/*
handlers.go - HTTP API handlers for the resource planner

PURPOSE:
  Exposes the planning engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the planning package.

ENDPOINTS:
  Records (same shape for people, teams, departments, projects):
    GET    /api/people                 List (optional ?page=N)
    POST   /api/people                 Create
    GET    /api/people/{name}          Get one
    PUT    /api/people/{name}          Create or replace
    DELETE /api/people/{name}          Delete and drop references

  Engine:
    GET    /api/classify/{name}        Resolve a name to Person/Team/Department
    GET    /api/timeline               Allocation rows
    GET    /api/utilization            Utilization table (?from=&to=)
    GET    /api/conflicts              Overbooked days (?from=&to=&resource=)
    GET    /api/integrity              Cycles and multi-membership
    GET    /api/validation             Record-level validation issues
    GET    /api/costs                  Cost and budget summary

  Admin:
    POST   /api/teams/prune            Remove undersized teams
    GET    /api/settings               UI settings
    PUT    /api/settings               Replace UI settings
    GET    /api/snapshots              Saved versions (sqlite backend)
    GET    /api/snapshots/{id}         One saved version
    POST   /api/snapshots/{id}/restore Make a saved version current
    GET    /api/export/workbook        Report as .xlsx
    GET    /api/export/document        Raw document JSON

ARCHITECTURE:
  Handler owns the live Document. Reads take a read lock and work on the
  shared document, which is never mutated in place. Writes clone it, apply
  the change, save the clone, and only then swap it in. A failed save leaves
  the live document untouched.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Name already used by another record
  - 500: Internal errors (store failures)
  - 501: Operation not supported by the configured store

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/warp/resource-planner/config"
	"github.com/warp/resource-planner/export"
	"github.com/warp/resource-planner/factory"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/metrics"
	"github.com/warp/resource-planner/planning"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// SettingsStore persists the UI settings document.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (config.Settings, error)
	SaveSettings(ctx context.Context, settings config.Settings) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         planning.Store
	SettingsStore SettingsStore // nil = defaults, not persisted
	Logger        *slog.Logger

	mu       sync.RWMutex
	doc      *planning.Document
	settings config.Settings

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with an empty document. Call Load to
// read the stored one.
func NewHandler(store planning.Store, settings SettingsStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:         store,
		SettingsStore: settings,
		Logger:        logger,
		doc:           planning.NewDocument(),
		settings:      config.DefaultSettings(),
	}
}

// Load reads the document and settings from the stores.
func (h *Handler) Load(ctx context.Context) error {
	doc, err := h.Store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	settings := config.DefaultSettings()
	if h.SettingsStore != nil {
		if settings, err = h.SettingsStore.LoadSettings(ctx); err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.doc = doc
	h.settings = settings
	return nil
}

// Replace swaps in a document loaded elsewhere (file watcher). It is not
// saved.
func (h *Handler) Replace(doc *planning.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.doc = doc
}

// Document returns a copy of the live document.
func (h *Handler) Document() *planning.Document {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.doc.Clone()
}

// Settings returns the live settings.
func (h *Handler) Settings() config.Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings
}

// view runs fn under the read lock. fn must not modify doc.
func (h *Handler) view(fn func(doc *planning.Document, settings config.Settings)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn(h.doc, h.settings)
}

// mutate applies fn to a copy of the document, saves it, then swaps it in.
func (h *Handler) mutate(ctx context.Context, fn func(doc *planning.Document) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	err := h.Store.Save(ctx, next)
	metrics.RecordSave(err)
	if err != nil {
		h.Logger.Error("Failed to save document", slog.String("error", err.Error()))
		return fmt.Errorf("failed to save document: %w", err)
	}
	h.doc = next
	return nil
}

// report builds the full report for the request's ?from=&to= window.
func (h *Handler) report(r *http.Request) (*planning.Report, config.Settings, error) {
	opts, err := aggregateOptions(r)
	if err != nil {
		return nil, config.Settings{}, err
	}
	var (
		rep      *planning.Report
		settings config.Settings
	)
	h.view(func(doc *planning.Document, s config.Settings) {
		settings = s
		rep, err = planning.BuildReport(doc, opts)
	})
	return rep, settings, err
}

// =============================================================================
// PEOPLE HANDLERS
// =============================================================================

// ListPeople returns all people.
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page", err)
		return
	}
	var resp Page[factory.PersonJSON]
	h.view(func(doc *planning.Document, s config.Settings) {
		dtos := make([]factory.PersonJSON, len(doc.People))
		for i, p := range doc.People {
			dtos[i] = factory.PersonToJSON(p)
		}
		resp = paginate(dtos, page, s.PageSize)
	})
	writeJSON(w, http.StatusOK, resp)
}

// GetPerson returns a single person.
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var (
		p  planning.Person
		ok bool
	)
	h.view(func(doc *planning.Document, _ config.Settings) { p, ok = doc.Person(name) })
	if !ok {
		writeError(w, http.StatusNotFound, "Person not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, factory.PersonToJSON(p))
}

// CreatePerson adds a person.
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	h.putPerson(w, r, "", true)
}

// UpdatePerson creates or replaces the person named in the path.
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	h.putPerson(w, r, chi.URLParam(r, "name"), false)
}

func (h *Handler) putPerson(w http.ResponseWriter, r *http.Request, name string, create bool) {
	var req factory.PersonJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if name != "" {
		req.Name = name
	}
	person, dataErrs := factory.PersonFromJSON(req)
	if len(dataErrs) > 0 {
		writeError(w, http.StatusBadRequest, "Invalid person", dataErrs[0])
		return
	}

	err := h.mutate(r.Context(), func(doc *planning.Document) error {
		if _, exists := doc.Person(person.Name); exists && create {
			return fmt.Errorf("person %q: %w", person.Name, generic.ErrDuplicateName)
		}
		return doc.UpsertPerson(person)
	})
	if err != nil {
		writeDomainError(w, "Failed to save person", err)
		return
	}
	writeJSON(w, statusFor(create), factory.PersonToJSON(person))
}

// DeletePerson removes a person and every reference to them.
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.mutate(r.Context(), func(doc *planning.Document) error {
		return doc.DeletePerson(name)
	})
	if err != nil {
		writeDomainError(w, "Failed to delete person", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "name": name})
}

// =============================================================================
// TEAM HANDLERS
// =============================================================================

// ListTeams returns all teams.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page", err)
		return
	}
	var resp Page[factory.TeamJSON]
	h.view(func(doc *planning.Document, s config.Settings) {
		dtos := make([]factory.TeamJSON, len(doc.Teams))
		for i, t := range doc.Teams {
			dtos[i] = factory.TeamToJSON(t)
		}
		resp = paginate(dtos, page, s.PageSize)
	})
	writeJSON(w, http.StatusOK, resp)
}

// GetTeam returns a single team.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var (
		t  planning.Team
		ok bool
	)
	h.view(func(doc *planning.Document, _ config.Settings) { t, ok = doc.Team(name) })
	if !ok {
		writeError(w, http.StatusNotFound, "Team not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, factory.TeamToJSON(t))
}

// CreateTeam adds a team.
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	h.putTeam(w, r, "", true)
}

// UpdateTeam creates or replaces the team named in the path.
func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	h.putTeam(w, r, chi.URLParam(r, "name"), false)
}

func (h *Handler) putTeam(w http.ResponseWriter, r *http.Request, name string, create bool) {
	var req factory.TeamJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if name != "" {
		req.Name = name
	}
	team := factory.TeamFromJSON(req)

	err := h.mutate(r.Context(), func(doc *planning.Document) error {
		if _, exists := doc.Team(team.Name); exists && create {
			return fmt.Errorf("team %q: %w", team.Name, generic.ErrDuplicateName)
		}
		return doc.UpsertTeam(team)
	})
	if err != nil {
		writeDomainError(w, "Failed to save team", err)
		return
	}
	writeJSON(w, statusFor(create), factory.TeamToJSON(team))
}

// DeleteTeam removes a team and every reference to it.
func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.mutate(r.Context(), func(doc *planning.Document) error {
		return doc.DeleteTeam(name)
	})
	if err != nil {
		writeDomainError(w, "Failed to delete team", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "name": name})
}

// PruneTeams removes teams with fewer than min_members members.
// POST /api/teams/prune
func (h *Handler) PruneTeams(w http.ResponseWriter, r *http.Request) {
	var req PruneTeamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.MinMembers < 1 {
		writeError(w, http.StatusBadRequest, "min_members must be at least 1", nil)
		return
	}

	var pruned []string
	err := h.mutate(r.Context(), func(doc *planning.Document) error {
		var err error
		pruned, err = doc.PruneTeams(req.MinMembers)
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to prune teams", err)
		return
	}
	h.Logger.Info("Pruned teams", slog.Int("min_members", req.MinMembers), slog.Int("pruned", len(pruned)))
	writeJSON(w, http.StatusOK, PruneTeamsResponse{Pruned: pruned})
}

// =============================================================================
// DEPARTMENT HANDLERS
// =============================================================================

// ListDepartments returns all departments.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page", err)
		return
	}
	var resp Page[factory.DepartmentJSON]
	h.view(func(doc *planning.Document, s config.Settings) {
		dtos := make([]factory.DepartmentJSON, len(doc.Departments))
		for i, d := range doc.Departments {
			dtos[i] = factory.DepartmentToJSON(d)
		}
		resp = paginate(dtos, page, s.PageSize)
	})
	writeJSON(w, http.StatusOK, resp)
}

// GetDepartment returns a single department.
func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var (
		d  planning.Department
		ok bool
	)
	h.view(func(doc *planning.Document, _ config.Settings) { d, ok = doc.Department(name) })
	if !ok {
		writeError(w, http.StatusNotFound, "Department not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, factory.DepartmentToJSON(d))
}

// CreateDepartment adds a department.
func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	h.putDepartment(w, r, "", true)
}

// UpdateDepartment creates or replaces the department named in the path.
func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	h.putDepartment(w, r, chi.URLParam(r, "name"), false)
}

func (h *Handler) putDepartment(w http.ResponseWriter, r *http.Request, name string, create bool) {
	var req factory.DepartmentJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if name != "" {
		req.Name = name
	}
	dep := factory.DepartmentFromJSON(req)

	err := h.mutate(r.Context(), func(doc *planning.Document) error {
		if _, exists := doc.Department(dep.Name); exists && create {
			return fmt.Errorf("department %q: %w", dep.Name, generic.ErrDuplicateName)
		}
		return doc.UpsertDepartment(dep)
	})
	if err != nil {
		writeDomainError(w, "Failed to save department", err)
		return
	}
	writeJSON(w, statusFor(create), factory.DepartmentToJSON(dep))
}

// DeleteDepartment removes a department; its people and teams become
// unassigned.
func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.mutate(r.Context(), func(doc *planning.Document) error {
		return doc.DeleteDepartment(name)
	})
	if err != nil {
		writeDomainError(w, "Failed to delete department", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "name": name})
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page", err)
		return
	}
	var resp Page[factory.ProjectJSON]
	h.view(func(doc *planning.Document, s config.Settings) {
		dtos := make([]factory.ProjectJSON, len(doc.Projects))
		for i, p := range doc.Projects {
			dtos[i] = factory.ProjectToJSON(p)
		}
		resp = paginate(dtos, page, s.PageSize)
	})
	writeJSON(w, http.StatusOK, resp)
}

// GetProject returns a single project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var (
		p  planning.Project
		ok bool
	)
	h.view(func(doc *planning.Document, _ config.Settings) { p, ok = doc.Project(name) })
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, factory.ProjectToJSON(p))
}

// CreateProject adds a project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	h.putProject(w, r, "", true)
}

// UpdateProject creates or replaces the project named in the path.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	h.putProject(w, r, chi.URLParam(r, "name"), false)
}

func (h *Handler) putProject(w http.ResponseWriter, r *http.Request, name string, create bool) {
	var req factory.ProjectJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if name != "" {
		req.Name = name
	}
	project, dataErrs := factory.ProjectFromJSON(req)
	if len(dataErrs) > 0 {
		writeError(w, http.StatusBadRequest, "Invalid project", dataErrs[0])
		return
	}

	err := h.mutate(r.Context(), func(doc *planning.Document) error {
		if _, exists := doc.Project(project.Name); exists && create {
			return fmt.Errorf("project %q: %w", project.Name, generic.ErrDuplicateName)
		}
		return doc.UpsertProject(project)
	})
	if err != nil {
		writeDomainError(w, "Failed to save project", err)
		return
	}
	writeJSON(w, statusFor(create), factory.ProjectToJSON(project))
}

// DeleteProject removes a project.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.mutate(r.Context(), func(doc *planning.Document) error {
		return doc.DeleteProject(name)
	})
	if err != nil {
		writeDomainError(w, "Failed to delete project", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "name": name})
}

// =============================================================================
// ENGINE HANDLERS
// =============================================================================

// Classify resolves a name against the catalogs.
// GET /api/classify/{name}
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var c planning.Classification
	h.view(func(doc *planning.Document, _ config.Settings) {
		c = doc.Catalog().Classify(name)
	})
	writeJSON(w, http.StatusOK, toClassificationDTO(name, c))
}

// GetTimeline returns every allocation row plus skipped records.
// GET /api/timeline
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	var (
		tl  *planning.Timeline
		err error
	)
	h.view(func(doc *planning.Document, _ config.Settings) {
		tl, err = planning.BuildTimeline(doc.Projects, doc.Catalog())
	})
	if err != nil {
		writeDomainError(w, "Failed to build timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, toTimelineDTO(tl))
}

// GetUtilization returns the utilization table and conflicts.
// GET /api/utilization?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) GetUtilization(w http.ResponseWriter, r *http.Request) {
	rep, settings, err := h.report(r)
	if err != nil {
		writeDomainError(w, "Failed to compute utilization", err)
		return
	}
	writeJSON(w, http.StatusOK, toUtilizationDTO(rep.Utilization, settings))
}

// GetConflicts returns overbooked days, optionally for one resource.
// GET /api/conflicts?resource=Alice
func (h *Handler) GetConflicts(w http.ResponseWriter, r *http.Request) {
	rep, _, err := h.report(r)
	if err != nil {
		writeDomainError(w, "Failed to compute conflicts", err)
		return
	}
	conflicts := rep.Utilization.Conflicts
	if resource := r.URL.Query().Get("resource"); resource != "" {
		conflicts = rep.Utilization.ConflictsFor(resource)
	}
	writeJSON(w, http.StatusOK, map[string]any{"conflicts": toConflictDTOs(conflicts)})
}

// GetIntegrity returns membership cycles and multi-membership findings.
// GET /api/integrity
func (h *Handler) GetIntegrity(w http.ResponseWriter, r *http.Request) {
	var rep *planning.IntegrityReport
	h.view(func(doc *planning.Document, _ config.Settings) {
		rep = planning.CheckIntegrity(doc.People, doc.Teams, doc.Departments)
	})
	writeJSON(w, http.StatusOK, toIntegrityDTO(rep))
}

// GetValidation returns record-level validation issues.
// GET /api/validation
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	var errs generic.ValidationErrors
	h.view(func(doc *planning.Document, _ config.Settings) {
		errs = planning.ValidateDocument(doc)
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  len(errs) == 0,
		"issues": toValidationDTOs(errs),
	})
}

// GetCosts returns per-project and per-resource costs.
// GET /api/costs
func (h *Handler) GetCosts(w http.ResponseWriter, r *http.Request) {
	rep, settings, err := h.report(r)
	if err != nil {
		writeDomainError(w, "Failed to compute costs", err)
		return
	}
	writeJSON(w, http.StatusOK, toCostsDTO(rep, settings))
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the UI settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Settings())
}

// PutSettings replaces the UI settings.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req config.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	settings := req.WithDefaults()
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.SettingsStore != nil {
		if err := h.SettingsStore.SaveSettings(r.Context(), settings); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
			return
		}
	}
	h.settings = settings
	writeJSON(w, http.StatusOK, settings)
}

// =============================================================================
// SNAPSHOT HANDLERS
// =============================================================================

func (h *Handler) snapshotStore(w http.ResponseWriter) (planning.SnapshotStore, bool) {
	ss, ok := h.Store.(planning.SnapshotStore)
	if !ok {
		writeError(w, http.StatusNotImplemented, "Snapshots require the sqlite backend", generic.ErrUnsupported)
	}
	return ss, ok
}

// ListSnapshots returns saved versions, newest first.
// GET /api/snapshots?limit=20
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ss, ok := h.snapshotStore(w)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	infos, err := ss.ListSnapshots(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}
	dtos := make([]SnapshotDTO, len(infos))
	for i, info := range infos {
		dtos[i] = toSnapshotDTO(info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": dtos})
}

// GetSnapshot returns the document saved under id.
// GET /api/snapshots/{id}
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ss, ok := h.snapshotStore(w)
	if !ok {
		return
	}
	doc, err := ss.LoadSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to load snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToJSON(doc))
}

// RestoreSnapshot saves an older version as the newest one.
// POST /api/snapshots/{id}/restore
func (h *Handler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	ss, ok := h.snapshotStore(w)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	old, err := ss.LoadSnapshot(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to load snapshot", err)
		return
	}
	if err := h.mutate(r.Context(), func(doc *planning.Document) error {
		*doc = *old
		return nil
	}); err != nil {
		writeDomainError(w, "Failed to restore snapshot", err)
		return
	}
	h.Logger.Info("Snapshot restored", slog.String("id", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored", "id": id})
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// ExportWorkbook streams the report as an Excel workbook.
// GET /api/export/workbook
func (h *Handler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	rep, settings, err := h.report(r)
	if err != nil {
		writeDomainError(w, "Failed to build report", err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="resource_report.xlsx"`)
	if err := export.WriteReport(w, rep, settings); err != nil {
		h.Logger.Error("Failed to write workbook", slog.String("error", err.Error()))
	}
}

// ExportDocument returns the live document in file format.
// GET /api/export/document
func (h *Handler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	var dj factory.DocumentJSON
	h.view(func(doc *planning.Document, _ config.Settings) { dj = factory.ToJSON(doc) })
	w.Header().Set("Content-Disposition", `attachment; filename="resource_data.json"`)
	writeJSON(w, http.StatusOK, dj)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	var verrs generic.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Issues = toValidationDTOs(verrs)
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps planning errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case generic.IsNotFound(err):
		status = http.StatusNotFound
	case generic.IsConflict(err):
		status = http.StatusConflict
	case generic.IsClientError(err):
		status = http.StatusBadRequest
	}
	writeError(w, status, message, err)
}

func statusFor(create bool) int {
	if create {
		return http.StatusCreated
	}
	return http.StatusOK
}

func pageParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("page")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("page must be a positive integer, got %q", v)
	}
	return n, nil
}

func aggregateOptions(r *http.Request) (planning.AggregateOptions, error) {
	var opts planning.AggregateOptions
	for _, p := range []struct {
		key string
		dst **generic.TimePoint
	}{{"from", &opts.From}, {"to", &opts.To}} {
		v := r.URL.Query().Get(p.key)
		if v == "" {
			continue
		}
		tp, err := generic.ParseTimePoint(v)
		if err != nil {
			return opts, fmt.Errorf("invalid %s date %q: %w", p.key, v, generic.ErrInvalidPeriod)
		}
		*p.dst = &tp
	}
	return opts, nil
}
