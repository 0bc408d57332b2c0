/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built planning documents that each demonstrate one
	behavior of the engine: overlapping allocations, team costs, and the
	integrity findings.

AVAILABLE SCENARIOS:

	overlap:               Alice booked 100% + 50% over overlapping projects
	team-cost:             A two-person team costed as the sum of its members
	multi-team:            Carol listed in two teams
	department-mismatch:   A team listed by one department but naming another
	circular:              Two teams and two departments forming a cycle
	empty:                 Nothing at all

HOW SCENARIOS WORK:
 1. Build the document in code
 2. Save it through the configured store (replacing the current document)
 3. Swap it in as the live document

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "overlap"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create builder function: xxxScenario() *planning.Document
 3. Add case to ScenarioDocument

NOTE:

	Loading a scenario replaces the stored document. Only use in
	development/demo environments.

SEE ALSO:
  - handlers.go: Handler.mutate
  - cmd/planner/report.go: --scenario flag
*/
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "overlap",
		Name:        "Overlapping Projects",
		Description: "Alice at 100% on P1 and 50% on P2; six conflict days",
		Category:    "utilization",
	},
	{
		ID:          "team-cost",
		Name:        "Team Cost",
		Description: "Team T1 (Alice 100/day, Bob 150/day) on a 5-day project",
		Category:    "costs",
	},
	{
		ID:          "multi-team",
		Name:        "Multi-Team Member",
		Description: "Carol listed in both team X and team Y",
		Category:    "integrity",
	},
	{
		ID:          "department-mismatch",
		Name:        "Department Mismatch",
		Description: "Eng lists team Core, but Core names Ops as its department",
		Category:    "integrity",
	},
	{
		ID:          "circular",
		Name:        "Circular Membership",
		Description: "Core and Platform each listed by both Eng and Ops",
		Category:    "integrity",
	},
	{
		ID:          "empty",
		Name:        "Empty",
		Description: "No people, teams, departments or projects",
		Category:    "general",
	},
}

// Scenarios returns the available demo scenarios.
func Scenarios() []ScenarioDTO {
	return scenarios
}

// ScenarioDocument builds the document for a scenario id.
func ScenarioDocument(id string) (*planning.Document, bool) {
	switch id {
	case "overlap":
		return overlapScenario(), true
	case "team-cost":
		return teamCostScenario(), true
	case "multi-team":
		return multiTeamScenario(), true
	case "department-mismatch":
		return departmentMismatchScenario(), true
	case "circular":
		return circularScenario(), true
	case "empty":
		return planning.NewDocument(), true
	default:
		return nil, false
	}
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the last loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": current})
}

// LoadScenario replaces the document with a demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	scenario, ok := ScenarioDocument(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario: "+req.ScenarioID, nil)
		return
	}

	if err := h.mutate(r.Context(), func(doc *planning.Document) error {
		*doc = *scenario
		return nil
	}); err != nil {
		writeDomainError(w, "Failed to load scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.Logger.Info("Scenario loaded", slog.String("scenario", req.ScenarioID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "scenario_id": req.ScenarioID})
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func person(name, department, team string, dailyCost int64) planning.Person {
	return planning.Person{
		Name:           name,
		Role:           "Engineer",
		Department:     department,
		Team:           team,
		DailyCost:      decimal.NewFromInt(dailyCost),
		WorkDays:       weekdays,
		DailyWorkHours: 8,
	}
}

func date(month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(2024, month, day)
}

func overlapScenario() *planning.Document {
	doc := planning.NewDocument()
	doc.People = []planning.Person{person("Alice", "Engineering", "", 100)}
	doc.Departments = []planning.Department{{Name: "Engineering", Members: []string{"Alice"}}}
	doc.Projects = []planning.Project{
		{
			Name:              "P1",
			Start:             date(time.January, 1),
			End:               date(time.January, 10),
			Priority:          1,
			AllocatedBudget:   decimal.NewFromInt(1000),
			AssignedResources: []string{"Alice"},
		},
		{
			Name:              "P2",
			Start:             date(time.January, 5),
			End:               date(time.January, 14),
			Priority:          2,
			AllocatedBudget:   decimal.NewFromInt(400),
			AssignedResources: []string{"Alice"},
			Allocations: []planning.Allocation{
				{Resource: "Alice", Percentage: 50, Start: date(time.January, 5), End: date(time.January, 14)},
			},
		},
	}
	return doc
}

func teamCostScenario() *planning.Document {
	doc := planning.NewDocument()
	doc.People = []planning.Person{
		person("Alice", "Engineering", "T1", 100),
		person("Bob", "Engineering", "T1", 150),
	}
	doc.Teams = []planning.Team{{Name: "T1", Department: "Engineering", Members: []string{"Alice", "Bob"}}}
	doc.Departments = []planning.Department{{Name: "Engineering", Teams: []string{"T1"}}}
	doc.Projects = []planning.Project{{
		Name:              "Launch",
		Start:             date(time.March, 4),
		End:               date(time.March, 8),
		Priority:          1,
		AllocatedBudget:   decimal.NewFromInt(1000),
		AssignedResources: []string{"T1"},
	}}
	return doc
}

func multiTeamScenario() *planning.Document {
	doc := planning.NewDocument()
	doc.People = []planning.Person{person("Carol", "Engineering", "X", 120)}
	doc.Teams = []planning.Team{
		{Name: "X", Department: "Engineering", Members: []string{"Carol"}},
		{Name: "Y", Department: "Engineering", Members: []string{"Carol"}},
	}
	doc.Departments = []planning.Department{{Name: "Engineering", Teams: []string{"X", "Y"}}}
	return doc
}

func departmentMismatchScenario() *planning.Document {
	doc := planning.NewDocument()
	doc.Teams = []planning.Team{{Name: "Core", Department: "Ops"}}
	doc.Departments = []planning.Department{
		{Name: "Eng", Teams: []string{"Core"}},
		{Name: "Ops"},
	}
	return doc
}

func circularScenario() *planning.Document {
	doc := planning.NewDocument()
	doc.Teams = []planning.Team{
		{Name: "Core", Department: "Eng"},
		{Name: "Platform", Department: "Ops"},
	}
	doc.Departments = []planning.Department{
		{Name: "Eng", Teams: []string{"Core", "Platform"}},
		{Name: "Ops", Teams: []string{"Core", "Platform"}},
	}
	return doc
}
