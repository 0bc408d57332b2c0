/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Record bodies (people,
  teams, departments, projects) reuse the document format from factory so
  the API and the JSON file agree on field names.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Records:
    factory.PersonJSON, factory.TeamJSON, factory.DepartmentJSON,
    factory.ProjectJSON, Page[T]

  Engine output:
    ClassificationDTO, TimelineDTO, UtilizationDTO, ConflictDTO,
    IntegrityDTO, ValidationIssueDTO, CostsDTO

  Admin:
    PruneTeamsRequest, SnapshotDTO, ScenarioDTO, LoadScenarioRequest

SEE ALSO:
  - handlers.go: Uses these types
  - factory/document.go: Record JSON types
*/
package api

import (
	"time"

	"github.com/warp/resource-planner/config"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
)

// =============================================================================
// PAGINATION
// =============================================================================

// Page wraps one page of a list endpoint. PageSize 0 means unpaged.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// paginate returns the 1-based page of items. page <= 0 returns everything.
func paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	if page <= 0 || size <= 0 {
		return Page[T]{Items: items, Page: 1, PageSize: 0, Total: total}
	}
	start := min((page-1)*size, total)
	end := min(start+size, total)
	return Page[T]{Items: items[start:end], Page: page, PageSize: size, Total: total}
}

// =============================================================================
// ENGINE OUTPUT
// =============================================================================

// ClassificationDTO is the resolved type of a name.
type ClassificationDTO struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Department string `json:"department"`
	Team       string `json:"team,omitempty"`
}

// AllocationRowDTO is one timeline row.
type AllocationRowDTO struct {
	Resource     string  `json:"resource"`
	Type         string  `json:"type"`
	Department   string  `json:"department"`
	Team         string  `json:"team,omitempty"`
	Project      string  `json:"project"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Percentage   float64 `json:"allocation_percentage"`
	DurationDays int     `json:"duration_days"`
	Cost         float64 `json:"cost"`
}

// DataErrorDTO is a record skipped while building the timeline.
type DataErrorDTO struct {
	Entity  string `json:"entity"`
	Name    string `json:"name"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// TimelineDTO is the timeline plus skipped records.
type TimelineDTO struct {
	Rows   []AllocationRowDTO `json:"rows"`
	Errors []DataErrorDTO     `json:"errors"`
}

// ResourceUtilizationDTO is one utilization table entry.
type ResourceUtilizationDTO struct {
	Resource       string  `json:"resource"`
	Type           string  `json:"type"`
	Department     string  `json:"department"`
	Utilization    float64 `json:"utilization"`
	Overallocation float64 `json:"overallocation"`
	Status         string  `json:"status"`
	PeriodDays     int     `json:"period_days"`
	AllocatedDays  int     `json:"allocated_days"`
	ConflictDays   int     `json:"conflict_days"`
	PeakAllocation float64 `json:"peak_allocation"`
}

// ConflictDTO is one overbooked (resource, day).
type ConflictDTO struct {
	Resource        string   `json:"resource"`
	Date            string   `json:"date"`
	TotalAllocation float64  `json:"total_allocation"`
	Projects        []string `json:"projects"`
}

// UtilizationDTO is the aggregator output.
type UtilizationDTO struct {
	PeriodStart string                   `json:"period_start,omitempty"`
	PeriodEnd   string                   `json:"period_end,omitempty"`
	Resources   []ResourceUtilizationDTO `json:"resources"`
	Conflicts   []ConflictDTO            `json:"conflicts"`
}

// MembershipDTO is a record attributed to several groups.
type MembershipDTO struct {
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

// IntegrityDTO is the integrity checker output.
type IntegrityDTO struct {
	Cycles                [][]string      `json:"cycles"`
	MultiTeam             []MembershipDTO `json:"multi_team"`
	MultiDepartmentPeople []MembershipDTO `json:"multi_department_people"`
	MultiDepartmentTeams  []MembershipDTO `json:"multi_department_teams"`
	IssueCount            int             `json:"issue_count"`
	Clean                 bool            `json:"clean"`
}

// ValidationIssueDTO is one record-level validation failure.
type ValidationIssueDTO struct {
	Entity  string `json:"entity"`
	Name    string `json:"name"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ProjectCostDTO compares a project's cost with its budget.
type ProjectCostDTO struct {
	Project    string  `json:"project"`
	Priority   int     `json:"priority"`
	Budget     float64 `json:"allocated_budget"`
	Cost       float64 `json:"cost"`
	Remaining  float64 `json:"remaining"`
	OverBudget bool    `json:"over_budget"`
	Rows       int     `json:"rows"`
}

// ResourceCostDTO is one resource's total cost.
type ResourceCostDTO struct {
	Resource string  `json:"resource"`
	Type     string  `json:"type"`
	Cost     float64 `json:"cost"`
	Days     int     `json:"days"`
}

// CostsDTO is the cost summary.
type CostsDTO struct {
	Currency       string            `json:"currency"`
	CurrencySymbol string            `json:"currency_symbol"`
	Projects       []ProjectCostDTO  `json:"projects"`
	Resources      []ResourceCostDTO `json:"resources"`
}

// =============================================================================
// ADMIN
// =============================================================================

// PruneTeamsRequest removes teams with fewer than MinMembers members.
type PruneTeamsRequest struct {
	MinMembers int `json:"min_members"`
}

// PruneTeamsResponse lists the removed teams.
type PruneTeamsResponse struct {
	Pruned []string `json:"pruned"`
}

// SnapshotDTO describes one saved version.
type SnapshotDTO struct {
	ID          string `json:"id"`
	SavedAt     string `json:"saved_at"`
	People      int    `json:"people"`
	Teams       int    `json:"teams"`
	Departments int    `json:"departments"`
	Projects    int    `json:"projects"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string               `json:"error"`
	Details string               `json:"details,omitempty"`
	Issues  []ValidationIssueDTO `json:"issues,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toClassificationDTO(name string, c planning.Classification) ClassificationDTO {
	return ClassificationDTO{Name: name, Type: string(c.Kind), Department: c.Department, Team: c.Team}
}

func toTimelineDTO(tl *planning.Timeline) TimelineDTO {
	dto := TimelineDTO{
		Rows:   make([]AllocationRowDTO, len(tl.Rows)),
		Errors: make([]DataErrorDTO, len(tl.Errors)),
	}
	for i, r := range tl.Rows {
		dto.Rows[i] = AllocationRowDTO{
			Resource:     r.Resource,
			Type:         string(r.Type),
			Department:   r.Department,
			Team:         r.Team,
			Project:      r.Project,
			StartDate:    r.Start.String(),
			EndDate:      r.End.String(),
			Percentage:   r.Percentage,
			DurationDays: r.DurationDays,
			Cost:         r.Cost.InexactFloat64(),
		}
	}
	for i, e := range tl.Errors {
		dto.Errors[i] = DataErrorDTO{Entity: e.Entity, Name: e.Name, Field: e.Field, Message: e.Error()}
	}
	return dto
}

func toUtilizationDTO(r *planning.UtilizationReport, settings config.Settings) UtilizationDTO {
	dto := UtilizationDTO{
		PeriodStart: r.Period.Start.String(),
		PeriodEnd:   r.Period.End.String(),
		Resources:   make([]ResourceUtilizationDTO, len(r.Utilization)),
		Conflicts:   toConflictDTOs(r.Conflicts),
	}
	for i, u := range r.Utilization {
		dto.Resources[i] = ResourceUtilizationDTO{
			Resource:       u.Resource,
			Type:           string(u.Type),
			Department:     u.Department,
			Utilization:    u.Utilization,
			Overallocation: u.Overallocation,
			Status:         settings.Status(u.Utilization, u.Overallocation),
			PeriodDays:     u.PeriodDays,
			AllocatedDays:  u.AllocatedDays,
			ConflictDays:   u.ConflictDays,
			PeakAllocation: u.PeakAllocation,
		}
	}
	return dto
}

func toConflictDTOs(conflicts []planning.Conflict) []ConflictDTO {
	dtos := make([]ConflictDTO, len(conflicts))
	for i, c := range conflicts {
		dtos[i] = ConflictDTO{
			Resource:        c.Resource,
			Date:            c.Date.String(),
			TotalAllocation: c.TotalAllocation,
			Projects:        c.Projects,
		}
	}
	return dtos
}

func toIntegrityDTO(r *planning.IntegrityReport) IntegrityDTO {
	return IntegrityDTO{
		Cycles:                r.Cycles,
		MultiTeam:             toMembershipDTOs(r.MultiTeam),
		MultiDepartmentPeople: toMembershipDTOs(r.MultiDepartmentPeople),
		MultiDepartmentTeams:  toMembershipDTOs(r.MultiDepartmentTeams),
		IssueCount:            r.IssueCount(),
		Clean:                 r.Clean(),
	}
}

func toMembershipDTOs(ms []planning.Membership) []MembershipDTO {
	dtos := make([]MembershipDTO, len(ms))
	for i, m := range ms {
		dtos[i] = MembershipDTO{Name: m.Name, Groups: m.Groups}
	}
	return dtos
}

func toValidationDTOs(errs generic.ValidationErrors) []ValidationIssueDTO {
	dtos := make([]ValidationIssueDTO, len(errs))
	for i, e := range errs {
		dtos[i] = ValidationIssueDTO{Entity: e.Entity, Name: e.Name, Field: e.Field, Message: e.Message}
	}
	return dtos
}

func toCostsDTO(r *planning.Report, settings config.Settings) CostsDTO {
	dto := CostsDTO{
		Currency:       settings.Currency,
		CurrencySymbol: settings.CurrencySymbol,
		Projects:       make([]ProjectCostDTO, len(r.ProjectCosts)),
		Resources:      make([]ResourceCostDTO, len(r.ResourceCosts)),
	}
	for i, pc := range r.ProjectCosts {
		dto.Projects[i] = ProjectCostDTO{
			Project:    pc.Project,
			Priority:   pc.Priority,
			Budget:     pc.Budget.InexactFloat64(),
			Cost:       pc.Cost.InexactFloat64(),
			Remaining:  pc.Remaining.InexactFloat64(),
			OverBudget: pc.OverBudget,
			Rows:       pc.Rows,
		}
	}
	for i, rc := range r.ResourceCosts {
		dto.Resources[i] = ResourceCostDTO{
			Resource: rc.Resource,
			Type:     string(rc.Type),
			Cost:     rc.Cost.InexactFloat64(),
			Days:     rc.Days,
		}
	}
	return dto
}

func toSnapshotDTO(s planning.SnapshotInfo) SnapshotDTO {
	return SnapshotDTO{
		ID:          s.ID,
		SavedAt:     s.SavedAt.Format(time.RFC3339),
		People:      s.People,
		Teams:       s.Teams,
		Departments: s.Departments,
		Projects:    s.Projects,
	}
}
