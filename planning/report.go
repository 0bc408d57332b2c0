package planning

import (
	"github.com/warp/resource-planner/generic"
)

// Report is every engine output for one document snapshot.
type Report struct {
	Timeline      *Timeline
	Utilization   *UtilizationReport
	Integrity     *IntegrityReport
	ProjectCosts  []ProjectCost
	ResourceCosts []ResourceCost
	Validation    generic.ValidationErrors
}

// BuildReport runs classifier, timeline, aggregator, integrity check,
// validation and cost summaries over doc. doc is only read.
func BuildReport(doc *Document, opts AggregateOptions) (*Report, error) {
	if doc == nil {
		return nil, generic.ErrCatalogMissing
	}

	timeline, err := BuildTimeline(doc.Projects, doc.Catalog())
	if err != nil {
		return nil, err
	}
	utilization, err := Aggregate(timeline.Rows, opts)
	if err != nil {
		return nil, err
	}

	return &Report{
		Timeline:      timeline,
		Utilization:   utilization,
		Integrity:     CheckIntegrity(doc.People, doc.Teams, doc.Departments),
		ProjectCosts:  SummarizeProjectCosts(doc.Projects, timeline.Rows),
		ResourceCosts: SummarizeResourceCosts(timeline.Rows),
		Validation:    ValidateDocument(doc),
	}, nil
}
