package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/resource-planner/planning"
)

type staticSource struct{ doc *planning.Document }

func (s staticSource) Document() *planning.Document { return s.doc.Clone() }

func TestReportScheduler_Refresh(t *testing.T) {
	rs := NewReportScheduler(staticSource{doc: overlapScenario()}, nil)
	assert.Nil(t, rs.Last())

	rs.Refresh()

	require.NotNil(t, rs.Last())
	assert.Len(t, rs.Last().Utilization.Conflicts, 6)
}

func TestReportScheduler_StartStop(t *testing.T) {
	// GIVEN: A scheduler with a short interval
	rs := NewReportScheduler(staticSource{doc: teamCostScenario()}, nil)
	rs.RefreshInterval = 10 * time.Millisecond

	// WHEN: Started
	rs.Start()
	rs.Start() // second start is a no-op

	// THEN: The first report lands right away
	require.Eventually(t, func() bool { return rs.Last() != nil }, time.Second, 5*time.Millisecond)

	rs.Stop()
	rs.Stop()
}

func TestReportScheduler_Disabled(t *testing.T) {
	rs := NewReportScheduler(staticSource{doc: planning.NewDocument()}, nil)
	rs.Enabled = false

	rs.Start()
	defer rs.Stop()

	assert.Never(t, func() bool { return rs.Last() != nil }, 50*time.Millisecond, 10*time.Millisecond)
}
