package monitor

import (
	"testing"

	"github.com/aleister1102/pagewatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleTracker_Basic(t *testing.T) {
	ct := NewCycleTracker(0)

	report, ok := ct.StartCycle(2)
	require.True(t, ok)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, report.ID, ct.CurrentCycleID())

	prev := "a"
	report.Record(models.ComparisonOutcome{Target: "https://b.test", Status: models.StatusChanged, Previous: &prev, Current: "b", Fetched: true})
	report.Record(models.ComparisonOutcome{Target: "https://c.test", Status: models.StatusUnchanged, Fetched: false})
	report.RecordSkipped()

	assert.Equal(t, 1, report.Count(models.StatusChanged))
	assert.Equal(t, 1, report.Count(models.StatusUnchanged))
	assert.Equal(t, 1, report.FailedCount())
	assert.Equal(t, 1, report.SkippedCount())
	assert.Equal(t, []string{"https://b.test"}, report.ChangedURLs())

	id, _, _ := ct.LastCompleted()
	assert.Empty(t, id, "nothing completed yet")

	ct.EndCycle(report)
	assert.Equal(t, int64(1), ct.CompletedCycles())
	assert.True(t, ct.ShouldContinue())

	id, changed, completedAt := ct.LastCompleted()
	assert.Equal(t, report.ID, id)
	assert.Equal(t, []string{"https://b.test"}, changed)
	assert.False(t, completedAt.IsZero())

	changed[0] = "https://mutated.test"
	_, again, _ := ct.LastCompleted()
	assert.Equal(t, []string{"https://b.test"}, again, "callers get a copy")
}

func TestCycleTracker_LastCompletedFollowsEndOrder(t *testing.T) {
	ct := NewCycleTracker(0)

	older, ok := ct.StartCycle(1)
	require.True(t, ok)
	newer, ok := ct.StartCycle(1)
	require.True(t, ok)
	assert.Equal(t, newer.ID, ct.CurrentCycleID())

	ct.EndCycle(newer)
	ct.EndCycle(older)

	id, changed, _ := ct.LastCompleted()
	assert.Equal(t, older.ID, id)
	assert.Empty(t, changed)
	assert.Equal(t, 2, ct.StartedCycles())
}

func TestCycleTracker_MaxCycles(t *testing.T) {
	ct := NewCycleTracker(2)

	first, ok := ct.StartCycle(1)
	require.True(t, ok)
	second, ok := ct.StartCycle(1)
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)

	assert.False(t, ct.ShouldContinue())
	_, ok = ct.StartCycle(1)
	assert.False(t, ok)
	assert.Equal(t, 2, ct.StartedCycles())
}
