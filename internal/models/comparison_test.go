package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComparisonOutcome_Helpers(t *testing.T) {
	prev := "old"
	changed := ComparisonOutcome{Target: "https://a.test", Status: StatusChanged, Previous: &prev, Current: "new", Fetched: true}
	initial := ComparisonOutcome{Target: "https://a.test", Status: StatusInitial, Current: "new", Fetched: true}

	assert.True(t, changed.IsChanged())
	assert.Equal(t, "old", changed.PreviousContent())
	assert.False(t, initial.IsChanged())
	assert.Equal(t, "", initial.PreviousContent())
	assert.Equal(t, "unchanged", StatusUnchanged.String())
}
