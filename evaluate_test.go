package taskfilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateBooleanCombination(t *testing.T) {
	expr, err := ParseFilterString("(done = false && priority >= 4) || (done = true && priority = 5)")
	require.NoError(t, err)

	records := []Record{
		{"done": false, "priority": 4},
		{"done": true, "priority": 5},
		{"done": false, "priority": 2},
		{"done": false, "priority": 5},
	}

	want := []bool{true, true, false, true}
	for i, rec := range records {
		assert.Equal(t, want[i], Evaluate(expr, rec), "record %d", i)
	}
}

func TestEvaluateRelativeDate(t *testing.T) {
	expr, err := ParseFilterString("dueDate < now+3d")
	require.NoError(t, err)

	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	dueTomorrow := Record{"due_date": "2026-08-31T09:00:00Z"}
	dueInEightDays := Record{"due_date": "2026-09-07T09:00:00Z"}

	assert.True(t, EvaluateAt(expr, dueTomorrow, now))
	assert.False(t, EvaluateAt(expr, dueInEightDays, now))
}

func TestEvaluateDateCoercion(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	expr, err := ParseFilterString("due_date < now")
	require.NoError(t, err)

	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"RFC3339 string", Record{"due_date": past.Format(time.RFC3339)}, true},
		{"Bare date string", Record{"due_date": "2026-08-29"}, true},
		{"Epoch seconds", Record{"due_date": past.Unix()}, true},
		{"Epoch seconds as float", Record{"due_date": float64(past.Unix())}, true},
		{"time.Time value", Record{"due_date": past}, true},
		{"Future RFC3339 string", Record{"due_date": now.Add(time.Hour).Format(time.RFC3339)}, false},
		{"Null due date", Record{"due_date": nil}, false},
		{"Absent due date", Record{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateAt(expr, tt.rec, now))
		})
	}
}

func TestEvaluateNullSemantics(t *testing.T) {
	eq, err := ParseFilterString("done_at = null")
	require.NoError(t, err)
	ne, err := ParseFilterString("done_at != null")
	require.NoError(t, err)

	withValue := Record{"done_at": "2026-01-05T10:00:00Z"}
	withNull := Record{"done_at": nil}
	absent := Record{}

	assert.False(t, Evaluate(eq, withValue))
	assert.True(t, Evaluate(eq, withNull))
	assert.True(t, Evaluate(eq, absent), "= null matches absent attributes too")

	assert.True(t, Evaluate(ne, withValue))
	assert.False(t, Evaluate(ne, withNull))
	assert.False(t, Evaluate(ne, absent))
}

func TestEvaluateNullRecordValueOrderedComparisons(t *testing.T) {
	rec := Record{"priority": nil}

	tests := []struct {
		filter string
		want   bool
	}{
		{"priority != 3", true},
		{"priority = 3", false},
		{"priority > 3", false},
		{"priority >= 3", false},
		{"priority < 3", false},
		{"priority <= 3", false},
		{"priority >= null", true}, // null >= null is the one true ordered case
		{"priority > null", false},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			expr, err := ParseFilterString(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Evaluate(expr, rec))
		})
	}
}

func TestEvaluateInIntersection(t *testing.T) {
	filter := ParseSimpleFilter("labels in [1,2,3]")
	require.NotNil(t, filter)

	records := []Record{
		{"labels": []any{float64(1), float64(2)}},
		{"labels": []any{float64(4), float64(5)}},
		{"labels": nil},
	}

	assert.True(t, Evaluate(filter, records[0]), "non-empty intersection matches")
	assert.False(t, Evaluate(filter, records[1]), "empty intersection does not match")
	assert.False(t, Evaluate(filter, records[2]), "null labels never match in")
}

func TestEvaluateInScalarMembership(t *testing.T) {
	filter := ParseSimpleFilter(`priority in [3,4,5]`)
	require.NotNil(t, filter)

	assert.True(t, Evaluate(filter, Record{"priority": 4}))
	assert.False(t, Evaluate(filter, Record{"priority": 1}))
}

func TestEvaluateNotIn(t *testing.T) {
	filter := ParseSimpleFilter(`assignees not in ["alice","bob"]`)
	require.NotNil(t, filter)

	assert.False(t, Evaluate(filter, Record{"assignees": []string{"alice"}}))
	assert.True(t, Evaluate(filter, Record{"assignees": []string{"carol"}}))
}

func TestEvaluateLike(t *testing.T) {
	filter := ParseSimpleFilter(`title like "Report"`)
	require.NotNil(t, filter)

	assert.True(t, Evaluate(filter, Record{"title": "weekly REPORT draft"}), "like is case-insensitive")
	assert.False(t, Evaluate(filter, Record{"title": "standup notes"}))
	assert.False(t, Evaluate(filter, Record{"title": 42}), "non-string record value never matches like")
	assert.False(t, Evaluate(filter, Record{}))
}

func TestEvaluateComparisonLadder(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		rec    Record
		want   bool
	}{
		{"Numeric string compares numerically", "priority > 9", Record{"priority": "10"}, true},
		{"Int against float", "percent_done >= 50", Record{"percent_done": 50.0}, true},
		{"String comparison", `title > "a"`, Record{"title": "b"}, true},
		{"Date strings compare as timestamps", "created < 2026-12-01", Record{"created": "2026-11-30T23:00:00Z"}, true},
		{"Boolean equality", "done = false", Record{"done": false}, true},
		{"Boolean inequality", "done != false", Record{"done": true}, true},
		{"Like on number is false", `priority like "3"`, Record{"priority": 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseFilterString(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Evaluate(expr, tt.rec))
		})
	}
}

func TestEvaluateAliasedRecordKeys(t *testing.T) {
	// Records decoded from API payloads may carry camelCase keys; the
	// evaluator resolves them through the same alias table as the parser.
	expr, err := ParseFilterString("due_date < now+3d")
	require.NoError(t, err)

	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	rec := Record{"dueDate": "2026-08-31T09:00:00Z"}
	assert.True(t, EvaluateAt(expr, rec, now))
}

func TestEvaluateStructuredExpression(t *testing.T) {
	expr := &FilterExpression{
		Groups: []FilterGroup{
			{
				Operator: GroupAnd,
				Conditions: []Condition{
					{Field: "done", Operator: OpEquals, Value: false},
					{Field: "priority", Operator: OpGreaterThanOrEqual, Value: float64(4)},
				},
			},
			{
				Operator: GroupAnd,
				Conditions: []Condition{
					{Field: "done", Operator: OpEquals, Value: true},
					{Field: "priority", Operator: OpEquals, Value: float64(5)},
				},
			},
		},
		Operator: GroupOr,
	}
	_, err := ValidateFilterExpression(expr)
	require.NoError(t, err)

	assert.True(t, Evaluate(expr, Record{"done": false, "priority": 4}))
	assert.True(t, Evaluate(expr, Record{"done": true, "priority": 5}))
	assert.False(t, Evaluate(expr, Record{"done": false, "priority": 2}))
}

func TestEvaluateStructuredExpressionDefaultAnd(t *testing.T) {
	expr := &FilterExpression{
		Groups: []FilterGroup{
			{Operator: GroupAnd, Conditions: []Condition{{Field: "done", Operator: OpEquals, Value: false}}},
			{Operator: GroupAnd, Conditions: []Condition{{Field: "priority", Operator: OpGreaterThan, Value: float64(3)}}},
		},
	}

	assert.True(t, Evaluate(expr, Record{"done": false, "priority": 4}))
	assert.False(t, Evaluate(expr, Record{"done": false, "priority": 1}))
	assert.False(t, Evaluate(expr, Record{"done": true, "priority": 4}))
}

func TestEvaluateOrGroupShortCircuit(t *testing.T) {
	expr := &FilterExpression{
		Groups: []FilterGroup{{
			Operator: GroupOr,
			Conditions: []Condition{
				{Field: "priority", Operator: OpEquals, Value: float64(5)},
				{Field: "done", Operator: OpEquals, Value: true},
			},
		}},
	}

	assert.True(t, Evaluate(expr, Record{"priority": 5, "done": false}))
	assert.True(t, Evaluate(expr, Record{"priority": 1, "done": true}))
	assert.False(t, Evaluate(expr, Record{"priority": 1, "done": false}))
}

func TestEvaluateUndefinedPairingsAreFalse(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		rec    Record
	}{
		{"Scalar membership against map record", "labels in [1]", Record{"labels": map[string]any{}}},
		{"Like against array record", `labels like "x"`, Record{"labels": []any{"x"}}},
		{"Equality against map record", "priority = 1", Record{"priority": map[string]any{"v": 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseFilterString(tt.filter)
			require.NoError(t, err)
			assert.NotPanics(t, func() {
				assert.False(t, Evaluate(expr, tt.rec))
			})
		})
	}
}
