package taskfilter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	expr := &FilterExpression{
		Groups: []FilterGroup{
			{
				Operator: GroupAnd,
				Conditions: []Condition{
					{Field: "done", Operator: OpEquals, Value: false},
					{Field: "priority", Operator: OpGreaterThanOrEqual, Value: float64(4)},
					{Field: "labels", Operator: OpIn, Value: []any{"urgent", "blocked"}},
				},
			},
			{
				Operator:   GroupOr,
				Conditions: []Condition{{Field: "done_at", Operator: OpEquals, Value: nil}},
			},
		},
		Operator: GroupOr,
	}

	text, err := SerializeFilterExpression(expr)
	require.NoError(t, err)

	restored, err := DeserializeFilterExpression(text)
	require.NoError(t, err)
	assert.Equal(t, expr.Operator, restored.Operator)
	require.Len(t, restored.Groups, 2)
	assert.Equal(t, expr.Groups[0].Conditions, restored.Groups[0].Conditions)
	assert.Equal(t, expr.Groups[1].Conditions, restored.Groups[1].Conditions)

	// A second round trip is byte-stable: validation and serialization are
	// idempotent for expressions already within bounds.
	text2, err := SerializeFilterExpression(restored)
	require.NoError(t, err)
	assert.Equal(t, text, text2)
}

func TestSerializeRejectsInvalidExpression(t *testing.T) {
	expr := &FilterExpression{
		Groups: []FilterGroup{{
			Operator:   GroupAnd,
			Conditions: []Condition{{Field: "__proto__", Operator: OpEquals, Value: "x"}},
		}},
	}

	_, err := SerializeFilterExpression(expr)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestDeserializeEnforcesSizeCapBeforeParsing(t *testing.T) {
	huge := `{"groups": [` + strings.Repeat(" ", maxSerializedLength) + `]}`
	_, err := DeserializeFilterExpression(huge)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDeserializeRejectsMalformedText(t *testing.T) {
	for _, text := range []string{"", "not json", `{"groups":`, `[]`, `"groups"`} {
		t.Run(text, func(t *testing.T) {
			_, err := DeserializeFilterExpression(text)
			assert.Error(t, err)
		})
	}
}

func TestDeserializeRevalidatesStoredText(t *testing.T) {
	// Text that was tampered with in storage must fail on read even though
	// it is well-formed JSON.
	tampered := `{"groups":[{"operator":"AND","conditions":[{"field":"title","operator":"like","value":"<script>x</script>"}]}]}`
	_, err := DeserializeFilterExpression(tampered)
	assert.ErrorIs(t, err, ErrDangerousContent)

	tampered = `{"groups":[{"operator":"AND","conditions":[{"field":"secret","operator":"=","value":1}]}]}`
	_, err = DeserializeFilterExpression(tampered)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestDeserializeRejectsDeeplyNestedPayload(t *testing.T) {
	nested := strings.Repeat("[", 30) + strings.Repeat("]", 30)
	payload := `{"groups":[{"operator":"AND","conditions":[{"field":"title","operator":"=","value":` + nested + `}]}]}`
	_, err := DeserializeFilterExpression(payload)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
