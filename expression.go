package taskfilter

// FilterExpression is the persisted, structured filter representation: a flat
// list of condition groups combined by a single top-level operator. Exactly
// two levels deep; groups never nest.
type FilterExpression struct {
	Groups []FilterGroup `json:"groups"`
	// Operator combines the groups. Empty means AND.
	Operator GroupOperator `json:"operator,omitempty"`
}

// FilterGroup is one group of conditions combined by the group's operator.
type FilterGroup struct {
	Operator   GroupOperator `json:"operator"`
	Conditions []Condition   `json:"conditions"`
}

// SimpleFilter is a single parsed field-operator-value condition. It has the
// same shape as Condition but comes from the lighter single-condition parser,
// which accepts the broad field set including alias spellings.
type SimpleFilter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Record is one task-like entity: a named-attribute mapping as produced by
// decoding an API payload.
type Record = map[string]any

// Structural bounds enforced by the validator and the ad hoc grammar.
const (
	maxFilterStringLength = 1000 // ad hoc and simple filter input length
	maxGroups             = 10
	maxGroupConditions    = 50
	maxTotalConditions    = 50
	maxStringValueLength  = 1000
	maxArrayLength        = 100
	maxArrayTokenLength   = 200
	maxArrayElementString = 50
	maxStringTokenLength  = 502 // 500 content chars plus the two quotes
	maxSerializedLength   = 50000
	// maxRelativeDateOffset keeps offset*24h within time.Duration; beyond
	// it the day unit would silently wrap.
	maxRelativeDateOffset = 100000
)
