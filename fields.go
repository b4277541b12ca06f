package taskfilter

// Operator is a comparison operator in a filter condition.
type Operator string

// Comparison operators accepted by every grammar in this package.
const (
	OpEquals             Operator = "="
	OpNotEquals          Operator = "!="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
	OpLike               Operator = "like"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "not in"
)

// validOperators is the fixed operator set. Conditions with an operator outside
// this set fail closed in both the parsers and the validator.
var validOperators = map[Operator]bool{
	OpEquals:             true,
	OpNotEquals:          true,
	OpGreaterThan:        true,
	OpGreaterThanOrEqual: true,
	OpLessThan:           true,
	OpLessThanOrEqual:    true,
	OpLike:               true,
	OpIn:                 true,
	OpNotIn:              true,
}

// GroupOperator combines conditions within a group, or groups within an expression.
type GroupOperator string

// Logical connectives for structured filter expressions.
const (
	GroupAnd GroupOperator = "AND"
	GroupOr  GroupOperator = "OR"
)

// canonicalFields is the strict allow-list used by the structured expression
// validator. It enumerates canonical snake_case task attributes only; alias
// spellings are not accepted here. Any name outside this map fails closed,
// which is what keeps prototype-like names (__proto__, constructor, ...) out
// without ever having to pattern-match against them.
var canonicalFields = map[string]bool{
	"id":           true,
	"project_id":   true,
	"title":        true,
	"description":  true,
	"done":         true,
	"done_at":      true,
	"priority":     true,
	"percent_done": true,
	"due_date":     true,
	"start_date":   true,
	"end_date":     true,
	"created":      true,
	"updated":      true,
	"labels":       true,
	"assignees":    true,
}

// fieldAliases maps accepted camelCase spellings to their canonical snake_case
// attribute. The ad hoc grammar and the evaluator both resolve through this
// table, so "dueDate < now+3d" and "due_date < now+3d" are the same filter.
var fieldAliases = map[string]string{
	"projectId":   "project_id",
	"doneAt":      "done_at",
	"percentDone": "percent_done",
	"dueDate":     "due_date",
	"startDate":   "start_date",
	"endDate":     "end_date",
}

// dateFields marks the canonical attributes that hold timestamps. The
// evaluator coerces string and numeric-epoch record values for these fields
// into timestamps before comparing.
var dateFields = map[string]bool{
	"done_at":    true,
	"due_date":   true,
	"start_date": true,
	"end_date":   true,
	"created":    true,
	"updated":    true,
}

// canonicalField resolves an accepted spelling to its canonical attribute
// name. Unknown names are returned unchanged.
func canonicalField(name string) string {
	if mapped, ok := fieldAliases[name]; ok {
		return mapped
	}
	return name
}

// allowedSimpleField reports whether name is accepted by the simple filter
// parser. The simple parser takes the broad set: canonical spellings plus
// their camelCase aliases.
func allowedSimpleField(name string) bool {
	if canonicalFields[name] {
		return true
	}
	_, ok := fieldAliases[name]
	return ok
}

// allowedAdHocField reports whether name is accepted by the ad hoc filter
// grammar. Same set as the simple parser; the tokenizer treats anything
// outside it as a lexical failure.
func allowedAdHocField(name string) bool {
	return allowedSimpleField(name)
}
