package taskfilter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Evaluate reports whether one record matches a parsed filter. The filter may
// be an Expr from ParseFilterString, a *FilterExpression from the validator,
// a *SimpleFilter, or a bare *Condition. Relative dates resolve against the
// current wall clock; use EvaluateAt to pin the reference time.
//
// Evaluation never fails: a condition whose operator and operand types have
// no defined pairing is simply false for that record.
func Evaluate(filter any, rec Record) bool {
	return EvaluateAt(filter, rec, time.Now())
}

// EvaluateAt is Evaluate with an explicit reference time for relative dates.
func EvaluateAt(filter any, rec Record, now time.Time) bool {
	switch f := filter.(type) {
	case nil:
		return true // no filter, everything matches
	case Expr:
		return evalExpr(f, rec, now)
	case *FilterExpression:
		return evalExpression(f, rec, now)
	case FilterExpression:
		return evalExpression(&f, rec, now)
	case *SimpleFilter:
		if f == nil {
			return true
		}
		return evalCondition(&Condition{Field: f.Field, Operator: f.Operator, Value: f.Value}, rec, now)
	default:
		return false
	}
}

// evalExpr walks the ad hoc expression tree. And/Or short-circuit.
func evalExpr(e Expr, rec Record, now time.Time) bool {
	switch node := e.(type) {
	case *Condition:
		return evalCondition(node, rec, now)
	case *AndExpr:
		return evalExpr(node.Left, rec, now) && evalExpr(node.Right, rec, now)
	case *OrExpr:
		return evalExpr(node.Left, rec, now) || evalExpr(node.Right, rec, now)
	default:
		return false
	}
}

// evalExpression evaluates a structured expression: conditions within a group
// combine with the group operator, groups combine with the top-level operator
// (default AND). The walk is flat; there is nothing below two levels.
func evalExpression(fe *FilterExpression, rec Record, now time.Time) bool {
	if fe == nil || len(fe.Groups) == 0 {
		return true
	}

	topOr := fe.Operator == GroupOr
	for _, group := range fe.Groups {
		matched := evalGroup(&group, rec, now)
		if topOr && matched {
			return true
		}
		if !topOr && !matched {
			return false
		}
	}
	return !topOr
}

func evalGroup(group *FilterGroup, rec Record, now time.Time) bool {
	groupOr := group.Operator == GroupOr
	for i := range group.Conditions {
		matched := evalCondition(&group.Conditions[i], rec, now)
		if groupOr && matched {
			return true
		}
		if !groupOr && !matched {
			return false
		}
	}
	return !groupOr
}

// evalCondition resolves the record attribute and applies one comparison.
func evalCondition(c *Condition, rec Record, now time.Time) bool {
	canonical := canonicalField(c.Field)
	raw := resolveAttribute(rec, c.Field, canonical)

	filterVal := c.Value
	if rd, ok := filterVal.(RelativeDate); ok {
		filterVal = rd.Resolve(now)
	}

	// Date-typed fields compare as timestamps: string and numeric-epoch
	// values on either side are coerced before the operator applies.
	if dateFields[canonical] {
		raw = coerceTimestamp(raw)
		filterVal = coerceTimestamp(filterVal)
	}

	switch c.Operator {
	case OpIn, OpNotIn:
		list, ok := filterVal.([]any)
		if !ok {
			return false
		}
		matched := matchIn(raw, list)
		if c.Operator == OpNotIn {
			return !matched
		}
		return matched

	case OpLike:
		recStr, ok := raw.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(recStr), strings.ToLower(stringify(filterVal)))

	case OpEquals, OpNotEquals, OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual:
		return compareValues(raw, filterVal, c.Operator)

	default:
		return false
	}
}

// resolveAttribute finds the record attribute for a condition field, trying
// the spelled name, the canonical name, and any alias mapping back to the
// canonical name. Absent attributes resolve to nil.
func resolveAttribute(rec Record, spelled, canonical string) any {
	if v, ok := rec[spelled]; ok {
		return v
	}
	if v, ok := rec[canonical]; ok {
		return v
	}
	for alias, target := range fieldAliases {
		if target == canonical {
			if v, ok := rec[alias]; ok {
				return v
			}
		}
	}
	return nil
}

// matchIn implements the in operator. An array-valued record attribute
// matches when it has a non-empty intersection with the filter list; a scalar
// attribute matches on simple membership.
func matchIn(raw any, list []any) bool {
	if items, ok := asList(raw); ok {
		for _, item := range items {
			for _, candidate := range list {
				if compareValues(item, candidate, OpEquals) {
					return true
				}
			}
		}
		return false
	}
	if raw == nil {
		return false
	}
	for _, candidate := range list {
		if compareValues(raw, candidate, OpEquals) {
			return true
		}
	}
	return false
}

// asList normalizes the array shapes a record attribute can arrive in.
func asList(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case []string:
		out := make([]any, len(items))
		for i := range items {
			out[i] = items[i]
		}
		return out, true
	case []int:
		out := make([]any, len(items))
		for i := range items {
			out[i] = items[i]
		}
		return out, true
	case []int64:
		out := make([]any, len(items))
		for i := range items {
			out[i] = items[i]
		}
		return out, true
	case []float64:
		out := make([]any, len(items))
		for i := range items {
			out[i] = items[i]
		}
		return out, true
	default:
		return nil, false
	}
}

// compareValues applies an ordered or equality comparison with the package's
// coercion ladder: null rules first, then timestamps when both sides parse as
// dates, then exact numerics when both sides parse as finite numbers, then
// lexicographic strings.
func compareValues(left, right any, op Operator) bool {
	if left == nil || right == nil {
		switch op {
		case OpEquals:
			return left == nil && right == nil
		case OpNotEquals:
			return (left == nil) != (right == nil)
		case OpGreaterThanOrEqual:
			// A null attribute is >= only of a null filter value.
			return left == nil && right == nil
		default:
			return false
		}
	}

	if lt, lok := asTime(left); lok {
		if rt, rok := asTime(right); rok {
			return orderedMatch(lt.Compare(rt), op)
		}
	}

	if ld, lok := asDecimal(left); lok {
		if rd, rok := asDecimal(right); rok {
			return orderedMatch(ld.Cmp(rd), op)
		}
	}

	return orderedMatch(strings.Compare(stringify(left), stringify(right)), op)
}

// orderedMatch maps a three-way comparison result onto an operator.
func orderedMatch(cmp int, op Operator) bool {
	switch op {
	case OpEquals:
		return cmp == 0
	case OpNotEquals:
		return cmp != 0
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterThanOrEqual:
		return cmp >= 0
	case OpLessThan:
		return cmp < 0
	case OpLessThanOrEqual:
		return cmp <= 0
	default:
		return false
	}
}

// asTime reports whether a value is, or parses as, a timestamp.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if dateLiteralRe.MatchString(t) {
			if parsed, err := time.Parse("2006-01-02", t); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// asDecimal reports whether a value is, or parses as, a finite number.
// Decimals keep large epoch and ID comparisons exact where float64 would
// round.
func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(n), true
	case string:
		parsed, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return parsed, true
	default:
		return decimal.Decimal{}, false
	}
}

// coerceTimestamp converts the value shapes a date attribute arrives in into
// a time.Time: RFC 3339 or bare-date strings, and numeric epoch seconds.
// Values that do not look like timestamps pass through unchanged and fall
// into the ordinary comparison ladder.
func coerceTimestamp(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t
	case string:
		if parsed, ok := asTime(t); ok {
			return parsed
		}
		return v
	case int:
		return time.Unix(int64(t), 0).UTC()
	case int64:
		return time.Unix(t, 0).UTC()
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return v
		}
		sec, frac := math.Modf(t)
		return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
	default:
		return v
	}
}

// stringify renders a value for lexicographic comparison and like matching.
// Non-primitive values are stringified with their default formatting.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
