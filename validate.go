package taskfilter

import (
	"fmt"
	"math"
	"time"
)

// ValidateFilterExpression validates an untrusted value as a structured
// filter expression. It accepts an already-typed *FilterExpression (or
// value), or the generic map shape produced by decoding JSON. On success it
// returns the validated expression; on any violation it returns a
// *ValidationError naming the offending group and condition.
//
// This is the hard-fail path of the package: persisted expressions never pass
// through partially validated, and every bound (group count, per-group
// condition count, running total, string and array sizes) is enforced
// incrementally so adversarial payloads are rejected in bounded time and
// memory.
func ValidateFilterExpression(v any) (*FilterExpression, error) {
	switch val := v.(type) {
	case *FilterExpression:
		if val == nil {
			return nil, validationErr(-1, -1, ErrNotAnObject, "nil expression")
		}
		if err := validateExpression(val); err != nil {
			return nil, err
		}
		return val, nil
	case FilterExpression:
		if err := validateExpression(&val); err != nil {
			return nil, err
		}
		return &val, nil
	case map[string]any:
		return validateExpressionMap(val)
	default:
		return nil, validationErr(-1, -1, ErrNotAnObject, fmt.Sprintf("got %T", v))
	}
}

// validateExpression checks an already-typed expression in place.
func validateExpression(fe *FilterExpression) error {
	if len(fe.Groups) == 0 {
		return validationErr(-1, -1, ErrMissingGroups, "")
	}
	if len(fe.Groups) > maxGroups {
		return validationErr(-1, -1, ErrTooManyGroups, fmt.Sprintf("%d > %d", len(fe.Groups), maxGroups))
	}
	if fe.Operator != "" && fe.Operator != GroupAnd && fe.Operator != GroupOr {
		return validationErr(-1, -1, ErrInvalidGroupOp, string(fe.Operator))
	}

	total := 0
	for i, group := range fe.Groups {
		if group.Operator != GroupAnd && group.Operator != GroupOr {
			return validationErr(i, -1, ErrInvalidGroupOp, string(group.Operator))
		}
		if len(group.Conditions) == 0 {
			return validationErr(i, -1, ErrEmptyGroup, "")
		}
		if len(group.Conditions) > maxGroupConditions {
			return validationErr(i, -1, ErrTooManyConditions, fmt.Sprintf("%d > %d", len(group.Conditions), maxGroupConditions))
		}

		// The total is accumulated and checked per group, independent of the
		// per-group limit: ten groups of six conditions must fail even though
		// no single group is oversized.
		total += len(group.Conditions)
		if total > maxTotalConditions {
			return validationErr(i, -1, ErrTotalConditions, fmt.Sprintf("%d > %d", total, maxTotalConditions))
		}

		for j, cond := range group.Conditions {
			if err := validateCondition(cond.Field, cond.Operator, cond.Value, i, j); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateExpressionMap checks the generic decoded-JSON shape and rebuilds it
// as a typed expression.
func validateExpressionMap(m map[string]any) (*FilterExpression, error) {
	groupsRaw, ok := m["groups"].([]any)
	if !ok || len(groupsRaw) == 0 {
		return nil, validationErr(-1, -1, ErrMissingGroups, "")
	}
	if len(groupsRaw) > maxGroups {
		return nil, validationErr(-1, -1, ErrTooManyGroups, fmt.Sprintf("%d > %d", len(groupsRaw), maxGroups))
	}

	fe := &FilterExpression{Groups: make([]FilterGroup, 0, len(groupsRaw))}
	if opRaw, present := m["operator"]; present {
		opText, ok := opRaw.(string)
		if !ok || (GroupOperator(opText) != GroupAnd && GroupOperator(opText) != GroupOr) {
			return nil, validationErr(-1, -1, ErrInvalidGroupOp, fmt.Sprint(opRaw))
		}
		fe.Operator = GroupOperator(opText)
	}

	total := 0
	for i, groupRaw := range groupsRaw {
		groupMap, ok := groupRaw.(map[string]any)
		if !ok {
			return nil, validationErr(i, -1, ErrNotAnObject, "group must be an object")
		}

		opText, ok := groupMap["operator"].(string)
		if !ok || (GroupOperator(opText) != GroupAnd && GroupOperator(opText) != GroupOr) {
			return nil, validationErr(i, -1, ErrInvalidGroupOp, fmt.Sprint(groupMap["operator"]))
		}

		condsRaw, ok := groupMap["conditions"].([]any)
		if !ok || len(condsRaw) == 0 {
			return nil, validationErr(i, -1, ErrEmptyGroup, "")
		}
		if len(condsRaw) > maxGroupConditions {
			return nil, validationErr(i, -1, ErrTooManyConditions, fmt.Sprintf("%d > %d", len(condsRaw), maxGroupConditions))
		}

		total += len(condsRaw)
		if total > maxTotalConditions {
			return nil, validationErr(i, -1, ErrTotalConditions, fmt.Sprintf("%d > %d", total, maxTotalConditions))
		}

		group := FilterGroup{Operator: GroupOperator(opText), Conditions: make([]Condition, 0, len(condsRaw))}
		for j, condRaw := range condsRaw {
			condMap, ok := condRaw.(map[string]any)
			if !ok {
				return nil, validationErr(i, j, ErrNotAnObject, "condition must be an object")
			}

			field, _ := condMap["field"].(string)
			opText, _ := condMap["operator"].(string)
			value := condMap["value"]
			if err := validateCondition(field, Operator(opText), value, i, j); err != nil {
				return nil, err
			}
			group.Conditions = append(group.Conditions, Condition{
				Field:    field,
				Operator: Operator(opText),
				Value:    value,
			})
		}
		fe.Groups = append(fe.Groups, group)
	}

	return fe, nil
}

// validateCondition checks one condition against the strict field allow-list,
// the operator set, and the value rules.
func validateCondition(field string, op Operator, value any, group, cond int) error {
	// Allow-listing, not denylisting: __proto__, constructor, prototype, and
	// every other unrecognized name fail closed here by construction.
	if !canonicalFields[field] {
		return validationErr(group, cond, ErrUnknownField, field)
	}
	if !validOperators[op] {
		return validationErr(group, cond, ErrInvalidOperator, string(op))
	}
	return validateConditionValue(value, group, cond)
}

// validateConditionValue checks a condition's value: a scalar within size and
// content bounds, or a homogeneous scalar array.
func validateConditionValue(value any, group, cond int) error {
	switch v := value.(type) {
	case nil, bool, int, int32, int64, time.Time:
		return nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validationErr(group, cond, ErrInvalidValue, "non-finite number")
		}
		return nil
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return validationErr(group, cond, ErrInvalidValue, "non-finite number")
		}
		return nil
	case string:
		if len(v) > maxStringValueLength {
			return validationErr(group, cond, ErrValueTooLong, fmt.Sprintf("%d > %d", len(v), maxStringValueLength))
		}
		if name, found := findDangerousContent(v); found {
			return validationErr(group, cond, ErrDangerousContent, name)
		}
		return nil
	case []any:
		return validateArrayValue(v, group, cond)
	case []string:
		generic := make([]any, len(v))
		for i := range v {
			generic[i] = v[i]
		}
		return validateArrayValue(generic, group, cond)
	default:
		return validationErr(group, cond, ErrInvalidValue, fmt.Sprintf("unsupported type %T", value))
	}
}

// validateArrayValue enforces homogeneity (all-string or all-number), length,
// and per-element constraints.
func validateArrayValue(items []any, group, cond int) error {
	if len(items) > maxArrayLength {
		return validationErr(group, cond, ErrArrayTooLong, fmt.Sprintf("%d > %d", len(items), maxArrayLength))
	}

	sawString, sawNumber := false, false
	for _, item := range items {
		switch el := item.(type) {
		case string:
			sawString = true
			if len(el) > maxArrayElementString {
				return validationErr(group, cond, ErrValueTooLong, "array element")
			}
			if containsCodeLikeSubstring(el) {
				return validationErr(group, cond, ErrDangerousContent, "code-like array element")
			}
			if name, found := findDangerousContent(el); found {
				return validationErr(group, cond, ErrDangerousContent, name)
			}
		case float64:
			sawNumber = true
			if math.IsNaN(el) || math.IsInf(el, 0) {
				return validationErr(group, cond, ErrInvalidValue, "non-finite array element")
			}
		case int, int32, int64:
			sawNumber = true
		default:
			return validationErr(group, cond, ErrMixedArray, fmt.Sprintf("element type %T", item))
		}
	}
	if sawString && sawNumber {
		return validationErr(group, cond, ErrMixedArray, "")
	}
	return nil
}
