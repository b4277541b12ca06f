package taskfilter

import (
	"regexp"
	"strings"
)

// simpleFilterRe matches one "field operator value" condition. Multi-character
// operators come before their one-character prefixes so >= is not cut down
// to >.
var simpleFilterRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(>=|<=|!=|=|>|<|not\s+in|in|like)\s*(.+)$`)

// ParseSimpleFilter parses a single-condition filter such as "priority > 3"
// or "labels in [1,2,3]". It is the soft path of the package: any failure —
// oversized input, no structural match, a field outside the allow-list, an
// unparseable value — returns nil. It never returns an error and never
// panics, because on the hot filtering path "not a valid filter" is an
// expected outcome, not an exceptional one.
//
// The accepted field set is broader than the structured validator's: it
// includes both canonical snake_case attributes and their camelCase aliases.
func ParseSimpleFilter(input string) *SimpleFilter {
	input = strings.TrimSpace(input)
	if input == "" || len(input) > maxFilterStringLength {
		return nil
	}

	m := simpleFilterRe.FindStringSubmatch(input)
	if m == nil {
		return nil
	}

	field, opText, rawValue := m[1], m[2], strings.TrimSpace(m[3])
	if !allowedSimpleField(field) {
		return nil
	}

	// "not  in" with odd spacing still normalizes to the canonical operator.
	op := Operator(opText)
	if strings.HasPrefix(opText, "not") {
		op = OpNotIn
	}
	if !validOperators[op] {
		return nil
	}

	value, ok := parseValueLiteral(rawValue)
	if !ok {
		return nil
	}

	return &SimpleFilter{Field: field, Operator: op, Value: value}
}
