package taskfilter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

var (
	integerLiteralRe = regexp.MustCompile(`^-?\d{1,10}$`)
	dateLiteralRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const maxIntegerLiteral = 2147483647

// codeLikeSubstrings are rejected inside array string elements. They are the
// tell-tale fragments of injected code; an element containing one is never a
// legitimate label or assignee name.
var codeLikeSubstrings = []string{
	"function",
	"=>",
	"constructor",
	"__proto__",
	"prototype",
	"eval",
}

// parseValueLiteral classifies and parses a raw value token. Classification
// runs in a fixed priority order and stops at the first match; a token that
// matches no rule is rejected. The returned value is one of string, []any,
// bool, nil, int64, or time.Time.
func parseValueLiteral(tok string) (any, bool) {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		if len(tok) > maxStringTokenLength {
			return nil, false
		}
		// Content is taken verbatim; the grammar has no escape sequences.
		return tok[1 : len(tok)-1], true
	}

	if len(tok) >= 2 && tok[0] == '[' && tok[len(tok)-1] == ']' {
		return parseArrayLiteral(tok)
	}

	switch tok {
	case "true":
		return true, true
	case "false":
		return false, true
	case "null":
		return nil, true
	}

	if integerLiteralRe.MatchString(tok) {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || n > maxIntegerLiteral || n < -maxIntegerLiteral {
			return nil, false
		}
		return n, true
	}

	if dateLiteralRe.MatchString(tok) {
		return parseDateLiteral(tok)
	}

	return nil, false
}

// parseArrayLiteral parses a bracketed token as a JSON array of scalars.
// fastjson inspects the untrusted text without binding it to a struct, so a
// nested object or array is visible as a type mismatch rather than silently
// decoded.
func parseArrayLiteral(tok string) ([]any, bool) {
	if len(tok) > maxArrayTokenLength {
		return nil, false
	}

	parsed, err := fastjson.Parse(tok)
	if err != nil {
		return nil, false
	}
	items, err := parsed.Array()
	if err != nil {
		return nil, false
	}
	if len(items) > maxArrayLength {
		return nil, false
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		switch item.Type() {
		case fastjson.TypeString:
			s := string(item.GetStringBytes())
			if len(s) > maxArrayElementString || containsCodeLikeSubstring(s) {
				return nil, false
			}
			out = append(out, s)
		case fastjson.TypeNumber:
			f := item.GetFloat64()
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, false
			}
			out = append(out, f)
		case fastjson.TypeNull:
			out = append(out, nil)
		default:
			// Objects, arrays, and booleans have no place in a value list.
			return nil, false
		}
	}
	return out, true
}

// parseDateLiteral parses YYYY-MM-DD as UTC midnight. The year must be
// plausible for a task date.
func parseDateLiteral(tok string) (any, bool) {
	t, err := time.Parse("2006-01-02", tok)
	if err != nil {
		return nil, false
	}
	if t.Year() < 1900 || t.Year() > 2100 {
		return nil, false
	}
	return t.UTC(), true
}

func containsCodeLikeSubstring(s string) bool {
	lower := strings.ToLower(s)
	for _, sub := range codeLikeSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
