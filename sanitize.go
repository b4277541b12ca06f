package taskfilter

import (
	"regexp"
	"strings"
)

// contentMatcher is one dangerous-content check. All matchers run against a
// lower-cased copy of the input, so every pattern below is spelled in lower
// case. The list is fixed and compiled once at package init; matchers hold no
// per-call state, so concurrent validations cannot interfere with each other.
type contentMatcher struct {
	name string
	re   *regexp.Regexp // nil for plain substring matchers
	sub  string
}

func (m contentMatcher) matches(lower string) bool {
	if m.re != nil {
		return m.re.MatchString(lower)
	}
	return strings.Contains(lower, m.sub)
}

// dangerousTags are the HTML elements whose opening tags are rejected, in
// both literal and HTML-entity-encoded spellings.
var dangerousTags = []string{"script", "iframe", "object", "embed", "style", "svg", "link", "meta"}

var contentMatchers = buildContentMatchers()

func buildContentMatchers() []contentMatcher {
	matchers := make([]contentMatcher, 0, 4*len(dangerousTags)+16)

	for _, tag := range dangerousTags {
		matchers = append(matchers,
			contentMatcher{name: tag + " tag", sub: "<" + tag},
			contentMatcher{name: "encoded " + tag + " tag", sub: "&lt;" + tag},
			contentMatcher{name: "encoded " + tag + " tag", sub: "&#60;" + tag},
			contentMatcher{name: "encoded " + tag + " tag", sub: "&#x3c;" + tag},
		)
	}

	matchers = append(matchers,
		contentMatcher{name: "event handler attribute", re: regexp.MustCompile(`on\w+\s*=`)},
		contentMatcher{name: "javascript scheme", sub: "javascript:"},
		contentMatcher{name: "vbscript scheme", sub: "vbscript:"},
		contentMatcher{name: "data html scheme", sub: "data:text/html"},
		contentMatcher{name: "data javascript scheme", sub: "data:application/javascript"},
		contentMatcher{name: "css expression", sub: "expression("},
		contentMatcher{name: "css url", sub: "url("},
		contentMatcher{name: "css import", sub: "@import"},
		contentMatcher{name: "eval call", sub: "eval("},
		contentMatcher{name: "function constructor", sub: "function("},
		contentMatcher{name: "html comment open", sub: "<!--"},
		contentMatcher{name: "html comment close", sub: "-->"},
	)

	return matchers
}

// findDangerousContent reports the first matcher that fires for s, if any.
// Rejection is all-or-nothing: the caller raises instead of rewriting the
// value, so a string carrying a payload never survives in any form.
func findDangerousContent(s string) (string, bool) {
	lower := strings.ToLower(s)
	for _, m := range contentMatchers {
		if m.matches(lower) {
			return m.name, true
		}
	}
	return "", false
}
