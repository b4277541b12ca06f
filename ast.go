package taskfilter

import "time"

// Expr is a node in the parsed ad hoc filter expression tree.
// The tree is a closed union: *Condition, *AndExpr, or *OrExpr.
// Nodes are immutable once the parser returns them.
type Expr interface {
	exprNode()
}

// Condition is a leaf comparison: field operator value.
// The value is one of string, int64, bool, nil, time.Time, []any, or
// RelativeDate.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

func (c *Condition) exprNode() {}

// AndExpr joins two expressions with &&. Evaluation short-circuits.
type AndExpr struct {
	Left  Expr
	Right Expr
}

func (e *AndExpr) exprNode() {}

// OrExpr joins two expressions with ||. Evaluation short-circuits.
type OrExpr struct {
	Left  Expr
	Right Expr
}

func (e *OrExpr) exprNode() {}

// RelativeDate is a date literal expressed relative to "now", such as
// now, now+3d, or now-1M. It is resolved against the reference time supplied
// at evaluation, not at parse time, so a parsed filter stays correct no matter
// when it runs.
type RelativeDate struct {
	Offset int64 // signed magnitude; zero for bare "now"
	Unit   byte  // one of s m h d M y; zero for bare "now"
}

// Resolve computes the concrete timestamp for the reference time now.
// Seconds through days use fixed durations; months and years use calendar
// arithmetic so now+1M from Jan 31 lands where the calendar says it does.
func (r RelativeDate) Resolve(now time.Time) time.Time {
	switch r.Unit {
	case 's':
		return now.Add(time.Duration(r.Offset) * time.Second)
	case 'm':
		return now.Add(time.Duration(r.Offset) * time.Minute)
	case 'h':
		return now.Add(time.Duration(r.Offset) * time.Hour)
	case 'd':
		return now.Add(time.Duration(r.Offset) * 24 * time.Hour)
	case 'M':
		return now.AddDate(0, int(r.Offset), 0)
	case 'y':
		return now.AddDate(int(r.Offset), 0, 0)
	default:
		return now
	}
}
