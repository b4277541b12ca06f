package taskfilter

import "time"

// ApplyFilter returns the records matching the given filter, in their
// original order. The filter may be anything Evaluate accepts: a
// *SimpleFilter, an ad hoc Expr, or a validated *FilterExpression. A nil
// filter keeps every record. The input slice is never modified: the result
// is a fresh slice, and filtering is stable — records are only dropped,
// never reordered.
func ApplyFilter(records []Record, filter any) []Record {
	return ApplyFilterAt(records, filter, time.Now())
}

// ApplyFilterAt is ApplyFilter with an explicit reference time for relative
// dates, so a batch evaluates against one consistent "now".
func ApplyFilterAt(records []Record, filter any, now time.Time) []Record {
	if filter == nil {
		return append([]Record(nil), records...)
	}

	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if EvaluateAt(filter, rec, now) {
			matched = append(matched, rec)
		}
	}
	return matched
}
