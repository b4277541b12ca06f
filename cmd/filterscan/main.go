// Command filterscan applies a task filter to a JSON file of task records
// and prints the matching records.
//
// Usage:
//
//	filterscan -records tasks.json -filter 'done = false && priority >= 4'
//	filterscan -records tasks.json -expression saved-filter.json
//
// The -filter flag takes an ad hoc filter string; -expression takes a file
// containing a serialized structured filter expression. Invalid filters exit
// with status 2 so scripts can tell "bad filter" apart from "no matches"
// (which is a successful run printing an empty array).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/taskwise/taskfilter"
	"github.com/taskwise/taskfilter/internal/observability"
)

func main() {
	recordsPath := flag.String("records", "", "Path to a JSON array of task records")
	filterStr := flag.String("filter", "", "Ad hoc filter string")
	exprPath := flag.String("expression", "", "Path to a serialized structured filter expression")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *recordsPath == "" {
		fmt.Fprintln(os.Stderr, "filterscan: -records is required")
		flag.Usage()
		os.Exit(1)
	}
	if (*filterStr == "") == (*exprPath == "") {
		fmt.Fprintln(os.Stderr, "filterscan: exactly one of -filter or -expression is required")
		flag.Usage()
		os.Exit(1)
	}

	obs := observability.New(observability.WithServiceName("filterscan"))
	ctx := context.Background()

	records, err := loadRecords(*recordsPath)
	if err != nil {
		logger.Error("loading records failed", "path", *recordsPath, "error", err)
		os.Exit(1)
	}
	logger.Debug("records loaded", "count", len(records))

	grammar := observability.GrammarStructured
	if *filterStr != "" {
		grammar = observability.GrammarAdHoc
	}

	parseCtx, parseSpan := obs.Tracer().StartParse(ctx, grammar)
	filter, err := buildFilter(*filterStr, *exprPath)
	obs.Metrics().RecordParse(parseCtx, grammar, err == nil)
	observability.EndSpan(parseSpan, err)
	if err != nil {
		obs.Metrics().RecordRejection(parseCtx, grammar, rejectionReason(err))
		fmt.Fprintf(os.Stderr, "filterscan: invalid filter: %v\n", err)
		os.Exit(2)
	}

	evalCtx, evalSpan := obs.Tracer().StartEvaluate(ctx, grammar, len(records))
	start := time.Now()
	matched := taskfilter.ApplyFilter(records, filter)
	obs.Metrics().RecordEvaluation(evalCtx, grammar, len(matched), time.Since(start))
	observability.EndSpan(evalSpan, nil)
	logger.Debug("filter applied", "matched", len(matched), "grammar", grammar)

	out, err := json.MarshalIndent(matched, "", "  ")
	if err != nil {
		logger.Error("encoding results failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func loadRecords(path string) ([]taskfilter.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []taskfilter.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("records file must be a JSON array of objects: %w", err)
	}
	return records, nil
}

func buildFilter(filterStr, exprPath string) (any, error) {
	if filterStr != "" {
		return taskfilter.ParseFilterString(filterStr)
	}

	data, err := os.ReadFile(exprPath)
	if err != nil {
		return nil, err
	}
	return taskfilter.DeserializeFilterExpression(string(data))
}

// rejectionReason maps a rejection to the reason attribute recorded on the
// rejection counter.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, taskfilter.ErrParse):
		return "syntax"
	case errors.Is(err, taskfilter.ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, taskfilter.ErrDangerousContent):
		return "dangerous_content"
	default:
		return "invalid"
	}
}
