// Package reconciler compares paired columns of two normalized tick-data
// files and writes one diff report per column pair.
package reconciler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nconklindev/tickdiff/internal/types"
)

// DefaultPairs are the columns compared between the REST export and the
// database export.
func DefaultPairs() []types.ColumnPair {
	return []types.ColumnPair{
		{Name: "price", Left: "Price     ", Right: "price     ", Mode: types.CompareNumeric, Output: "diff_price.txt"},
		{Name: "bid_price", Left: "Bid Price ", Right: "bid_price ", Mode: types.CompareNumeric, Output: "diff_bp.csv"},
		{Name: "ask_price", Left: "Ask Price ", Right: "ask_price ", Mode: types.CompareNumeric, Output: "diff_ap.csv"},
		{Name: "toq", Left: "Type  ", Right: "toq   ", Mode: types.CompareString, Output: "diff_toq.txt"},
		{Name: "volume", Left: "Volume    ", Right: "volume    ", Mode: types.CompareString, Output: "diff_vol.txt"},
		{Name: "exchange_id", Left: "Ex/Cntrb.ID  ", Right: "exchange_id  ", Mode: types.CompareString, Output: "diff_exid.txt"},
	}
}

// Options configures a Reconciler.
type Options struct {
	// OutputDir receives the report files. Empty means the working directory.
	OutputDir string

	// Tolerance is the largest rounded price difference treated as a match.
	// Nil means DefaultTolerance; an explicit zero demands exact prices.
	Tolerance *decimal.Decimal

	Pairs  []types.ColumnPair
	Logger *zerolog.Logger
}

// Reconciler compares the configured column pairs of two tables.
type Reconciler struct {
	opts      Options
	tolerance decimal.Decimal
	log       zerolog.Logger
}

// New returns a Reconciler, filling in the default pairs and tolerance.
func New(opts Options) *Reconciler {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	if len(opts.Pairs) == 0 {
		opts.Pairs = DefaultPairs()
	}
	tolerance := DefaultTolerance
	if opts.Tolerance != nil {
		tolerance = *opts.Tolerance
	}
	return &Reconciler{opts: opts, tolerance: tolerance, log: log}
}

// Run loads both files and compares every configured pair. A pair that
// fails is recorded in the result and skipped; the others still run. The
// returned error joins every pair failure.
func (r *Reconciler) Run(leftFile, rightFile string) (*types.ReconcileResult, error) {
	left, err := LoadTable(leftFile)
	if err != nil {
		return nil, fmt.Errorf("load left: %w", err)
	}
	right, err := LoadTable(rightFile)
	if err != nil {
		return nil, fmt.Errorf("load right: %w", err)
	}

	if r.opts.OutputDir != "" {
		if err := os.MkdirAll(r.opts.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	result := &types.ReconcileResult{LeftFile: leftFile, RightFile: rightFile}
	var errs []error

	for _, pair := range r.opts.Pairs {
		pr := r.runPair(left, right, pair)
		if pr.Err != nil {
			r.log.Error().Err(pr.Err).Str("pair", pair.Name).Msg("comparison aborted")
			errs = append(errs, fmt.Errorf("pair %s: %w", pair.Name, pr.Err))
		} else {
			r.log.Info().
				Str("pair", pair.Name).
				Int("compared", pr.Compared).
				Int("diffs", len(pr.Diffs)).
				Str("report", pr.OutputFile).
				Msg("comparison complete")
		}
		result.Pairs = append(result.Pairs, pr)
	}

	return result, errors.Join(errs...)
}

func (r *Reconciler) runPair(left, right *types.FileData, pair types.ColumnPair) types.PairResult {
	pr := types.PairResult{Pair: pair}

	diffs, compared, err := r.ComparePair(left, right, pair)
	if err != nil {
		pr.Err = err
		return pr
	}
	pr.Diffs = diffs
	pr.Compared = compared

	output := pair.Output
	if output == "" {
		output = "diff_" + pair.Name + ".txt"
	}
	pr.OutputFile = filepath.Join(r.opts.OutputDir, output)
	if err := WriteReport(pr.OutputFile, pair.Mode, diffs); err != nil {
		pr.Err = err
	}
	return pr
}

// ComparePair diffs one column pair of two loaded tables without touching
// the filesystem. It returns the mismatches and the number of rows compared.
func (r *Reconciler) ComparePair(left, right *types.FileData, pair types.ColumnPair) ([]types.DiffRecord, int, error) {
	lv, err := ColumnValues(left, pair.Left)
	if err != nil {
		return nil, 0, fmt.Errorf("left: %w", err)
	}
	rv, err := ColumnValues(right, pair.Right)
	if err != nil {
		return nil, 0, fmt.Errorf("right: %w", err)
	}

	var diffs []types.DiffRecord
	switch pair.Mode {
	case types.CompareNumeric:
		diffs, err = DiffNumeric(lv, rv, r.tolerance)
	case types.CompareString:
		diffs, err = DiffStrings(lv, rv)
	default:
		return nil, 0, fmt.Errorf("unknown comparison mode %q", pair.Mode)
	}
	if err != nil {
		return nil, 0, err
	}
	return diffs, len(lv), nil
}
