package reconciler

import (
	"github.com/shopspring/decimal"

	"github.com/nconklindev/tickdiff/internal/types"
)

// HeaderOffset maps a 1-based position in a value sequence to the line of
// the normalized file it came from: the header and the skipped first data
// row precede it.
const HeaderOffset = 2

// PricePlaces is the precision the absolute price difference is rounded to
// before the tolerance check.
const PricePlaces = 4

// DefaultTolerance is the largest rounded price difference still treated
// as a match.
var DefaultTolerance = decimal.RequireFromString("0.0005")

func checkSequences(left, right []string) error {
	if len(left) == 0 || len(right) == 0 || len(left) != len(right) {
		return &PreconditionError{LeftLen: len(left), RightLen: len(right)}
	}
	return nil
}

func lineOf(i int) int {
	return i + 1 + HeaderOffset
}

// DiffNumeric compares two price sequences position by position. Both
// empty is a match, one empty is a mismatch. Otherwise the values match
// when |left-right| rounded to PricePlaces is at most tolerance.
func DiffNumeric(left, right []string, tolerance decimal.Decimal) ([]types.DiffRecord, error) {
	if err := checkSequences(left, right); err != nil {
		return nil, err
	}

	var diffs []types.DiffRecord
	for i := range left {
		l, r := left[i], right[i]
		if l == "" && r == "" {
			continue
		}

		if l != "" && r != "" {
			a, err := decimal.NewFromString(l)
			if err != nil {
				return nil, &ParseError{Line: lineOf(i), Value: l, Err: err}
			}
			b, err := decimal.NewFromString(r)
			if err != nil {
				return nil, &ParseError{Line: lineOf(i), Value: r, Err: err}
			}
			if a.Sub(b).Abs().Round(PricePlaces).LessThanOrEqual(tolerance) {
				continue
			}
		}

		diffs = append(diffs, types.DiffRecord{Line: lineOf(i), Left: l, Right: r})
	}
	return diffs, nil
}

// DiffStrings reports every position where the two values differ.
func DiffStrings(left, right []string) ([]types.DiffRecord, error) {
	if err := checkSequences(left, right); err != nil {
		return nil, err
	}

	var diffs []types.DiffRecord
	for i := range left {
		if left[i] == right[i] {
			continue
		}
		diffs = append(diffs, types.DiffRecord{Line: lineOf(i), Left: left[i], Right: right[i]})
	}
	return diffs, nil
}
