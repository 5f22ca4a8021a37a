package reconciler

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/nconklindev/tickdiff/internal/types"
)

// FormatRecord renders one report line for the given comparison mode.
func FormatRecord(mode types.CompareMode, d types.DiffRecord) string {
	if mode == types.CompareNumeric {
		return fmt.Sprintf("%8d:  L=%-12s,  R=%-12s\n", d.Line, d.Left, d.Right)
	}
	return fmt.Sprintf("%8d:  L= %-15s,  R= %-15s\n", d.Line, d.Left, d.Right)
}

// WriteReport writes one line per diff record to path, replacing it.
func WriteReport(path string, mode types.CompareMode, diffs []types.DiffRecord) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(file)
	defer func() {
		flushErr := writer.Flush()
		closeErr := file.Close()
		if err == nil {
			err = errors.Join(flushErr, closeErr)
		}
	}()

	for _, d := range diffs {
		if _, err := writer.WriteString(FormatRecord(mode, d)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
