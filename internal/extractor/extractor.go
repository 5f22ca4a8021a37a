// Package extractor rewrites raw tick-data exports into fixed-width
// normalized rows, one output line per input line.
package extractor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/nconklindev/tickdiff/internal/schema"
	"github.com/nconklindev/tickdiff/internal/types"
)

const DefaultStride = 100

// Options configures one extraction run.
type Options struct {
	InputFile  string
	OutputFile string
	Schema     types.Schema

	// Stride is the number of lines written between checkpoints.
	// Zero or negative processes the whole file unattended.
	Stride int

	// Confirm is asked at every checkpoint. A nil Confirmer answers no,
	// so a positive stride without one stops at the first checkpoint.
	Confirm Confirmer

	// WriteHeader emits the schema's field names as the first row.
	WriteHeader bool

	Logger *zerolog.Logger
}

// Extract normalizes opts.InputFile into opts.OutputFile. The output is
// flushed and closed on every return path; rows written before a halt or
// a failing line are kept.
func Extract(opts Options) (result *types.ExtractionResult, err error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	if err := schema.Validate(opts.Schema); err != nil {
		return nil, err
	}

	inFile, err := os.Open(opts.InputFile)
	if err != nil {
		return nil, err
	}
	defer inFile.Close()

	if err := checkDistinct(inFile, opts.OutputFile); err != nil {
		return nil, err
	}

	outFile, err := os.Create(opts.OutputFile)
	if err != nil {
		return nil, err
	}
	writer := bufio.NewWriter(outFile)
	defer func() {
		flushErr := writer.Flush()
		closeErr := outFile.Close()
		if err == nil {
			err = errors.Join(flushErr, closeErr)
		}
	}()

	result = &types.ExtractionResult{
		InputFile:  opts.InputFile,
		OutputFile: opts.OutputFile,
		Schema:     opts.Schema.Name,
	}

	log.Debug().
		Str("input", opts.InputFile).
		Str("output", opts.OutputFile).
		Str("schema", opts.Schema.Name).
		Int("stride", opts.Stride).
		Msg("extraction started")

	if opts.WriteHeader {
		if _, err := writer.WriteString(schema.Header(opts.Schema) + "\n"); err != nil {
			return result, err
		}
	}

	reader := bufio.NewReader(inFile)
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return result, fmt.Errorf("read %s: %w", opts.InputFile, readErr)
		}
		if line == "" {
			break
		}
		result.LinesRead++

		content, terminator := schema.SplitTerminator(line)
		values, err := schema.Tokenize(opts.Schema, content)
		if err != nil {
			return result, &LineError{File: opts.InputFile, Line: result.LinesRead, Raw: content, Err: err}
		}
		row, err := schema.Render(opts.Schema, values)
		if err != nil {
			return result, &LineError{File: opts.InputFile, Line: result.LinesRead, Raw: content, Err: err}
		}
		if _, err := writer.WriteString(row + terminator); err != nil {
			return result, fmt.Errorf("write %s: %w", opts.OutputFile, err)
		}
		result.LinesWritten++

		if readErr != nil {
			break
		}

		if opts.Stride > 0 && result.LinesWritten%opts.Stride == 0 && hasMore(reader) {
			// Make the checkpoint's rows visible before blocking on the operator.
			if err := writer.Flush(); err != nil {
				return result, err
			}
			ok, err := confirm(opts.Confirm, result.LinesWritten)
			if err != nil {
				return result, fmt.Errorf("checkpoint after line %d: %w", result.LinesWritten, err)
			}
			if !ok {
				result.Halted = true
				log.Warn().
					Int("lines_written", result.LinesWritten).
					Str("output", opts.OutputFile).
					Msg("extraction halted at checkpoint")
				return result, nil
			}
			log.Debug().Int("lines_written", result.LinesWritten).Msg("checkpoint passed")
		}
	}

	log.Info().
		Str("input", opts.InputFile).
		Str("output", opts.OutputFile).
		Int("lines", result.LinesWritten).
		Msg("extraction complete")

	return result, nil
}

// checkDistinct refuses an output path that names the open input file,
// since creating it would truncate the input before it is read.
func checkDistinct(in *os.File, output string) error {
	inInfo, err := in.Stat()
	if err != nil {
		return err
	}
	outInfo, err := os.Stat(output)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if os.SameFile(inInfo, outInfo) {
		return fmt.Errorf("output %s is the input file %s", output, in.Name())
	}
	return nil
}

func hasMore(r *bufio.Reader) bool {
	_, err := r.Peek(1)
	return err == nil
}

func confirm(c Confirmer, written int) (bool, error) {
	if c == nil {
		return false, nil
	}
	return c.Confirm(written)
}
