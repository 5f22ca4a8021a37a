package extractor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/tickdiff/internal/schema"
	"github.com/nconklindev/tickdiff/internal/types"
)

const sampleLine = "AAPL,US,2020-01-01,0,Trade,NYSE,100.25,500,B1,100.20,10,S1,100.30,10,09:00:00,2020-01-01"

const sampleRow = "Trade ,NYSE         ,100.25    ,500       ,B1        ,100.20    ,10        ,S1        ,100.30    ,10        ,09:00:00            "

func restSchema(t *testing.T) types.Schema {
	t.Helper()
	s, err := schema.NewRegistry().Get(schema.RestSchema)
	require.NoError(t, err)
	return s
}

func writeInput(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))
	return input, filepath.Join(dir, "cols.csv")
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func repeatLines(n int) string {
	return strings.Repeat(sampleLine+"\n", n)
}

// countingConfirmer answers from a fixed list and records each checkpoint.
type countingConfirmer struct {
	answers []bool
	seen    []int
}

func (c *countingConfirmer) Confirm(linesWritten int) (bool, error) {
	c.seen = append(c.seen, linesWritten)
	if len(c.answers) == 0 {
		return false, nil
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

func TestExtractSampleLine(t *testing.T) {
	input, output := writeInput(t, sampleLine+"\n")

	result, err := Extract(Options{InputFile: input, OutputFile: output, Schema: restSchema(t)})
	require.NoError(t, err)

	assert.Equal(t, sampleRow+"\n", readOutput(t, output))
	assert.Equal(t, 1, result.LinesRead)
	assert.Equal(t, 1, result.LinesWritten)
	assert.False(t, result.Halted)
	assert.Equal(t, schema.RestSchema, result.Schema)
}

func TestExtractPreservesTerminators(t *testing.T) {
	input, output := writeInput(t, sampleLine+"\r\n"+sampleLine)

	_, err := Extract(Options{InputFile: input, OutputFile: output, Schema: restSchema(t)})
	require.NoError(t, err)

	assert.Equal(t, sampleRow+"\r\n"+sampleRow, readOutput(t, output))
}

func TestExtractWriteHeader(t *testing.T) {
	input, output := writeInput(t, sampleLine+"\n")

	_, err := Extract(Options{InputFile: input, OutputFile: output, Schema: restSchema(t), WriteHeader: true})
	require.NoError(t, err)

	lines := strings.Split(readOutput(t, output), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Type  ,Ex/Cntrb.ID  ,Price     ,"))
	assert.Equal(t, sampleRow, lines[1])
}

func TestExtractStride(t *testing.T) {
	tests := []struct {
		name        string
		lines       int
		stride      int
		answers     []bool
		wantWritten int
		wantSeen    []int
		wantHalted  bool
	}{
		{"Unattended ignores confirmer", 5, 0, nil, 5, nil, false},
		{"Negative stride is unattended", 5, -1, nil, 5, nil, false},
		{"Continue at every checkpoint", 5, 2, []bool{true, true}, 5, []int{2, 4}, false},
		{"No checkpoint after last line", 4, 2, []bool{true}, 4, []int{2}, false},
		{"Halt at first checkpoint", 5, 2, []bool{false}, 2, []int{2}, true},
		{"Halt at second checkpoint", 7, 3, []bool{true, false}, 6, []int{3, 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, output := writeInput(t, repeatLines(tt.lines))
			c := &countingConfirmer{answers: tt.answers}

			result, err := Extract(Options{
				InputFile:  input,
				OutputFile: output,
				Schema:     restSchema(t),
				Stride:     tt.stride,
				Confirm:    c,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantWritten, result.LinesWritten)
			assert.Equal(t, tt.wantHalted, result.Halted)
			assert.Equal(t, tt.wantSeen, c.seen)
			assert.Equal(t, strings.Repeat(sampleRow+"\n", tt.wantWritten), readOutput(t, output))
		})
	}
}

func TestExtractNilConfirmerStops(t *testing.T) {
	input, output := writeInput(t, repeatLines(3))

	result, err := Extract(Options{InputFile: input, OutputFile: output, Schema: restSchema(t), Stride: 1})
	require.NoError(t, err)

	assert.True(t, result.Halted)
	assert.Equal(t, 1, result.LinesWritten)
}

func TestExtractConfirmerError(t *testing.T) {
	input, output := writeInput(t, repeatLines(3))
	boom := errors.New("tty gone")

	_, err := Extract(Options{
		InputFile:  input,
		OutputFile: output,
		Schema:     restSchema(t),
		Stride:     1,
		Confirm:    ConfirmFunc(func(int) (bool, error) { return false, boom }),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, sampleRow+"\n", readOutput(t, output))
}

func TestExtractFieldCountFailure(t *testing.T) {
	short := "AAPL,US,2020-01-01,0,Trade,NYSE,100.25"
	input, output := writeInput(t, sampleLine+"\n"+short+"\n"+sampleLine+"\n")

	result, err := Extract(Options{InputFile: input, OutputFile: output, Schema: restSchema(t)})
	require.Error(t, err)

	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 2, lineErr.Line)
	assert.Equal(t, short, lineErr.Raw)
	assert.Equal(t, input, lineErr.File)
	assert.True(t, errors.Is(err, schema.ErrFieldCount))
	assert.Contains(t, err.Error(), ":2:")

	assert.Equal(t, 1, result.LinesWritten)
	assert.Equal(t, sampleRow+"\n", readOutput(t, output))
}

func TestExtractGrammarFailure(t *testing.T) {
	input, output := writeInput(t, "no commas here\n")

	_, err := Extract(Options{InputFile: input, OutputFile: output, Schema: restSchema(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrGrammarMismatch))
	assert.Equal(t, "", readOutput(t, output))
}

func TestExtractMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Extract(Options{
		InputFile:  filepath.Join(dir, "missing.csv"),
		OutputFile: filepath.Join(dir, "out.csv"),
		Schema:     restSchema(t),
	})
	assert.Error(t, err)
}

func TestExtractRefusesOutputOverInput(t *testing.T) {
	content := repeatLines(3)
	input, _ := writeInput(t, content)
	dir, name := filepath.Split(input)

	tests := []struct {
		name   string
		output string
	}{
		{"Same path", input},
		{"Same file, other spelling", dir + "." + string(filepath.Separator) + name},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Extract(Options{InputFile: input, OutputFile: tt.output, Schema: restSchema(t), Stride: 0})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), "is the input file")
			assert.Equal(t, content, readOutput(t, input))
		})
	}
}

func TestExtractInvalidSchema(t *testing.T) {
	input, output := writeInput(t, sampleLine+"\n")
	_, err := Extract(Options{InputFile: input, OutputFile: output, Schema: types.Schema{Name: "empty"}})
	assert.Error(t, err)
}

func TestLineConfirmer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []bool
	}{
		{"Lowercase yes", "y\n", []bool{true}},
		{"Uppercase yes", "Y\n", []bool{true}},
		{"Padded yes", "  y \r\n", []bool{true}},
		{"Yes then no", "y\nn\n", []bool{true, false}},
		{"Word yes is not y", "yes\n", []bool{false}},
		{"Empty line", "\n", []bool{false}},
		{"No input", "", []bool{false}},
		{"Yes without newline", "y", []bool{true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewLineConfirmer(strings.NewReader(tt.input), &out)
			for i, want := range tt.expected {
				got, err := c.Confirm(i + 1)
				require.NoError(t, err)
				assert.Equal(t, want, got, "answer %d", i)
			}
			assert.Equal(t, strings.Repeat("Continue ? (Y/N): ", len(tt.expected)), out.String())
		})
	}
}

func TestExtractWithLineConfirmer(t *testing.T) {
	input, output := writeInput(t, repeatLines(4))
	var prompt bytes.Buffer

	result, err := Extract(Options{
		InputFile:  input,
		OutputFile: output,
		Schema:     restSchema(t),
		Stride:     1,
		Confirm:    NewLineConfirmer(strings.NewReader("y\nY\n"), &prompt),
	})
	require.NoError(t, err)

	assert.True(t, result.Halted)
	assert.Equal(t, 3, result.LinesWritten)
	assert.Equal(t, 3, strings.Count(prompt.String(), "Continue ?"))
}
