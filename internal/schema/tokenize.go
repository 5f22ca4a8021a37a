package schema

import (
	"fmt"
	"strings"

	"github.com/nconklindev/tickdiff/internal/types"
)

// Tokenize splits one raw record (without its line terminator) into the
// schema's tail fields. The first s.Prefix comma-separated components are
// discarded. Surplus tail fields past the schema's arity are dropped.
//
// Fields are split on every comma; quoted values are not recognized.
func Tokenize(s types.Schema, content string) ([]string, error) {
	tokens := strings.Split(content, ",")
	if len(tokens) < s.Prefix+1 {
		return nil, &GrammarError{Prefix: s.Prefix, Components: len(tokens)}
	}

	tail := tokens[s.Prefix:]
	if len(tail) < len(s.Fields) {
		return nil, &FieldCountError{Schema: s.Name, Want: len(s.Fields), Got: len(tail)}
	}
	return tail[:len(s.Fields)], nil
}

// Render lays values out as one normalized row: each value left-justified
// and space-padded to its field width, joined by commas. Values wider than
// their field are kept whole.
func Render(s types.Schema, values []string) (string, error) {
	if len(values) != len(s.Fields) {
		return "", &FieldCountError{Schema: s.Name, Want: len(s.Fields), Got: len(values)}
	}

	var b strings.Builder
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%-*s", f.Width, values[i])
	}
	return b.String(), nil
}

// Header renders the schema's field names as a normalized row.
func Header(s types.Schema) string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	row, _ := Render(s, names)
	return row
}

// SplitTerminator separates a line read with its terminator into content
// and the terminator itself ("\n", "\r\n" or "").
func SplitTerminator(line string) (content, terminator string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}
