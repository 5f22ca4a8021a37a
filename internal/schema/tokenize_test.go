package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/tickdiff/internal/types"
)

const sampleRestLine = "AAPL,US,2020-01-01,0,Trade,NYSE,100.25,500,B1,100.20,10,S1,100.30,10,09:00:00,2020-01-01"

func TestTokenize(t *testing.T) {
	rest, err := NewRegistry().Get(RestSchema)
	require.NoError(t, err)

	tests := []struct {
		name     string
		schema   types.Schema
		input    string
		expected []string
		wantErr  error
	}{
		{
			name:     "Surplus tail field dropped",
			schema:   rest,
			input:    sampleRestLine,
			expected: []string{"Trade", "NYSE", "100.25", "500", "B1", "100.20", "10", "S1", "100.30", "10", "09:00:00"},
		},
		{
			name:     "Empty fields kept in place",
			schema:   types.Schema{Name: "t", Prefix: 4, Fields: []types.Field{{Name: "a", Width: 2}, {Name: "b", Width: 2}, {Name: "c", Width: 2}}},
			input:    "r,d,t,o,,x,",
			expected: []string{"", "x", ""},
		},
		{
			name:     "Zero prefix",
			schema:   types.Schema{Name: "t", Prefix: 0, Fields: []types.Field{{Name: "a", Width: 2}, {Name: "b", Width: 2}}},
			input:    "1,2",
			expected: []string{"1", "2"},
		},
		{
			name:    "Missing tail",
			schema:  rest,
			input:   "AAPL,US,2020-01-01,0",
			wantErr: ErrGrammarMismatch,
		},
		{
			name:    "Short tail",
			schema:  rest,
			input:   "AAPL,US,2020-01-01,0,Trade,NYSE",
			wantErr: ErrFieldCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.schema, tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRender(t *testing.T) {
	s := types.Schema{Name: "t", Fields: []types.Field{{Name: "a", Width: 6}, {Name: "b", Width: 3}, {Name: "c", Width: 4}}}

	row, err := Render(s, []string{"Trade", "toolong", ""})
	require.NoError(t, err)
	assert.Equal(t, "Trade ,toolong,    ", row)

	_, err = Render(s, []string{"x"})
	assert.True(t, errors.Is(err, ErrFieldCount))
}

func TestRenderRoundTrip(t *testing.T) {
	rest, err := NewRegistry().Get(RestSchema)
	require.NoError(t, err)

	values, err := Tokenize(rest, sampleRestLine)
	require.NoError(t, err)
	row, err := Render(rest, values)
	require.NoError(t, err)

	cells := strings.Split(row, ",")
	require.Len(t, cells, len(rest.Fields))
	for i, cell := range cells {
		assert.GreaterOrEqual(t, len(cell), rest.Fields[i].Width)
		assert.Equal(t, values[i], strings.TrimSpace(cell))
		assert.False(t, strings.HasPrefix(cell, " "), "cell %d not left-justified: %q", i, cell)
	}
}

func TestRenderIdempotent(t *testing.T) {
	rest, err := NewRegistry().Get(RestSchema)
	require.NoError(t, err)
	values, err := Tokenize(rest, sampleRestLine)
	require.NoError(t, err)
	first, err := Render(rest, values)
	require.NoError(t, err)

	normalized := rest
	normalized.Prefix = 0
	again, err := Tokenize(normalized, first)
	require.NoError(t, err)
	second, err := Render(normalized, again)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHeader(t *testing.T) {
	psql, err := NewRegistry().Get(PSQLSchema)
	require.NoError(t, err)

	header := Header(psql)
	cells := strings.Split(header, ",")
	require.Len(t, cells, 12)
	assert.Equal(t, "toq   ", cells[0])
	assert.Equal(t, "price     ", cells[2])
	assert.Equal(t, "quote_time  ", cells[11])
}

func TestSplitTerminator(t *testing.T) {
	tests := []struct {
		input, content, terminator string
	}{
		{"a,b\r\n", "a,b", "\r\n"},
		{"a,b\n", "a,b", "\n"},
		{"a,b", "a,b", ""},
		{"\n", "", "\n"},
	}
	for _, tt := range tests {
		content, term := SplitTerminator(tt.input)
		assert.Equal(t, tt.content, content, "SplitTerminator(%q)", tt.input)
		assert.Equal(t, tt.terminator, term, "SplitTerminator(%q)", tt.input)
	}
}
