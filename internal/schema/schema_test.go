package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/tickdiff/internal/types"
)

func TestBuiltinSchemas(t *testing.T) {
	r := NewRegistry()

	rest, err := r.Get(RestSchema)
	require.NoError(t, err)
	assert.Len(t, rest.Fields, 11)
	assert.Equal(t, DefaultPrefix, rest.Prefix)

	psql, err := r.Get(PSQLSchema)
	require.NoError(t, err)
	assert.Len(t, psql.Fields, 12)

	assert.Equal(t, []string{PSQLSchema, RestSchema}, r.Names())
}

func TestGetUnknownSchema(t *testing.T) {
	_, err := NewRegistry().Get("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSchema))
	assert.Contains(t, err.Error(), RestSchema)
}

func TestColumnName(t *testing.T) {
	s, err := NewRegistry().Get(RestSchema)
	require.NoError(t, err)

	assert.Equal(t, "Type  ", ColumnName(s, 0))
	assert.Equal(t, "Ex/Cntrb.ID  ", ColumnName(s, 1))
	assert.Equal(t, "Price     ", ColumnName(s, 2))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  types.Schema
		wantErr string
	}{
		{"Valid", types.Schema{Name: "x", Prefix: 0, Fields: []types.Field{{Name: "a", Width: 1}}}, ""},
		{"Empty name", types.Schema{Fields: []types.Field{{Name: "a", Width: 1}}}, "name is empty"},
		{"Negative prefix", types.Schema{Name: "x", Prefix: -1, Fields: []types.Field{{Name: "a", Width: 1}}}, "negative prefix"},
		{"No fields", types.Schema{Name: "x"}, "no fields"},
		{"Zero width", types.Schema{Name: "x", Fields: []types.Field{{Name: "a"}}}, "width 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.schema)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schemas.yaml")
	content := `schemas:
  - name: vendor-x
    prefix: 2
    fields:
      - name: side
        width: 4
      - name: px
        width: 8
  - name: trth-rest
    version: 2
    prefix: 4
    fields:
      - name: Type
        width: 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	r := NewRegistry()
	require.NoError(t, r.LoadFile(path))

	s, err := r.Get("vendor-x")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Version)
	assert.Equal(t, 2, s.Prefix)
	assert.Equal(t, []types.Field{{Name: "side", Width: 4}, {Name: "px", Width: 8}}, s.Fields)

	rest, err := r.Get(RestSchema)
	require.NoError(t, err)
	assert.Equal(t, 2, rest.Version)
	assert.Len(t, rest.Fields, 1)
}

func TestLoadFileRejectsInvalidSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemas:\n  - name: broken\n    prefix: 4\n"), 0644))

	err := NewRegistry().LoadFile(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no fields"))
}
