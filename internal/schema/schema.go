// Package schema holds the named record shapes of the tick-data exports and
// the tokenizer that splits a raw record into its tail fields.
package schema

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/nconklindev/tickdiff/internal/types"
)

const (
	// RestSchema is the tick history export of the REST download tool.
	RestSchema = "trth-rest"
	// PSQLSchema is the tick history export of the relational store.
	PSQLSchema = "trth-psql"

	// DefaultPrefix is the number of metadata components ahead of the tail:
	// RIC, domain, date-time, GMT offset (or the database equivalents).
	DefaultPrefix = 4
)

func builtins() []types.Schema {
	return []types.Schema{
		{
			Name:    RestSchema,
			Version: 1,
			Prefix:  DefaultPrefix,
			Fields: []types.Field{
				{Name: "Type", Width: 6},
				{Name: "Ex/Cntrb.ID", Width: 13},
				{Name: "Price", Width: 10},
				{Name: "Volume", Width: 10},
				{Name: "Buyer ID", Width: 10},
				{Name: "Bid Price", Width: 10},
				{Name: "Bid Size", Width: 10},
				{Name: "Seller ID", Width: 10},
				{Name: "Ask Price", Width: 10},
				{Name: "Ask Size", Width: 10},
				{Name: "Exch Time", Width: 20},
			},
		},
		{
			Name:    PSQLSchema,
			Version: 1,
			Prefix:  DefaultPrefix,
			Fields: []types.Field{
				{Name: "toq", Width: 6},
				{Name: "exchange_id", Width: 13},
				{Name: "price", Width: 10},
				{Name: "volume", Width: 10},
				{Name: "buyer_id", Width: 10},
				{Name: "bid_price", Width: 10},
				{Name: "bid_size", Width: 10},
				{Name: "seller_id", Width: 10},
				{Name: "ask_price", Width: 10},
				{Name: "ask_size", Width: 10},
				{Name: "exchange_time", Width: 20},
				{Name: "quote_time", Width: 12},
			},
		},
	}
}

// Registry maps schema names to schemas.
type Registry struct {
	schemas map[string]types.Schema
}

// NewRegistry returns a registry seeded with the built-in source schemas.
func NewRegistry() *Registry {
	r := &Registry{schemas: make(map[string]types.Schema)}
	for _, s := range builtins() {
		r.schemas[s.Name] = s
	}
	return r
}

// Register adds s, replacing any schema already registered under its name.
func (r *Registry) Register(s types.Schema) error {
	if err := Validate(s); err != nil {
		return err
	}
	r.schemas[s.Name] = s
	return nil
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (types.Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return types.Schema{}, &NotFoundError{Name: name, Known: r.Names()}
	}
	return s, nil
}

// Names returns the registered schema names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that a schema can drive extraction.
func Validate(s types.Schema) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("schema name is empty")
	}
	if s.Prefix < 0 {
		return fmt.Errorf("schema %s: negative prefix %d", s.Name, s.Prefix)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %s: no fields", s.Name)
	}
	for i, f := range s.Fields {
		if f.Width <= 0 {
			return fmt.Errorf("schema %s: field %d (%q) has width %d", s.Name, i, f.Name, f.Width)
		}
	}
	return nil
}

type schemaFile struct {
	Schemas []types.Schema `yaml:"schemas"`
}

// LoadFile registers every schema defined in a YAML schema file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema file: %w", err)
	}

	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse schema file %s: %w", path, err)
	}

	for _, s := range file.Schemas {
		if s.Version == 0 {
			s.Version = 1
		}
		if err := r.Register(s); err != nil {
			return fmt.Errorf("schema file %s: %w", path, err)
		}
	}
	return nil
}

// ColumnName returns the header name of field i as it appears in a
// normalized file, padded to the field width.
func ColumnName(s types.Schema, i int) string {
	f := s.Fields[i]
	return fmt.Sprintf("%-*s", f.Width, f.Name)
}
