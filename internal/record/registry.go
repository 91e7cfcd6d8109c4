package record

import (
	"context"
	"fmt"
	"sort"

	"bactool/internal/store"
)

// Constructor returns a new, empty record of one entity kind.
type Constructor func() *Record

// Registry maps entity kinds to their schema and constructor. It is filled
// once at start-up and lets a record follow a reference field without
// knowing the concrete entity types.
type Registry struct {
	store   store.Store
	schemas map[string]*Schema
	ctors   map[string]Constructor
}

// NewRegistry returns an empty registry bound to a store.
func NewRegistry(st store.Store) *Registry {
	return &Registry{
		store:   st,
		schemas: make(map[string]*Schema),
		ctors:   make(map[string]Constructor),
	}
}

// Register adds an entity kind. A nil constructor creates plain records.
func (r *Registry) Register(s *Schema, ctor Constructor) {
	if ctor == nil {
		ctor = func() *Record { return New(s, r.store, r) }
	}
	r.schemas[s.Kind] = s
	r.ctors[s.Kind] = ctor
}

// Store returns the store records of this registry persist to.
func (r *Registry) Store() store.Store {
	return r.store
}

// New returns an empty record of kind.
func (r *Registry) New(kind string) (*Record, error) {
	ctor, ok := r.ctors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReference, kind)
	}
	return ctor(), nil
}

// Schema returns the schema registered for kind.
func (r *Registry) Schema(kind string) (*Schema, bool) {
	s, ok := r.schemas[kind]
	return s, ok
}

// Kinds lists the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// DDL returns the table definitions of every registered kind, sorted by kind.
func (r *Registry) DDL() []string {
	var ddl []string
	for _, k := range r.Kinds() {
		ddl = append(ddl, r.schemas[k].DDL(r.store.Dialect()))
	}
	return ddl
}

// All loads every row of kind.
func (r *Registry) All(ctx context.Context, kind string) ([]*Record, error) {
	s, ok := r.schemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReference, kind)
	}
	rows, err := r.store.FetchAll(ctx, s.Table)
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(rows))
	for _, row := range rows {
		rec, err := r.New(kind)
		if err != nil {
			return nil, err
		}
		if err := rec.Hydrate(row); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
