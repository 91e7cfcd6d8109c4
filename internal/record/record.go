// Package record implements the persisted record every bactool entity is
// built on.
//
// A Record is one row of an entity table held as a typed field mapping. The
// schema fixes which fields exist; setting a field writes the whole row back
// at once, and reference fields are followed lazily through the Registry.
// Lookups that find nothing are not errors: the record's identity simply
// stays null and the caller checks ID().
package record

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bactool/internal/store"
	"bactool/pkg/logging"
)

// Record is a row of an entity table.
type Record struct {
	schema   *Schema
	store    store.Store
	registry *Registry
	fields   map[string]Value
	deleted  bool
}

// New returns a record holding the schema defaults and no identity.
func New(s *Schema, st store.Store, reg *Registry) *Record {
	r := &Record{
		schema:   s,
		store:    st,
		registry: reg,
		fields:   make(map[string]Value, len(s.fields)),
	}
	for _, f := range s.fields {
		r.fields[f.Name] = f.Default
	}
	return r
}

// Lookup selects a row by identity or name. ID wins when both are set.
type Lookup struct {
	ID   *int64
	Name string
}

// Schema returns the record's schema.
func (r *Record) Schema() *Schema { return r.schema }

// Store returns the store the record persists to.
func (r *Record) Store() store.Store { return r.store }

// Registry returns the registry used to follow references.
func (r *Record) Registry() *Registry { return r.registry }

// Kind returns the entity kind.
func (r *Record) Kind() string { return r.schema.Kind }

// Get returns a field value; unknown fields read as null.
func (r *Record) Get(field string) Value { return r.fields[field] }

// ID returns the identity, reporting false while the record is not persisted.
func (r *Record) ID() (int64, bool) {
	return r.fields[FieldID].Int64()
}

// Name returns the display name.
func (r *Record) Name() string { return r.fields[FieldName].Text() }

// Fields returns a copy of the field mapping.
func (r *Record) Fields() map[string]Value {
	out := make(map[string]Value, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Map returns the fields as plain Go values (nil, string, int64).
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v.Any()
	}
	return out
}

// Hydrate overwrites the fields from a stored row. Columns the schema does
// not declare are ignored. A row carrying another identity than the one the
// record already has is rejected.
func (r *Record) Hydrate(row store.Row) error {
	next := r.Fields()
	for col, raw := range row {
		if _, ok := r.schema.Field(col); !ok {
			continue
		}
		v, err := ValueOf(raw)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", r.schema.Table, col, err)
		}
		next[col] = v
	}
	if cur, ok := r.ID(); ok {
		if id, _ := next[FieldID].Int64(); id != cur {
			return fmt.Errorf("%w: %s %d", ErrIdentityConflict, r.schema.Kind, cur)
		}
	}
	r.fields = next
	return nil
}

// Search loads the row selected by l. It reports whether a row was found;
// when none is, the fields keep their previous values.
func (r *Record) Search(ctx context.Context, l Lookup) (bool, error) {
	var (
		column string
		value  any
	)
	switch {
	case l.ID != nil:
		column, value = FieldID, *l.ID
	case strings.TrimSpace(l.Name) != "":
		column, value = FieldName, strings.TrimSpace(l.Name)
	default:
		return false, nil
	}

	rows, err := r.store.FetchRowsWhere(ctx, r.schema.Table, column, value)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		logging.Debug("Record", "No %s with %s = %v", r.schema.Kind, column, value)
		return false, nil
	}
	if err := r.Hydrate(rows[0]); err != nil {
		return false, err
	}
	return true, nil
}

// SearchByName loads the row with the given name.
func (r *Record) SearchByName(ctx context.Context, name string) (bool, error) {
	return r.Search(ctx, Lookup{Name: name})
}

// SearchByID loads the row with the given identity.
func (r *Record) SearchByID(ctx context.Context, id int64) (bool, error) {
	return r.Search(ctx, Lookup{ID: &id})
}

// EnsureByName loads the row named name, creating it with default fields
// when it does not exist yet. A record that already has an identity only
// accepts its own name; use Rename to change it.
func (r *Record) EnsureByName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty %s name", ErrInvalidValue, r.schema.Kind)
	}
	if id, ok := r.ID(); ok && name != r.Name() {
		return fmt.Errorf("%w: %s %d is named %q, not %q", ErrIdentityConflict, r.schema.Kind, id, r.Name(), name)
	}
	rows, err := r.store.EnsureRowWithColumnValue(ctx, r.schema.Table, FieldName, name)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("ensure %s %q: no row returned", r.schema.Kind, name)
	}
	return r.Hydrate(rows[0])
}

type setOptions struct {
	boolean     bool
	dereference bool
}

// SetOption adjusts how SetField interprets its value.
type SetOption func(*setOptions)

// CoerceBoolean stores 0 for "0", "no" or "off" (any case) and 1 for
// anything else.
func CoerceBoolean() SetOption {
	return func(o *setOptions) { o.boolean = true }
}

// DereferenceName treats the value as the name of a record of the field's
// target kind, creating that record if needed, and stores its identity.
func DereferenceName() SetOption {
	return func(o *setOptions) { o.dereference = true }
}

// SetField stores value in field and persists the whole row. Boolean fields
// are always coerced; reference fields given a string are always
// dereferenced by name. When persisting fails the record keeps its previous
// values.
func (r *Record) SetField(ctx context.Context, field string, value Value, opts ...SetOption) error {
	f, ok := r.schema.Field(field)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, r.schema.Kind, field)
	}
	if field == FieldID {
		return fmt.Errorf("%w: %s", ErrIdentityConflict, r.schema.Kind)
	}

	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}
	if f.Kind == Boolean {
		o.boolean = true
	}
	if f.Kind == Reference && value.Kind() == KindString {
		o.dereference = true
	}

	v, err := r.coerce(ctx, f, value, o)
	if err != nil {
		return err
	}

	next := r.Fields()
	next[field] = v
	if err := r.persist(ctx, next); err != nil {
		return err
	}
	r.fields = next
	return nil
}

func (r *Record) coerce(ctx context.Context, f Field, value Value, o setOptions) (Value, error) {
	if value.IsNull() {
		return value, nil
	}
	switch {
	case o.boolean:
		return coerceBool(value), nil
	case o.dereference:
		target, err := r.resolve(ctx, f.Name, value.Text())
		if err != nil {
			return Value{}, err
		}
		id, _ := target.ID()
		return Int(id), nil
	}

	switch f.Kind {
	case Integer, Reference:
		n, ok := value.Int64()
		if !ok && value.Kind() == KindString {
			n, ok = Str(strings.TrimSpace(value.Text())).Int64()
		}
		if !ok {
			return Value{}, fmt.Errorf("%w: %s.%s wants an integer, got %q", ErrInvalidValue, r.schema.Kind, f.Name, value.Text())
		}
		return Int(n), nil
	default:
		return Str(value.Text()), nil
	}
}

func coerceBool(v Value) Value {
	switch strings.ToLower(strings.TrimSpace(v.Text())) {
	case "0", "no", "off":
		return Int(0)
	default:
		return Int(1)
	}
}

// resolve finds or creates the record named name in the target kind of a
// reference field.
func (r *Record) resolve(ctx context.Context, field, name string) (*Record, error) {
	target, err := r.target(field)
	if err != nil {
		return nil, err
	}
	if err := target.EnsureByName(ctx, name); err != nil {
		return nil, fmt.Errorf("resolve %s %q: %w", target.Kind(), name, err)
	}
	return target, nil
}

func (r *Record) target(field string) (*Record, error) {
	if _, ok := r.schema.Field(field); !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, r.schema.Kind, field)
	}
	kind, ok := r.schema.RefTarget(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is not a reference", ErrUnknownReference, r.schema.Kind, field)
	}
	if r.registry == nil {
		return nil, fmt.Errorf("%w: no registry for %s", ErrUnknownReference, kind)
	}
	return r.registry.New(kind)
}

// Persist writes every field except the identity back to the row.
func (r *Record) Persist(ctx context.Context) error {
	return r.persist(ctx, r.fields)
}

// persist always rewrites the full row, in sorted column order so the
// statement text is reproducible.
func (r *Record) persist(ctx context.Context, fields map[string]Value) error {
	id, err := r.writableID()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != FieldID {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets[i] = store.QuoteIdent(k) + " = ?"
		args = append(args, fields[k].Any())
	}
	args = append(args, id)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		store.QuoteIdent(r.schema.Table), strings.Join(sets, ", "), store.QuoteIdent(FieldID))
	n, err := r.store.Execute(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("persist %s %q: %w", r.schema.Kind, fields[FieldName].Text(), err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", ErrRowMissing, r.schema.Kind, id)
	}
	return nil
}

func (r *Record) writableID() (int64, error) {
	if r.deleted {
		return 0, fmt.Errorf("%w: %s %q", ErrDeleted, r.schema.Kind, r.Name())
	}
	id, ok := r.ID()
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrNoIdentity, r.schema.Kind, r.Name())
	}
	return id, nil
}

// Delete removes the row. The record must not be persisted again afterwards.
func (r *Record) Delete(ctx context.Context) error {
	id, err := r.writableID()
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", store.QuoteIdent(r.schema.Table), store.QuoteIdent(FieldID))
	if _, err := r.store.Execute(ctx, stmt, id); err != nil {
		return fmt.Errorf("delete %s %q: %w", r.schema.Kind, r.Name(), err)
	}
	r.deleted = true
	logging.Info("Record", "Deleted %s %q (id %d)", r.schema.Kind, r.Name(), id)
	return nil
}

// Rename updates only the name column.
func (r *Record) Rename(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty %s name", ErrInvalidValue, r.schema.Kind)
	}
	id, err := r.writableID()
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		store.QuoteIdent(r.schema.Table), store.QuoteIdent(FieldName), store.QuoteIdent(FieldID))
	n, err := r.store.Execute(ctx, stmt, name, id)
	if err != nil {
		return fmt.Errorf("rename %s %q: %w", r.schema.Kind, r.Name(), err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", ErrRowMissing, r.schema.Kind, id)
	}
	r.fields[FieldName] = Str(name)
	return nil
}

// Dereference returns the record a reference field points at.
//
// With a name, the target is found or created by that name and, if its
// identity differs from the stored one, the field is updated and persisted.
// Without a name the stored identity is looked up; a null or dangling
// reference yields an empty record of the target kind.
func (r *Record) Dereference(ctx context.Context, field, name string) (*Record, error) {
	if strings.TrimSpace(name) != "" {
		target, err := r.resolve(ctx, field, name)
		if err != nil {
			return nil, err
		}
		id, _ := target.ID()
		if cur, ok := r.Get(field).Int64(); !ok || cur != id {
			if err := r.SetField(ctx, field, Int(id)); err != nil {
				return nil, err
			}
			logging.Debug("Record", "%s %q: %s now points at %s %q", r.schema.Kind, r.Name(), field, target.Kind(), target.Name())
		}
		return target, nil
	}

	target, err := r.target(field)
	if err != nil {
		return nil, err
	}
	id, ok := r.Get(field).Int64()
	if !ok {
		return target, nil
	}
	if _, err := target.SearchByID(ctx, id); err != nil {
		return nil, err
	}
	return target, nil
}
