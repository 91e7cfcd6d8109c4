// Package entity defines the Bacula resources bactool manages: directors,
// catalogs, clients, storage daemons and message sets.
//
// Every entity embeds a *record.Record for storage and adds the directive
// grammar that reads its configuration block and the templates that write
// it back out.
package entity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"bactool/internal/directive"
	"bactool/internal/phrase"
	"bactool/internal/record"
	"bactool/internal/store"
)

// Entity kinds.
const (
	KindDirector = "director"
	KindCatalog  = "catalog"
	KindClient   = "client"
	KindStorage  = "storage"
	KindMessages = "messages"
)

// Render forms.
const (
	FormConf     = "conf"
	FormBconsole = "bconsole"
	FormFD       = "fd"
	FormSD       = "sd"
)

var (
	ErrUnknownKind = errors.New("unknown entity kind")
	ErrUnknownForm = errors.New("unknown render form")
)

// Entity is the behaviour shared by all entity types.
type Entity interface {
	Kind() string
	Name() string
	ID() (int64, bool)
	Base() *record.Record
	// Parse applies a resource body of "Key = value" lines.
	Parse(ctx context.Context, text string) error
	// Render produces configuration text in one of the entity's forms.
	Render(ctx context.Context, form string) (string, error)
	// Forms lists the forms Render accepts, default first.
	Forms() []string
}

// Kinds lists every entity kind in import order.
func Kinds() []string {
	return []string{KindDirector, KindMessages, KindCatalog, KindClient, KindStorage}
}

// Schemas returns the schema of every entity kind.
func Schemas() []*record.Schema {
	return []*record.Schema{directorSchema, catalogSchema, clientSchema, storageSchema, messagesSchema}
}

// NewRegistry returns a registry with every entity kind registered against st.
func NewRegistry(st store.Store) *record.Registry {
	reg := record.NewRegistry(st)
	for _, s := range Schemas() {
		reg.Register(s, nil)
	}
	return reg
}

// New returns an empty entity of kind.
func New(reg *record.Registry, kind string) (Entity, error) {
	rec, err := reg.New(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return wrap(rec)
}

func wrap(rec *record.Record) (Entity, error) {
	switch rec.Kind() {
	case KindDirector:
		return &Director{Record: rec}, nil
	case KindCatalog:
		return &Catalog{Record: rec}, nil
	case KindClient:
		return &Client{Record: rec}, nil
	case KindStorage:
		return &StorageDaemon{Record: rec}, nil
	case KindMessages:
		return &Messages{Record: rec}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Kind())
	}
}

// Find looks an entity up by identity or name. A reference made only of
// digits is tried as an identity first.
func Find(ctx context.Context, reg *record.Registry, kind, ref string) (Entity, bool, error) {
	e, err := New(reg, kind)
	if err != nil {
		return nil, false, err
	}
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		found, err := e.Base().SearchByID(ctx, id)
		if err != nil || found {
			return e, found, err
		}
	}
	found, err := e.Base().SearchByName(ctx, ref)
	return e, found, err
}

// List loads every entity of kind.
func List(ctx context.Context, reg *record.Registry, kind string) ([]Entity, error) {
	recs, err := reg.All(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	out := make([]Entity, 0, len(recs))
	for _, r := range recs {
		e, err := wrap(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Create finds or creates the entity named name. Clients and storage
// daemons without a password get a generated one.
func Create(ctx context.Context, reg *record.Registry, kind, name string) (Entity, error) {
	e, err := New(reg, kind)
	if err != nil {
		return nil, err
	}
	rec := e.Base()
	if err := rec.EnsureByName(ctx, name); err != nil {
		return nil, err
	}
	if (kind == KindClient || kind == KindStorage) && rec.Get(fieldPassword).IsNull() {
		pw, err := GeneratePassword()
		if err != nil {
			return nil, err
		}
		if err := rec.SetField(ctx, fieldPassword, record.Str(pw)); err != nil {
			return nil, err
		}
	}
	return e, nil
}

const passwordAlphabet = "qwertyuiopasdfghjklzxcvbnmQWERTYUIOPASDFGHJKLZXCVBNM1234567890"

// PasswordLength is the length of generated passwords.
const PasswordLength = 44

// GeneratePassword returns a random alphanumeric daemon password.
func GeneratePassword() (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, PasswordLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b), nil
}

// Field names shared by several entities.
const (
	fieldAddress               = "address"
	fieldPassword              = "password"
	fieldWorkingDirectory      = "working_directory"
	fieldPidDirectory          = "pid_directory"
	fieldHeartbeatInterval     = "heartbeat_interval"
	fieldMaximumConcurrentJobs = "maximum_concurrent_jobs"
	fieldDirectorID            = "director_id"
)

// binding ties a field to the directive phrases that set it.
type binding struct {
	field   string
	phrases []string
	kind    directive.ValueKind
}

func text(field string, phrases ...string) binding {
	return binding{field: field, phrases: phrases}
}

func integer(field string, phrases ...string) binding {
	return binding{field: field, phrases: phrases, kind: directive.Integer}
}

// grammar builds the directive grammar of rec: a "Name" directive that
// finds or creates the row, then one matcher per binding.
func grammar(rec *record.Record, bindings []binding) *directive.Grammar {
	name := directive.Bind([]string{record.FieldName}, directive.QuotedOrRestOfLine,
		func(ctx context.Context, m directive.Match) error {
			return rec.EnsureByName(ctx, m.Text)
		}).Label("Name")

	matchers := make([]*directive.Matcher, 0, len(bindings))
	for _, b := range bindings {
		field := b.field
		kind := b.kind
		m := directive.Bind(phrase.Spellings(b.phrases...), kind,
			func(ctx context.Context, m directive.Match) error {
				if kind == directive.Integer {
					return rec.SetField(ctx, field, record.Int(m.Int))
				}
				return rec.SetField(ctx, field, record.Str(strings.TrimSpace(m.Text)))
			}).Label(b.phrases[0])
		matchers = append(matchers, m)
	}
	return directive.NewGrammar(name, matchers...)
}

// Keys lists the directive keys an entity kind accepts.
func Keys(kind string) ([]string, error) {
	var bindings []binding
	switch kind {
	case KindDirector:
		bindings = directorBindings
	case KindCatalog:
		bindings = catalogBindings
	case KindClient:
		bindings = clientBindings
	case KindStorage:
		bindings = storageBindings
	case KindMessages:
		return []string{"Name"}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return grammar(nil, bindings).Keys(), nil
}

// setDirector points a director_id field at d.
func setDirector(ctx context.Context, rec *record.Record, d *Director) error {
	if d == nil {
		return nil
	}
	id, ok := d.ID()
	if !ok {
		return fmt.Errorf("%w: director %q", record.ErrNoIdentity, d.Name())
	}
	if cur, ok := rec.Get(fieldDirectorID).Int64(); ok && cur == id {
		return nil
	}
	return rec.SetField(ctx, fieldDirectorID, record.Int(id))
}

// refName returns the name of the record a reference field points at, or
// nil when the field is null or dangling.
func refName(ctx context.Context, rec *record.Record, field string) (any, error) {
	target, err := rec.Dereference(ctx, field, "")
	if err != nil {
		return nil, err
	}
	if _, ok := target.ID(); !ok {
		return nil, nil
	}
	return target.Name(), nil
}

// directorAccess builds the template data of Director access blocks that
// authenticate each director with password.
func directorAccess(directors []*Director, password any) []map[string]any {
	out := make([]map[string]any, 0, len(directors))
	for _, d := range directors {
		out = append(out, map[string]any{record.FieldName: d.Name(), fieldPassword: password})
	}
	return out
}
