// Package directive parses "Key = value" configuration blocks into calls on
// bound setters.
//
// A Grammar is assembled from Matchers. Each Matcher owns a set of key
// spellings (usually produced by the phrase package), the kind of value it
// expects and the action to run with the parsed value. Parsing is strict:
// every non-blank line must match a bound key, and a single bad line rejects
// the whole block before any action runs.
package directive

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"bactool/pkg/logging"
)

// ValueKind selects how the text after '=' is read.
type ValueKind int

const (
	// QuotedOrRestOfLine reads a double-quoted string (quotes removed) or,
	// when the value is not quoted, the trimmed remainder of the line.
	QuotedOrRestOfLine ValueKind = iota
	// Integer reads a run of decimal digits.
	Integer
)

func (k ValueKind) String() string {
	switch k {
	case QuotedOrRestOfLine:
		return "string"
	case Integer:
		return "integer"
	default:
		return "unknown"
	}
}

// Match is one recognized directive line.
type Match struct {
	Line     int
	Key      string // key as written in the text
	Spelling string // bound spelling the key matched
	Text     string // value text, quotes removed
	Int      int64  // value for Integer matchers
	Kind     ValueKind
}

// Action receives a matched directive.
type Action func(ctx context.Context, m Match) error

// Matcher recognizes one logical key.
type Matcher struct {
	label     string
	spellings []string
	kind      ValueKind
	action    Action
}

// Bind returns a Matcher accepting any of spellings, case-insensitively,
// followed by '=' and a value of the given kind.
func Bind(spellings []string, kind ValueKind, action Action) *Matcher {
	norm := make([]string, 0, len(spellings))
	for _, s := range spellings {
		if n := normalizeKey(s); n != "" {
			norm = append(norm, n)
		}
	}
	// Longest spelling first; the sorted expansion order breaks ties.
	sort.SliceStable(norm, func(i, j int) bool { return len(norm[i]) > len(norm[j]) })

	m := &Matcher{spellings: norm, kind: kind, action: action}
	if len(norm) > 0 {
		m.label = norm[0]
	}
	return m
}

// Label sets the key shown in error suggestions.
func (m *Matcher) Label(label string) *Matcher {
	m.label = label
	return m
}

// Spellings returns the normalized spellings in match order.
func (m *Matcher) Spellings() []string {
	out := make([]string, len(m.spellings))
	copy(out, m.spellings)
	return out
}

func (m *Matcher) match(key string) (string, bool) {
	for _, s := range m.spellings {
		if s == key {
			return s, true
		}
	}
	return "", false
}

// Grammar is a set of matchers applied to a whole block of text.
type Grammar struct {
	name   *Matcher
	fields []*Matcher
}

// NewGrammar builds a grammar whose first matcher sets the display name.
// The name directive is required and is applied before any other directive,
// because the other setters write against the row the name identifies.
func NewGrammar(name *Matcher, fields ...*Matcher) *Grammar {
	return &Grammar{name: name, fields: fields}
}

// Keys lists the label of every matcher, name first.
func (g *Grammar) Keys() []string {
	keys := []string{g.name.label}
	for _, m := range g.fields {
		keys = append(keys, m.label)
	}
	return keys
}

type bound struct {
	match   Match
	matcher *Matcher
}

// Check reports whether text would parse, without running any action.
func (g *Grammar) Check(text string) error {
	_, err := g.scan(text)
	return err
}

// Parse matches every line of text and then runs the bound actions: the
// name directive first, then the remaining directives in line order.
// A ParseError means no action ran. An error returned by an action stops the
// parse; directives applied before it stay applied.
func (g *Grammar) Parse(ctx context.Context, text string) error {
	lines, err := g.scan(text)
	if err != nil {
		return err
	}

	var named bool
	for _, b := range lines {
		if b.matcher != g.name {
			continue
		}
		named = true
		if err := g.apply(ctx, b); err != nil {
			return err
		}
	}
	if !named {
		return &ParseError{Err: ErrMissingName, Reason: fmt.Sprintf("%q must be set", g.name.label)}
	}

	for _, b := range lines {
		if b.matcher == g.name {
			continue
		}
		if err := g.apply(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grammar) apply(ctx context.Context, b bound) error {
	logging.Debug("Grammar", "line %d: %s = %q", b.match.Line, b.match.Spelling, b.match.Text)
	if err := b.matcher.action(ctx, b.match); err != nil {
		return fmt.Errorf("line %d: %s: %w", b.match.Line, b.match.Key, err)
	}
	return nil
}

func (g *Grammar) scan(text string) ([]bound, error) {
	var (
		out      []bound
		named    bool
		nameLine int
	)
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, lineError(lineNo, line, "", ErrUnknownDirective, "expected \"key = value\"")
		}
		key := strings.TrimSpace(line[:eq])
		norm := normalizeKey(key)

		m, spelling := g.lookup(norm)
		if m == nil {
			return nil, lineError(lineNo, line, key, ErrUnknownDirective, strconv.Quote(key))
		}

		if m == g.name {
			if named {
				return nil, lineError(lineNo, line, key, ErrRepeatedName, "the name is already set on line "+strconv.Itoa(nameLine))
			}
			named, nameLine = true, lineNo
		}

		match := Match{Line: lineNo, Key: key, Spelling: spelling, Kind: m.kind}
		if err := readValue(line[eq+1:], &match); err != nil {
			return nil, lineError(lineNo, line, key, ErrMalformedValue, err.Error())
		}
		out = append(out, bound{match: match, matcher: m})
	}
	if len(out) == 0 {
		return nil, &ParseError{Err: ErrEmptyBlock}
	}
	return out, nil
}

func (g *Grammar) lookup(key string) (*Matcher, string) {
	if s, ok := g.name.match(key); ok {
		return g.name, s
	}
	for _, m := range g.fields {
		if s, ok := m.match(key); ok {
			return m, s
		}
	}
	return nil, ""
}

func readValue(raw string, m *Match) error {
	v := strings.TrimSpace(raw)
	switch m.Kind {
	case Integer:
		if v == "" {
			return fmt.Errorf("expected an integer")
		}
		for _, r := range v {
			if r < '0' || r > '9' {
				return fmt.Errorf("expected an integer, got %q", v)
			}
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("integer out of range: %s", v)
		}
		m.Int = n
		m.Text = v
		return nil
	default:
		if !strings.HasPrefix(v, `"`) {
			m.Text = v
			return nil
		}
		s, rest, ok := unquote(v)
		if !ok {
			// no closing quote: the whole remainder is the value
			m.Text = v
			return nil
		}
		if strings.TrimSpace(rest) != "" {
			return fmt.Errorf("unexpected text after quoted value: %q", rest)
		}
		m.Text = s
		return nil
	}
}

// unquote reads a double-quoted string at the start of s and returns its
// content and the text following the closing quote. ok is false when the
// quote is never closed.
func unquote(s string) (string, string, bool) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				b.WriteByte(s[i+1])
				i++
				continue
			}
			b.WriteByte(c)
		case '"':
			return b.String(), s[i+1:], true
		default:
			b.WriteByte(c)
		}
	}
	return "", "", false
}

// normalizeKey lower-cases key and collapses whitespace runs to one space.
func normalizeKey(key string) string {
	return strings.ToLower(strings.Join(strings.Fields(key), " "))
}

// ReadValue reads a quoted-or-rest-of-line value the way a Grammar does.
func ReadValue(raw string) (string, error) {
	m := Match{Kind: QuotedOrRestOfLine}
	if err := readValue(raw, &m); err != nil {
		return "", err
	}
	return m.Text, nil
}
