// Package importer loads Bacula configuration text into the store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bactool/internal/directive"
	"bactool/internal/entity"
	"bactool/internal/record"
	"bactool/pkg/logging"
)

// ErrDirectorNotFound is returned when Options.Director names no director.
var ErrDirectorNotFound = errors.New("director not found")

// Options controls an import.
type Options struct {
	// Kind treats the whole text as the body of one resource of this kind
	// instead of splitting it into resource blocks.
	Kind string
	// Director names the director catalogs and storage daemons belong to.
	// Without it they attach to the last director of the same text.
	Director string
}

// Result lists what an import stored.
type Result struct {
	Imported []string
	Skipped  []string
}

func (r *Result) add(e entity.Entity) {
	r.Imported = append(r.Imported, fmt.Sprintf("%s: %s", strings.ToUpper(e.Kind()[:1])+e.Kind()[1:], e.Name()))
}

// Importer routes resource blocks to the matching entity parser.
type Importer struct {
	registry *record.Registry
}

// New returns an importer storing through reg.
func New(reg *record.Registry) *Importer {
	return &Importer{registry: reg}
}

// kindFor maps a resource type to an entity kind.
func kindFor(resource string) (string, bool) {
	switch strings.ToLower(strings.Join(strings.Fields(resource), "")) {
	case "director":
		return entity.KindDirector, true
	case "catalog":
		return entity.KindCatalog, true
	case "client":
		return entity.KindClient, true
	case "storage":
		return entity.KindStorage, true
	case "messages":
		return entity.KindMessages, true
	}
	return "", false
}

type pending struct {
	kind  string
	block directive.Block
}

// ImportText parses text and stores every resource it holds. Directors are
// imported first so catalogs and storage daemons can refer to them.
func (im *Importer) ImportText(ctx context.Context, text string, opts Options) (*Result, error) {
	res := &Result{}

	var blocks []pending
	if opts.Kind != "" {
		blocks = []pending{{kind: opts.Kind, block: directive.Block{Type: opts.Kind, Body: directive.StripComments(text), Line: 1}}}
	} else {
		split, err := directive.SplitBlocks(text)
		if err != nil {
			return nil, err
		}
		for _, b := range split {
			kind, ok := kindFor(b.Type)
			if !ok {
				logging.Warn("Import", "Skipping %s resource at line %d", b.Type, b.Line)
				res.Skipped = append(res.Skipped, b.Type)
				continue
			}
			blocks = append(blocks, pending{kind: kind, block: b})
		}
	}

	var (
		owner    *entity.Director
		resolved bool
	)
	for _, pass := range []bool{true, false} {
		for _, p := range blocks {
			if (p.kind == entity.KindDirector) != pass {
				continue
			}
			if needsOwner(p.kind) && opts.Director != "" && !resolved {
				d, err := im.owner(ctx, opts.Director)
				if err != nil {
					return res, err
				}
				owner, resolved = d, true
			}
			e, err := im.importBlock(ctx, p, owner)
			if err != nil {
				return res, err
			}
			if d, ok := e.(*entity.Director); ok && opts.Director == "" {
				owner = d
			}
			res.add(e)
		}
	}

	logging.Info("Import", "Imported %d resources, skipped %d", len(res.Imported), len(res.Skipped))
	return res, nil
}

// needsOwner reports whether resources of kind belong to a director.
func needsOwner(kind string) bool {
	return kind == entity.KindCatalog || kind == entity.KindStorage
}

// owner looks the named director up once every director of the current
// text has been stored.
func (im *Importer) owner(ctx context.Context, name string) (*entity.Director, error) {
	e, found, err := entity.Find(ctx, im.registry, entity.KindDirector, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrDirectorNotFound, name)
	}
	return e.(*entity.Director), nil
}

func (im *Importer) importBlock(ctx context.Context, p pending, owner *entity.Director) (entity.Entity, error) {
	e, err := entity.New(im.registry, p.kind)
	if err != nil {
		return nil, err
	}
	body := directive.TrimTerminators(p.block.Body)

	switch x := e.(type) {
	case *entity.Catalog:
		err = x.ParseFor(ctx, body, owner)
	case *entity.StorageDaemon:
		if err = x.Parse(ctx, body); err == nil {
			err = x.SetDirector(ctx, owner)
		}
	default:
		err = e.Parse(ctx, body)
	}
	if err != nil {
		return nil, &BlockError{Type: p.block.Type, Kind: p.kind, Line: p.block.Line, Err: err}
	}
	logging.Debug("Import", "Stored %s %q", e.Kind(), e.Name())
	return e, nil
}

// BlockError locates a failure inside the resource block it came from.
type BlockError struct {
	Type string
	Kind string
	Line int // line of the block's opening brace
	Err  error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("%s resource at line %d: %v", e.Type, e.Line, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }
