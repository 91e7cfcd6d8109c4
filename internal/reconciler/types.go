package reconciler

import (
	"context"
	"time"

	"bactool/internal/entity"
)

// ChangeOperation represents the type of change detected.
type ChangeOperation string

const (
	// OperationCreate indicates a new resource file appeared.
	OperationCreate ChangeOperation = "Create"

	// OperationUpdate indicates an existing resource file was modified.
	OperationUpdate ChangeOperation = "Update"

	// OperationDelete indicates a resource file was removed or renamed away.
	OperationDelete ChangeOperation = "Delete"
)

// ChangeEvent represents a detected change in a resource file.
type ChangeEvent struct {
	// Kind is the entity kind the file belongs to.
	Kind string

	// Name is the file name without its extension.
	Name string

	Operation ChangeOperation

	// Timestamp is when the last merged change was seen.
	Timestamp time.Time

	// FilePath is the absolute path of the file.
	FilePath string
}

// Handler processes one change event.
type Handler func(ctx context.Context, event ChangeEvent) error

// kindDirs maps entity kinds to their directory names.
var kindDirs = map[string]string{
	entity.KindDirector: "directors",
	entity.KindCatalog:  "catalogs",
	entity.KindClient:   "clients",
	entity.KindStorage:  "storages",
	entity.KindMessages: "messages",
}

// DirFor returns the directory name holding files of kind.
func DirFor(kind string) (string, bool) {
	d, ok := kindDirs[kind]
	return d, ok
}

// FileExt is the extension of watched resource files.
const FileExt = ".conf"
