package entity

import (
	"context"
	"fmt"

	"bactool/internal/record"
	"bactool/internal/render"
)

var storageSchema = record.NewSchema(KindStorage, "storages",
	record.TextField(fieldAddress),
	record.IntField("sd_port", 9103),
	record.TextField(fieldPassword),
	record.TextField("device"),
	record.TextField("media_type"),
	record.IntField(fieldMaximumConcurrentJobs, 1),
	record.TextField(fieldWorkingDirectory),
	record.TextField(fieldPidDirectory),
	record.RefField(fieldDirectorID, KindDirector),
)

var storageBindings = []binding{
	text(fieldAddress, "address"),
	integer("sd_port", "sd port"),
	text(fieldPassword, "password"),
	text("device", "device"),
	text("media_type", "media type"),
	integer(fieldMaximumConcurrentJobs, "maximum concurrent jobs"),
	text(fieldWorkingDirectory, "working directory"),
	text(fieldPidDirectory, "pid directory"),
}

// StorageDaemon is a Bacula storage daemon.
type StorageDaemon struct {
	*record.Record
}

// NewStorageDaemon returns an empty storage daemon.
func NewStorageDaemon(reg *record.Registry) *StorageDaemon {
	rec, _ := reg.New(KindStorage)
	return &StorageDaemon{Record: rec}
}

func (s *StorageDaemon) Base() *record.Record { return s.Record }

func (s *StorageDaemon) Forms() []string { return []string{FormConf, FormSD} }

// Parse reads a Storage resource body.
func (s *StorageDaemon) Parse(ctx context.Context, text string) error {
	return grammar(s.Record, storageBindings).Parse(ctx, text)
}

// SetDirector records the director that owns the storage daemon.
func (s *StorageDaemon) SetDirector(ctx context.Context, d *Director) error {
	return setDirector(ctx, s.Record, d)
}

func (s *StorageDaemon) Render(ctx context.Context, form string) (string, error) {
	switch form {
	case FormConf, "":
		return s.Conf()
	case FormSD:
		directors, err := allDirectors(ctx, s.Record)
		if err != nil {
			return "", err
		}
		return s.StorageDaemonConf(directors)
	default:
		return "", fmt.Errorf("%w: storage has no %q form", ErrUnknownForm, form)
	}
}

// Conf renders the Storage resource of bacula-dir.conf.
func (s *StorageDaemon) Conf() (string, error) {
	return render.Execute("storage", s.Map())
}

// StorageDaemonConf renders bacula-sd.conf. Every director in directors may
// connect with the daemon's password; the first one receives its messages.
func (s *StorageDaemon) StorageDaemonConf(directors []*Director) (string, error) {
	data := s.Map()
	data["directors"] = directorAccess(directors, data[fieldPassword])
	return render.Execute("storage-sd", data)
}
