package registry

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/lock"
)

// migrations maps the schema version a document was read at to the
// function that advances it to the next version. Migrations apply in
// sequence until the document reaches schemaVersion; there is no
// backward path.
var migrations = map[int]func(*document) error{}

// Load reads the registry document at path under the per-file lock
// discipline. A missing file is not an error: it yields an empty
// Registry, matching first-run behaviour.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path, doc: newDocument()}

	err := lock.WithFile(path, func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}

		if err := migrate(&doc); err != nil {
			return err
		}

		if doc.Projects == nil {
			doc.Projects = make(map[string]ProjectRecord)
		}
		if doc.Libraries == nil {
			doc.Libraries = make(map[string]LibraryRecord)
		}
		if doc.Stores == nil {
			doc.Stores = make(map[string]StoreEntry)
		}
		r.doc = &doc
		return nil
	})
	if err != nil {
		return nil, errs.Wrapf(errs.ErrTransaction, "load registry %s: %w", path, err)
	}
	return r, nil
}

// migrate advances doc from its recorded schema version to schemaVersion by
// applying migrations in sequence. Failure leaves doc untouched from the
// caller's point of view: Load never writes back a partially-migrated
// document, so the original file on disk is preserved.
func migrate(doc *document) error {
	for doc.SchemaVersion < schemaVersion {
		step, ok := migrations[doc.SchemaVersion]
		if !ok {
			return errs.Wrapf(errs.ErrTransaction,
				"no migration from registry schema version %d to %d", doc.SchemaVersion, schemaVersion)
		}
		if err := step(doc); err != nil {
			return errs.Wrapf(errs.ErrTransaction,
				"migrate registry schema version %d: %w", doc.SchemaVersion, err)
		}
		doc.SchemaVersion++
	}
	return nil
}

// Save serialises the current in-memory document atomically: write to a
// temp file in the same directory, then rename over the destination. The
// whole operation runs under the per-file lock so a concurrent Load/Save
// in this process never observes a half-written file.
func (r *Registry) Save() error {
	path := r.path
	return lock.WithFile(path, func() error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}

		data, err := json.MarshalIndent(r.doc, "", "  ")
		if err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}

		tmp, err := os.CreateTemp(filepath.Dir(path), ".registry-*.json.tmp")
		if err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}
		tmpPath := tmp.Name()
		defer os.Remove(tmpPath) // no-op once the rename below succeeds

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return errs.Wrap(errs.ErrTransaction, err)
		}
		if err := tmp.Close(); err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}

		if err := os.Rename(tmpPath, path); err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}
		return nil
	})
}
