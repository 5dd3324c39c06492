package txlog

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tanmika/tanmidock/internal/errs"
)

// idBytes is the number of random bytes forming a transaction id, hex
// encoded into the log's filename.
const idBytes = 8

// Log is an open transaction: an append-only file of JSON-Lines records,
// one append per mutating filesystem step.
type Log struct {
	dir  string
	id   string
	path string
	file *os.File
}

// Open starts a new transaction under dir, creating dir if needed.
func Open(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrTransaction, err)
	}

	id, err := randomID()
	if err != nil {
		return nil, errs.Wrap(errs.ErrTransaction, err)
	}
	path := filepath.Join(dir, id+".json")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errs.Wrap(errs.ErrTransaction, err)
	}

	return &Log{dir: dir, id: id, path: path, file: f}, nil
}

func randomID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Append persists one record, fsyncing so that at most one in-flight
// record is ever unaccounted for on crash.
func (l *Log) Append(r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	if err := l.file.Sync(); err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	return nil
}

// Commit closes and removes the log file: the transaction succeeded and
// nothing further needs recovering.
func (l *Log) Commit() error {
	if err := l.file.Close(); err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	return nil
}

// Rollback replays every appended record in reverse, applying each one's
// inverse best-effort, then removes the log file. It returns the first
// undo error encountered (after attempting every record), or nil if every
// step undid cleanly.
func (l *Log) Rollback() error {
	if err := l.file.Close(); err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}
	return RollbackFile(l.path)
}

// RollbackFile replays the records in the transaction file at path in
// reverse and then removes it. It is used both by Log.Rollback and by
// orphan-transaction recovery at startup, where no in-memory Log exists.
func RollbackFile(path string) error {
	records, err := readRecords(path)
	if err != nil {
		return errs.Wrap(errs.ErrTransaction, err)
	}

	var firstErr error
	for i := len(records) - 1; i >= 0; i-- {
		if err := records[i].undo(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return errs.Wrap(errs.ErrTransaction, firstErr)
	}
	return nil
}

func readRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, scanner.Err()
}

// FindOrphan reports the path of a leftover transaction file under dir,
// if one exists. At most one is expected in normal operation, since
// concurrent runs are serialised by the process-global lock.
func FindOrphan(dir string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".json") {
			return filepath.Join(dir, e.Name()), true, nil
		}
	}
	return "", false, nil
}
