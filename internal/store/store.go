// Package store is the history file handler of isdown, and it also the database of isdown.
package store

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofrs/flock"
	"github.com/macrat/isdown/internal/atomicfile"
	"github.com/macrat/isdown/internal/isdownerr"
	api "github.com/macrat/isdown/lib-isdown"
)

var (
	ErrCorruptHistory = errors.New("history file is corrupt")
	ErrReadHistory    = errors.New("failed to read history file")
	ErrWriteHistory   = errors.New("failed to write history file")
	ErrLock           = errors.New("failed to lock history file")
	ErrLocked         = errors.New("another check is already running")
)

// LoadState is the kind of LoadResult.
type LoadState int8

const (
	// Absent means there is no history yet. It is not an error.
	Absent LoadState = iota

	// Corrupt means the history file exists but could not be used.
	// Callers must not write a new history over it.
	Corrupt

	// Loaded means the history file was read successfully.
	Loaded
)

// String is make LoadState a string
func (s LoadState) String() string {
	switch s {
	case Corrupt:
		return "CORRUPT"
	case Loaded:
		return "LOADED"
	default:
		return "ABSENT"
	}
}

// LoadResult is the result of Store.Load.
type LoadResult struct {
	State LoadState

	// Records is the loaded history. It is empty unless State is Loaded.
	Records api.History

	// Detail is the reason of Corrupt.
	Detail error
}

// History returns the loaded records, or an error if the history file is corrupt.
// An absent history is an empty slice without error.
func (r LoadResult) History() (api.History, error) {
	switch r.State {
	case Corrupt:
		return nil, r.Detail
	case Loaded:
		return r.Records, nil
	default:
		return api.History{}, nil
	}
}

// Store reads and writes a history file.
//
// The whole file is read and written at once. Store has no state apart from the path,
// so the file is the only source of truth.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns path to history file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the history file.
//
// A missing or empty file is Absent. A file that can not be read or parsed is Corrupt.
func (s *Store) Load() LoadResult {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadResult{State: Absent, Records: api.History{}}
	} else if err != nil {
		return LoadResult{
			State:  Corrupt,
			Detail: isdownerr.New(ErrReadHistory, err, "failed to read history file"),
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return LoadResult{State: Absent, Records: api.History{}}
	}

	var h api.History
	if err := json.Unmarshal(raw, &h); err != nil {
		return LoadResult{
			State:  Corrupt,
			Detail: isdownerr.New(ErrCorruptHistory, err, "history file %s is corrupt", s.path),
		}
	}

	return LoadResult{State: Loaded, Records: h}
}

// Save prunes h by policy, and writes the result to the history file replacing the whole file.
//
// It returns the pruned history so that the caller can keep using the same state as the file.
func (s *Store) Save(h api.History, policy Retention, now time.Time) (api.History, error) {
	pruned := policy.Apply(h, now)

	raw, err := json.MarshalIndent(pruned, "", "  ")
	if err != nil {
		return nil, isdownerr.New(ErrWriteHistory, err, "failed to encode history")
	}

	err = atomicfile.WriteFile(s.path, 0644, func(w io.Writer) error {
		if _, err := w.Write(raw); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	})
	if err != nil {
		return nil, isdownerr.New(ErrWriteHistory, err, "failed to write history file")
	}

	return pruned, nil
}

// Lock takes an exclusive lock on the history file, to prevent that two runs overwrite each other's record.
// It does not wait; if another process holds the lock, it returns ErrLocked.
//
// The lock file is placed next to the history file with ".lock" suffix.
func (s *Store) Lock() (unlock func() error, err error) {
	l := flock.New(s.path + ".lock")

	ok, err := l.TryLock()
	if err != nil {
		return nil, isdownerr.New(ErrLock, err, "failed to lock history file")
	}
	if !ok {
		return nil, isdownerr.New(ErrLocked, nil, "another check is already running: %s is locked", l.Path())
	}

	return l.Unlock, nil
}
