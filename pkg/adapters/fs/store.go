package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/floatnote/pkg/core"
)

const (
	// DefaultFileName is the notes document created when only a directory is given.
	DefaultFileName = "notes.json"

	defaultPerm        = 0644
	defaultLockTimeout = 5 * time.Second
	defaultStaleLock   = 30 * time.Second
)

// Config holds the configuration for the JSON file store.
type Config struct {
	Path        string        // notes document, e.g. ~/.config/floatnote/notes.json
	Logger      *slog.Logger  // nil discards
	Perm        os.FileMode   // zero means 0644
	LockTimeout time.Duration // zero means 5s; negative waits for ctx
	StaleLock   time.Duration // lock files older than this are broken; zero means 30s
	ReadOnly    bool
}

// Store implements core.Store on top of a single JSON document holding the
// whole note collection as an array.
//
// Writes go through a temp file and a rename, and every read-modify-write
// cycle holds both an in-process mutex and a lock file next to the document,
// so concurrent controllers (and concurrent processes) never lose each
// other's records.
type Store struct {
	Path   string
	config Config
	logger *slog.Logger
	lock   fileLock

	// mu is the single-writer lock for this process.
	mu sync.Mutex

	// stateMu guards the observability fields below.
	stateMu       sync.RWMutex
	writes        int
	lastWrite     *time.Time
	lastErr       error
	lastDigest    [sha256.Size]byte
	watcherActive bool
}

// NewStore creates a new JSON file store. Nothing touches the disk until
// the first operation (or Initialize).
func NewStore(config Config) *Store {
	if config.Perm == 0 {
		config.Perm = defaultPerm
	}
	if config.LockTimeout == 0 {
		config.LockTimeout = defaultLockTimeout
	}
	if config.StaleLock == 0 {
		config.StaleLock = defaultStaleLock
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	timeout := config.LockTimeout
	if timeout < 0 {
		timeout = 0
	}

	return &Store{
		Path:   config.Path,
		config: config,
		logger: logger.With("component", "store", "path", config.Path),
		lock: fileLock{
			path:    config.Path + ".lock",
			timeout: timeout,
			stale:   config.StaleLock,
		},
	}
}

// Initialize creates the parent directory and an empty collection if the
// document does not exist yet.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.ReadOnly {
		return nil
	}
	if _, err := os.Stat(s.Path); err == nil {
		return nil
	}
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := os.Stat(s.Path); err == nil {
		return nil
	}
	return s.write([]core.Note{})
}

// LoadAll reads the persisted collection. It never fails: a missing, empty,
// corrupt or unreadable document is reported as an empty collection.
//
// The read takes no lock and is not interruptible, so ctx only gates the
// start: a context that is already done yields an empty collection.
func (s *Store) LoadAll(ctx context.Context) []core.Note {
	if err := ctx.Err(); err != nil {
		s.logger.Debug("load skipped", "error", err)
		return []core.Note{}
	}
	notes, _, err := s.read()
	if err != nil {
		s.logger.Warn("failed to read notes, treating as empty", "error", err)
		return []core.Note{}
	}
	return notes
}

// SaveAll atomically replaces the collection with notes, preserving order.
func (s *Store) SaveAll(ctx context.Context, notes []core.Note) error {
	if err := validate(notes); err != nil {
		return err
	}
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return s.write(notes)
}

// Upsert replaces the record with n.ID at its current position, or appends
// n when no such record exists.
func (s *Store) Upsert(ctx context.Context, n core.Note) error {
	if err := validateNote(n); err != nil {
		return err
	}
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	notes, err := s.readForWrite()
	if err != nil {
		return err
	}
	replaced := false
	for i := range notes {
		if notes[i].ID == n.ID {
			notes[i] = n.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		notes = append(notes, n.Clone())
	}

	s.logger.Debug("upsert note", "id", n.ID, "replaced", replaced, "total", len(notes))
	return s.write(notes)
}

// Delete removes the record with the given id. Deleting an id that is not
// in the collection leaves the document untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return core.ErrEmptyID
	}
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	notes, err := s.readForWrite()
	if err != nil {
		return err
	}
	kept := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(notes) {
		s.logger.Debug("delete of absent note skipped", "id", id)
		return nil
	}

	s.logger.Debug("delete note", "id", id, "total", len(kept))
	return s.write(kept)
}

// acquire takes the process mutex and then the lock file.
func (s *Store) acquire(ctx context.Context) (func(), error) {
	if s.config.ReadOnly {
		return nil, s.fail("lock", core.ErrReadOnly)
	}

	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		s.mu.Unlock()
		return nil, s.fail("mkdir", err)
	}
	release, err := s.lock.acquire(ctx)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, s.fail("lock", err)
	}
	return func() {
		release()
		s.mu.Unlock()
	}, nil
}

// read loads the collection. A missing or blank document is an empty
// collection; corrupt reports a document that exists but cannot be decoded.
// Any other failure to read the file is returned as is.
func (s *Store) read() (notes []core.Note, corrupt bool, err error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return []core.Note{}, false, nil
		}
		return nil, false, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Note{}, false, nil
	}

	var raw []core.Note
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("notes document is corrupt, treating as empty", "error", err)
		return []core.Note{}, true, nil
	}
	return s.sanitize(raw), false, nil
}

// readForWrite is read for the write path. A document that cannot be read
// fails the write, since rewriting it would drop every other record. A
// corrupt one is moved aside so it can be recovered by hand.
func (s *Store) readForWrite() ([]core.Note, error) {
	notes, corrupt, err := s.read()
	if err != nil {
		return nil, s.fail("read", err)
	}
	if corrupt {
		backup := fmt.Sprintf("%s.corrupt-%d", s.Path, time.Now().Unix())
		if err := os.Rename(s.Path, backup); err != nil {
			s.logger.Warn("failed to back up corrupt notes document", "error", err)
		} else {
			s.logger.Warn("corrupt notes document moved aside", "backup", backup)
		}
	}
	return notes, nil
}

// sanitize drops records without an ID and keeps the first of duplicate IDs.
func (s *Store) sanitize(raw []core.Note) []core.Note {
	notes := make([]core.Note, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, n := range raw {
		if n.ID == "" {
			s.logger.Warn("dropping note without id")
			continue
		}
		if seen[n.ID] {
			s.logger.Warn("dropping duplicate note", "id", n.ID)
			continue
		}
		seen[n.ID] = true
		notes = append(notes, n)
	}
	return notes
}

// write encodes and atomically writes the collection. Callers hold the lock.
func (s *Store) write(notes []core.Note) error {
	if notes == nil {
		notes = []core.Note{}
	}
	data, err := json.MarshalIndent(notes, "", "    ")
	if err != nil {
		return s.fail("encode", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.Path, data, s.config.Perm); err != nil {
		return s.fail("write", err)
	}

	now := time.Now()
	s.stateMu.Lock()
	s.writes++
	s.lastWrite = &now
	s.lastErr = nil
	s.lastDigest = sha256.Sum256(data)
	s.stateMu.Unlock()
	return nil
}

func (s *Store) fail(op string, err error) error {
	pe := &core.PersistenceError{Op: op, Path: s.Path, Err: err}
	s.stateMu.Lock()
	s.lastErr = pe
	s.stateMu.Unlock()
	s.logger.Error("persistence failure", "op", op, "error", err)
	return pe
}

func validate(notes []core.Note) error {
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		if err := validateNote(n); err != nil {
			return err
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: %s", core.ErrDuplicateID, n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

// validateNote checks the fields every persisted record must carry.
func validateNote(n core.Note) error {
	if n.ID == "" {
		return core.ErrEmptyID
	}
	if n.Geometry == nil {
		return fmt.Errorf("%w: %s", core.ErrNoGeometry, n.ID)
	}
	return nil
}

var _ core.Store = (*Store)(nil)
