package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/emarron/quaderno/internal/dateutil"
	"github.com/emarron/quaderno/internal/output"
)

// Store holds the full archive of entries loaded from one JSON file.
// Serialization order is always descending by date, and a save whose
// output is byte-identical to the on-disk content is skipped entirely,
// so load -> no-op -> save never produces a spurious diff.
type Store struct {
	path    string
	entries []Entry
	onDisk  []byte
}

// Load reads the archive at path. The root must be either a bare array
// of entry objects or (legacy form) an object with an "entries" array;
// any other shape is rejected. The legacy form is accepted on read only
// and never produced on write.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, output.NewUserError("no existe el archivo: " + path)
		}
		return nil, output.NewSystemErrorWithCause("no pude leer "+path, err)
	}

	entries, err := decodeEntries(data, path)
	if err != nil {
		return nil, err
	}

	store := &Store{path: path, entries: entries, onDisk: data}
	store.sortEntries()
	return store, nil
}

// decodeEntries accepts the two historical root shapes of archivo.json.
func decodeEntries(data []byte, path string) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var legacy map[string]json.RawMessage
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, output.NewUserError(path + " inválido: no es JSON (" + err.Error() + ")")
	}
	raw, ok := legacy["entries"]
	if !ok {
		return nil, output.NewUserError(path + " inválido: la raíz no es lista ni {\"entries\": [...]}")
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, output.NewUserError(path + " inválido: \"entries\" no es una lista de entradas (" + err.Error() + ")")
	}
	return entries, nil
}

// Path returns the file path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns the entries in serialization order (date descending).
// The returned slice is a copy; mutating it does not affect the store.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Dates returns every entry date, in serialization order.
func (s *Store) Dates() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Date
	}
	return out
}

// FindByDate returns the entry for the given date, if present.
func (s *Store) FindByDate(date string) (Entry, bool) {
	for _, e := range s.entries {
		if e.Date == date {
			return e, true
		}
	}
	return Entry{}, false
}

// Upsert removes any existing entry with the same date, appends the new
// one, then re-sorts the whole set descending by date. The full resort
// on every write is deliberate: it guarantees the persisted order
// invariant regardless of insertion history.
func (s *Store) Upsert(entry Entry) {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.Date != entry.Date {
			kept = append(kept, e)
		}
	}
	s.entries = append(kept, entry)
	s.sortEntries()
}

func (s *Store) sortEntries() {
	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].Date > s.entries[j].Date
	})
}

// MinDate returns the earliest entry date, or "" for an empty archive.
func (s *Store) MinDate() string {
	return dateutil.MinDate(s.Dates())
}

// MaxDate returns the latest entry date, or "" for an empty archive.
func (s *Store) MaxDate() string {
	return dateutil.MaxDate(s.Dates())
}

// NextDate computes the day after the latest entry.
// Fails on an empty archive.
func (s *Store) NextDate() (string, error) {
	return dateutil.NextDate(s.Dates())
}

// Marshal serializes the archive in its canonical on-disk form:
// a bare array, 2-space indentation, unescaped UTF-8, trailing newline.
func (s *Store) Marshal() ([]byte, error) {
	// Patch nil keyword lists on a copy; the store's own entries must
	// not change from serialization.
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	for i := range entries {
		if entries[i].Keywords == nil {
			entries[i].Keywords = []Keyword{}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, output.NewSystemErrorWithCause("no pude serializar el archivo", err)
	}
	return buf.Bytes(), nil
}

// Save writes the archive back to its path, atomically.
// Returns false without touching the file when the serialized output is
// byte-identical to the current on-disk content; this is what prevents
// no-op commits downstream.
func (s *Store) Save() (bool, error) {
	data, err := s.Marshal()
	if err != nil {
		return false, err
	}

	if bytes.Equal(data, s.onDisk) {
		return false, nil
	}

	if err := AtomicWrite(s.path, data); err != nil {
		return false, output.NewSystemErrorWithCause("no pude escribir "+s.path, err)
	}
	s.onDisk = data
	return true, nil
}

// AtomicWrite writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
