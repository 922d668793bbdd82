// Package staging manages the single-slot keyword proposal file.
//
// Keyword generation and publication are separate steps: the generator
// writes its proposal here, the operator reviews and edits it, and the
// publish pipeline consumes it. The slot holds at most one proposal,
// keyed by entry date, and is cleared (not deleted) after a successful
// commit so the file's history stays in git.
package staging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emarron/quaderno/internal/archive"
	"github.com/emarron/quaderno/internal/output"
)

// Slot is the on-disk shape of the proposal file.
// An empty slot has Date == "" and an empty keyword list.
type Slot struct {
	Date     string            `json:"date"`
	Keywords []archive.Keyword `json:"keywords"`
}

// Empty reports whether the slot holds no proposal.
func (s *Slot) Empty() bool {
	return s.Date == "" && len(s.Keywords) == 0
}

// Load reads the proposal slot at path. A missing file is an empty
// slot, not an error; a file with any other JSON shape is rejected.
func Load(path string) (*Slot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Slot{Keywords: []archive.Keyword{}}, nil
		}
		return nil, output.NewSystemErrorWithCause("no pude leer "+path, err)
	}

	var slot Slot
	if err := json.Unmarshal(data, &slot); err != nil {
		return nil, output.NewUserError(path + " inválido: " + err.Error())
	}
	if slot.Keywords == nil {
		slot.Keywords = []archive.Keyword{}
	}
	return &slot, nil
}

// ValidateForApply checks that the slot can be merged into the entry
// for date. Three failure modes, each its own message: empty slot,
// date mismatch, and a dated slot with no keywords.
func (s *Slot) ValidateForApply(date string) error {
	if s.Empty() {
		return output.NewUserError("no hay palabras clave pendientes (ejecuta 'quaderno keywords' primero)")
	}
	if s.Date != date {
		return output.NewConflictError(fmt.Sprintf("las palabras clave pendientes son de %s, no de %s", s.Date, date))
	}
	if len(s.Keywords) == 0 {
		return output.NewUserError("la propuesta de " + s.Date + " no tiene palabras clave")
	}
	return nil
}

// Write persists the slot to path, atomically, creating parent
// directories as needed. The serialized form mirrors the archive's:
// 2-space indent, unescaped UTF-8, trailing newline.
func Write(path string, slot *Slot) error {
	if slot.Keywords == nil {
		slot.Keywords = []archive.Keyword{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(slot); err != nil {
		return output.NewSystemErrorWithCause("no pude serializar las palabras clave pendientes", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return output.NewSystemErrorWithCause("no pude crear el directorio de "+path, err)
	}
	if err := archive.AtomicWrite(path, buf.Bytes()); err != nil {
		return output.NewSystemErrorWithCause("no pude escribir "+path, err)
	}
	return nil
}

// Clear resets the slot at path to its empty form. The file itself is
// kept so the cleared state is committable alongside the archive.
func Clear(path string) error {
	return Write(path, &Slot{Keywords: []archive.Keyword{}})
}
