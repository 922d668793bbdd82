// Package textfile parses, validates and normalizes the per-day source text files.
//
// A source file is a preface of "KEY: value" metadata lines followed by
// three named sections in fixed order:
//
//	FECHA: 2026-01-06
//	MY_POEM_TITLE:
//	POETA: Alejandra Pizarnik
//	POEM_TITLE: El despertar
//	BOOK_TITLE:
//
//	# POEMA
//	...
//
//	# POEMA_CITADO
//	...
//
//	# TEXTO
//	...
//
// Parsing is lenient (metadata key aliasing, tolerant spacing); the
// strict rules required before keyword generation and publishing live
// in StrictValidate. Both operate on the same parsed structure.
package textfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Section names, in the order their headers must appear.
const (
	SectionPoema       = "POEMA"
	SectionPoemaCitado = "POEMA_CITADO"
	SectionTexto       = "TEXTO"
)

// SectionOrder lists the three required sections in canonical order.
var SectionOrder = []string{SectionPoema, SectionPoemaCitado, SectionTexto}

// StrictMetaKeys is the exact preface key set required by strict validation.
// Values may be empty; the keys themselves must be present.
var StrictMetaKeys = []string{"FECHA", "MY_POEM_TITLE", "POETA", "POEM_TITLE", "BOOK_TITLE"}

var (
	headerRe   = regexp.MustCompile(`(?m)^\s*#\s*(POEMA|POEMA_CITADO|TEXTO)\s*$`)
	metaLineRe = regexp.MustCompile(`^\s*([A-Za-zÁÉÍÓÚÑ_]+)\s*:\s*(.*?)\s*$`)
)

// metaAliases maps preface keys (uppercased) to canonical field names.
// The alias set is wider than the strict key set: free-form files may
// use Spanish or English variants.
var metaAliases = map[string]string{
	"FECHA":           "date",
	"MY_POEM_TITLE":   "my_poem_title",
	"TITULO":          "my_poem_title",
	"TITLE":           "my_poem_title",
	"MY_POEM_SNIPPET": "my_poem_snippet",
	"POETA":           "poet",
	"POET":            "poet",
	"POEM_TITLE":      "poem_title",
	"POEMA_CITADO":    "poem_title",
	"POEM_SNIPPET":    "poem_snippet",
	"BOOK_TITLE":      "book_title",
	"LIBRO":           "book_title",
}

// Source is the parsed view of one source text file.
type Source struct {
	// Meta holds the raw preface metadata, keyed by uppercased key.
	// Values are trimmed but may be empty.
	Meta map[string]string
	// Sections maps section name to its raw body: everything between
	// the header and the next recognized header (or end of file).
	Sections map[string]string
	// Headers lists the recognized section headers in appearance order.
	Headers []string
}

// Parse splits raw source text into preface metadata and section bodies.
// Parse never fails: missing sections and unknown keys surface later,
// through StrictValidate, so diagnostics can name the specific rule.
func Parse(raw string) *Source {
	raw = normalizeNewlines(raw)

	src := &Source{
		Meta:     make(map[string]string),
		Sections: make(map[string]string),
	}

	matches := headerRe.FindAllStringSubmatchIndex(raw, -1)

	prefaceEnd := len(raw)
	if len(matches) > 0 {
		prefaceEnd = matches[0][0]
	}

	for _, line := range strings.Split(raw[:prefaceEnd], "\n") {
		m := metaLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		src.Meta[strings.ToUpper(m[1])] = m[2]
	}

	for i, m := range matches {
		name := raw[m[2]:m[3]]
		bodyStart := m[1]
		bodyEnd := len(raw)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		src.Headers = append(src.Headers, name)
		// first header occurrence wins on duplicates
		if _, seen := src.Sections[name]; !seen {
			src.Sections[name] = raw[bodyStart:bodyEnd]
		}
	}

	return src
}

// ParseFile reads and parses the source text file at path.
func ParseFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// CanonicalMeta resolves the preface through the alias table into
// canonical field names (date, my_poem_title, poet, poem_title,
// poem_snippet, my_poem_snippet, book_title). Later aliases never
// overwrite an earlier non-empty value for the same field.
func (s *Source) CanonicalMeta() map[string]string {
	out := make(map[string]string)
	// iterate aliases in a stable order so exact keys win over variants
	for _, key := range []string{
		"FECHA", "MY_POEM_TITLE", "MY_POEM_SNIPPET", "POETA", "POEM_TITLE",
		"POEM_SNIPPET", "BOOK_TITLE", "TITULO", "TITLE", "POET", "POEMA_CITADO", "LIBRO",
	} {
		value, ok := s.Meta[key]
		if !ok {
			continue
		}
		field := metaAliases[key]
		if out[field] == "" {
			out[field] = strings.TrimSpace(value)
		}
	}
	return out
}

// Body returns the cleaned body of a section: leading/trailing blank
// lines removed, trailing whitespace of the last line removed, internal
// lines untouched.
func (s *Source) Body(name string) string {
	return CleanBody(s.Sections[name])
}

// CleanBody trims leading and trailing blank lines from a section body,
// preserving internal blank lines (paragraph breaks matter for rendering).
func CleanBody(s string) string {
	lines := strings.Split(normalizeNewlines(s), "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	out := strings.Join(lines[start:end], "\n")
	return strings.TrimRight(out, " \t")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// PathForDate returns the canonical source file path for a date:
// <textosDir>/YYYY/MM/YYYY-MM-DD.txt.
func PathForDate(textosDir, date string) string {
	year, month := date[:4], date[5:7]
	return filepath.Join(textosDir, year, month, date+".txt")
}

// ResolvePath returns the existing source file path for a date,
// preferring the nested YYYY/MM layout and falling back to a flat
// <textosDir>/YYYY-MM-DD.txt when only that exists. When neither
// exists, the canonical nested path is returned (for creation).
func ResolvePath(textosDir, date string) string {
	nested := PathForDate(textosDir, date)
	if _, err := os.Stat(nested); err == nil {
		return nested
	}
	flat := filepath.Join(textosDir, date+".txt")
	if _, err := os.Stat(flat); err == nil {
		return flat
	}
	return nested
}

// Template renders the scaffold for a new source file: the five strict
// metadata keys (FECHA pre-filled) and the three empty sections.
func Template(date string) string {
	return fmt.Sprintf(`FECHA: %s
MY_POEM_TITLE:
POETA:
POEM_TITLE:
BOOK_TITLE:

# POEMA

# POEMA_CITADO

# TEXTO
`, date)
}
