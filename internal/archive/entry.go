// Package archive provides the entry schema and the JSON archive store for the journal.
package archive

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/emarron/quaderno/internal/dateutil"
	"github.com/emarron/quaderno/internal/output"
)

// Keyword is one weighted keyword attached to an entry.
// Weight is always in 1..3 after normalization.
type Keyword struct {
	Word   string `json:"word"`
	Weight int    `json:"weight"`
}

// Analysis holds the cited-poem metadata of an entry.
// Exactly one of PoemTitle/PoemSnippet is non-empty.
type Analysis struct {
	Poet        string `json:"poet"`
	PoemTitle   string `json:"poem_title"`
	PoemSnippet string `json:"poem_snippet"`
	BookTitle   string `json:"book_title"`
}

// Entry is one calendar day's publication record.
// The backing text file is the source of truth for the poem bodies;
// the entry is the source of truth for titles, metadata and keywords.
type Entry struct {
	Date          string    `json:"date"`
	Month         string    `json:"month"`
	File          string    `json:"file"`
	MyPoemTitle   string    `json:"my_poem_title"`
	MyPoemSnippet string    `json:"my_poem_snippet"`
	Analysis      Analysis  `json:"analysis"`
	Keywords      []Keyword `json:"keywords"`
}

// Label returns the human-readable label for the entry: the own-poem
// title when present, otherwise the derived snippet. Used in commit
// messages and listings.
func (e *Entry) Label() string {
	if e.MyPoemTitle != "" {
		return e.MyPoemTitle
	}
	return e.MyPoemSnippet
}

// Validate checks the structural invariants of an entry record.
func (e *Entry) Validate() error {
	if !dateutil.IsValid(e.Date) {
		return output.NewUserError("entrada inválida: date debe ser YYYY-MM-DD, tengo " + e.Date)
	}
	if e.Month != dateutil.Month(e.Date) {
		return output.NewUserError("entrada inválida: month (" + e.Month + ") no deriva de date (" + e.Date + ")")
	}
	if e.File == "" {
		return output.NewUserError("entrada inválida: falta file para " + e.Date)
	}
	if (e.MyPoemTitle == "") == (e.MyPoemSnippet == "") {
		return output.NewUserError("entrada inválida: exactamente uno de my_poem_title/my_poem_snippet debe tener valor (" + e.Date + ")")
	}
	if (e.Analysis.PoemTitle == "") == (e.Analysis.PoemSnippet == "") {
		return output.NewUserError("entrada inválida: exactamente uno de poem_title/poem_snippet debe tener valor (" + e.Date + ")")
	}
	return nil
}

// content is the keyword-free view of an entry; being comparable, it
// gives the change detector deep structural equality for free.
type content struct {
	Date          string
	Month         string
	File          string
	MyPoemTitle   string
	MyPoemSnippet string
	Analysis      Analysis
}

func (e *Entry) content() content {
	return content{
		Date:          e.Date,
		Month:         e.Month,
		File:          e.File,
		MyPoemTitle:   e.MyPoemTitle,
		MyPoemSnippet: e.MyPoemSnippet,
		Analysis:      e.Analysis,
	}
}

// ContentEqual reports whether two entries are identical on every field
// except keywords.
func ContentEqual(a, b *Entry) bool {
	return a.content() == b.content()
}

// NormalizeWord canonicalizes a keyword word: accents stripped,
// lowercased, inner whitespace collapsed to single spaces.
func NormalizeWord(s string) string {
	s = stripAccents(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// stripAccents removes combining marks after NFD decomposition
// (á -> a, ñ -> n), then recomposes.
func stripAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// NormalizeKeywords produces the canonical form of a keyword list:
// words normalized, weights clamped to 1..3, duplicates collapsed
// keeping the highest weight, sorted by weight descending then word
// ascending. The result is deterministic for any input order.
func NormalizeKeywords(kws []Keyword) []Keyword {
	best := make(map[string]int)
	for _, kw := range kws {
		word := NormalizeWord(kw.Word)
		if word == "" {
			continue
		}
		weight := kw.Weight
		if weight < 1 {
			weight = 1
		}
		if weight > 3 {
			weight = 3
		}
		if weight > best[word] {
			best[word] = weight
		}
	}

	out := make([]Keyword, 0, len(best))
	for word, weight := range best {
		out = append(out, Keyword{Word: word, Weight: weight})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// KeywordsEqual compares two keyword lists modulo normalization.
func KeywordsEqual(a, b []Keyword) bool {
	na, nb := NormalizeKeywords(a), NormalizeKeywords(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}
