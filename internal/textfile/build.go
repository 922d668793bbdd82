package textfile

import (
	"strings"

	"github.com/emarron/quaderno/internal/archive"
	"github.com/emarron/quaderno/internal/dateutil"
)

// Snippet derives a short identifying fragment from a poem body, for
// use when the poem has no title. Two candidates are computed: the
// first six whitespace-delimited words of the body, and the first
// non-blank line. The candidate with fewer words wins; on a word-count
// tie the one with fewer characters wins.
func Snippet(body string) string {
	text := CleanBody(body)
	if text == "" {
		return ""
	}

	words := strings.Fields(text)
	n := len(words)
	if n > 6 {
		n = 6
	}
	byWords := strings.Join(words[:n], " ")

	byLine := ""
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			byLine = strings.TrimSpace(line)
			break
		}
	}

	wa, wb := len(strings.Fields(byWords)), len(strings.Fields(byLine))
	switch {
	case wa < wb:
		return byWords
	case wb < wa:
		return byLine
	case len(byLine) < len(byWords):
		return byLine
	default:
		return byWords
	}
}

// BuildEntry constructs an archive entry from a parsed source file.
// date keys the entry; file is the repo-relative source path stored in
// the record. Titles come from the preface; when a title is absent the
// snippet is derived from the corresponding poem body, keeping the
// exactly-one-of-title-or-snippet invariant. Keywords are left nil for
// the caller to fill.
func BuildEntry(src *Source, date, file string) archive.Entry {
	meta := src.CanonicalMeta()

	myTitle := meta["my_poem_title"]
	mySnippet := ""
	if myTitle == "" {
		mySnippet = meta["my_poem_snippet"]
		if mySnippet == "" {
			mySnippet = Snippet(src.Sections[SectionPoema])
		}
	}

	poemTitle := meta["poem_title"]
	poemSnippet := ""
	if poemTitle == "" {
		poemSnippet = meta["poem_snippet"]
		if poemSnippet == "" {
			poemSnippet = Snippet(src.Sections[SectionPoemaCitado])
		}
	}

	return archive.Entry{
		Date:          date,
		Month:         dateutil.Month(date),
		File:          file,
		MyPoemTitle:   myTitle,
		MyPoemSnippet: mySnippet,
		Analysis: archive.Analysis{
			Poet:        meta["poet"],
			PoemTitle:   poemTitle,
			PoemSnippet: poemSnippet,
			BookTitle:   meta["book_title"],
		},
		Keywords: nil,
	}
}
