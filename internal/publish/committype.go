// Package publish implements the entry publication pipeline: validate
// and normalize the day's source file, merge staged keywords, reconcile
// against the archive, classify the change and commit it.
package publish

import "fmt"

// CommitType classifies what a publication run changes.
type CommitType int

const (
	// NoChange means the run would alter nothing; no commit is made.
	NoChange CommitType = iota
	// New means the date had no archive entry before this run.
	New
	// ContentEdit means metadata or text changed, keywords did not.
	ContentEdit
	// KeywordEdit means only the keyword list changed.
	KeywordEdit
	// ContentAndKeywordEdit means both axes changed.
	ContentAndKeywordEdit
)

// String returns the stable machine name used in JSON output.
func (c CommitType) String() string {
	switch c {
	case New:
		return "NEW"
	case ContentEdit:
		return "CONTENT_EDIT"
	case KeywordEdit:
		return "KEYWORD_EDIT"
	case ContentAndKeywordEdit:
		return "CONTENT_AND_KEYWORD_EDIT"
	default:
		return "NO_CHANGE"
	}
}

// label returns the Spanish commit-subject prefix for the type.
func (c CommitType) label() string {
	switch c {
	case New:
		return "entrada"
	case ContentEdit:
		return "edicion de metadatos/escritos"
	case KeywordEdit:
		return "edicion de palabras clave"
	case ContentAndKeywordEdit:
		return "edicion texto + keywords"
	default:
		return ""
	}
}

// Classify maps the three change axes to a commit type. A new entry is
// always NEW regardless of the other axes.
func Classify(isNew, contentChanged, keywordsChanged bool) CommitType {
	switch {
	case isNew:
		return New
	case contentChanged && keywordsChanged:
		return ContentAndKeywordEdit
	case contentChanged:
		return ContentEdit
	case keywordsChanged:
		return KeywordEdit
	default:
		return NoChange
	}
}

// CommitMessage builds the commit subject: "<label> <date> — <label of
// the entry>". The entry label is the own-poem title or its snippet.
func CommitMessage(c CommitType, date, entryLabel string) string {
	return fmt.Sprintf("%s %s — %s", c.label(), date, entryLabel)
}
