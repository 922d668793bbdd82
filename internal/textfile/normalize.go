package textfile

import "strings"

// Normalize rewrites raw source text into canonical layout: the five
// strict metadata keys in fixed order (FECHA forced to date, unknown
// keys dropped), one blank line between blocks, section bodies trimmed
// of surrounding blank lines but otherwise untouched, trailing newline.
//
// The function is idempotent: Normalize(Normalize(x)) == Normalize(x).
// The second return reports whether the result differs from raw.
func Normalize(raw, date string) (string, bool) {
	src := Parse(raw)

	var b strings.Builder
	for _, key := range StrictMetaKeys {
		value := strings.TrimSpace(src.Meta[key])
		if key == "FECHA" {
			value = date
		}
		b.WriteString(key + ":")
		if value != "" {
			b.WriteString(" " + value)
		}
		b.WriteString("\n")
	}

	for _, name := range SectionOrder {
		b.WriteString("\n# " + name + "\n")
		body := src.Body(name)
		if body != "" {
			b.WriteString("\n" + body + "\n")
		}
	}

	out := b.String()
	return out, out != normalizeNewlines(raw)
}
