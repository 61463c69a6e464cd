package mask

import (
	"strings"
	"unicode/utf8"
)

// Template is a compiled mask pattern. The zero value is the empty template,
// which maps every input to an empty result.
type Template struct {
	pattern string
	runes   []rune
	kinds   []Kind
	slots   int
}

// Compile classifies every rune of pattern. Compilation never fails: any
// character that is not a placeholder token is a literal.
func Compile(pattern string) Template {
	runes := []rune(pattern)
	kinds := make([]Kind, len(runes))
	slots := 0
	for i, r := range runes {
		kinds[i] = Classify(r)
		if kinds[i].IsPlaceholder() {
			slots++
		}
	}
	return Template{
		pattern: pattern,
		runes:   runes,
		kinds:   kinds,
		slots:   slots,
	}
}

// Pattern returns the source pattern.
func (t Template) Pattern() string { return t.pattern }

// Len returns the number of positions (runes) in the template.
func (t Template) Len() int { return len(t.runes) }

// Slots returns the number of placeholder positions.
func (t Template) Slots() int { return t.slots }

// KindAt returns the kind of position i. Out of range positions are literals.
func (t Template) KindAt(i int) Kind {
	if i < 0 || i >= len(t.kinds) {
		return KindLiteral
	}
	return t.kinds[i]
}

// Complete reports whether clean fills every placeholder slot.
func (t Template) Complete(clean string) bool {
	return utf8.RuneCountInString(clean) == t.slots
}

// Preview pads a masked value with the unreached remainder of the template,
// rendering placeholder positions with fill. It is for display only and must
// not be fed back into Apply.
func (t Template) Preview(r Result, fill rune) string {
	n := utf8.RuneCountInString(r.Masked)
	if n >= len(t.runes) {
		return r.Masked
	}

	var sb strings.Builder
	sb.Grow(len(t.pattern))
	sb.WriteString(r.Masked)
	for i := n; i < len(t.runes); i++ {
		if t.kinds[i].IsPlaceholder() {
			sb.WriteRune(fill)
		} else {
			sb.WriteRune(t.runes[i])
		}
	}
	return sb.String()
}
