package mask

import "strings"

// Result is the output of one transduction.
type Result struct {
	// Masked is the raw input laid onto the template, literals included.
	Masked string
	// Clean holds only the characters that filled placeholder slots.
	Clean string
}

// Transduce compiles template and applies it to raw.
func Transduce(template, raw string) Result {
	return Compile(template).Apply(raw)
}

// Apply maps raw onto the template in a single left-to-right pass.
//
// Literal positions are always emitted; when the next raw character equals the
// literal it is consumed as well, so previously formatted values round-trip.
// Placeholder positions skip raw characters their class rejects and take the
// first one it accepts. The pass stops as soon as either the template or the
// raw input is exhausted, so pending literals are not appended after the last
// filled slot.
func (t Template) Apply(raw string) Result {
	in := []rune(raw)
	if len(t.runes) == 0 || len(in) == 0 {
		return Result{}
	}

	var masked, clean strings.Builder
	ti, ii := 0, 0
	for ti < len(t.runes) && ii < len(in) {
		kind := t.kinds[ti]

		if kind == KindLiteral {
			lit := t.runes[ti]
			masked.WriteRune(lit)
			if in[ii] == lit {
				ii++
			}
			ti++
			continue
		}

		for ii < len(in) && !kind.Accepts(in[ii]) {
			ii++
		}
		if ii == len(in) {
			break
		}
		masked.WriteRune(in[ii])
		clean.WriteRune(in[ii])
		ii++
		ti++
	}

	return Result{Masked: masked.String(), Clean: clean.String()}
}
