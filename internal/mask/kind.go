// Package mask implements the masked text-input transducer.
//
// A mask template is a string in which '9' stands for a digit slot, 'a' for a
// letter slot, '*' for an alphanumeric slot, and every other character is a
// literal copied verbatim into the formatted value. Transduction maps free-form
// raw input onto the template and yields both the formatted (masked) value and
// the clean value made of the characters that filled placeholder slots.
package mask

// Kind classifies a single template position.
type Kind int

const (
	KindLiteral Kind = iota
	KindDigit
	KindLetter
	KindAlphanumeric
)

// Placeholder tokens recognised in a template.
const (
	TokenDigit        = '9'
	TokenLetter       = 'a'
	TokenAlphanumeric = '*'
)

// Classify returns the kind of template position r describes.
func Classify(r rune) Kind {
	switch r {
	case TokenDigit:
		return KindDigit
	case TokenLetter:
		return KindLetter
	case TokenAlphanumeric:
		return KindAlphanumeric
	default:
		return KindLiteral
	}
}

// Accepts reports whether r may fill a slot of this kind.
// Literals accept nothing: they always come from the template.
func (k Kind) Accepts(r rune) bool {
	switch k {
	case KindDigit:
		return isDigit(r)
	case KindLetter:
		return isLetter(r)
	case KindAlphanumeric:
		return isDigit(r) || isLetter(r)
	default:
		return false
	}
}

// IsPlaceholder reports whether the kind is a user-filled slot.
func (k Kind) IsPlaceholder() bool {
	return k != KindLiteral
}

func (k Kind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindLetter:
		return "letter"
	case KindAlphanumeric:
		return "alphanumeric"
	default:
		return "literal"
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
