package token

import "fmt"

// ErrorKind enumerates the tokenizer failure classes.
type ErrorKind uint8

const (
	// InvalidEscape: `\` at end of input, or a malformed `\xHH` or `\oOO`
	// escape. Any other escaped byte, inside or outside a class, stands
	// for itself and is not an error.
	InvalidEscape ErrorKind = iota
	// UnterminatedClass: `[` with no matching `]`.
	UnterminatedClass
	// UnterminatedQuote: `"` with no matching `"`.
	UnterminatedQuote
	// InvalidQuantifier: `{m,n}` with n < m, a non-numeric upper bound, or
	// no closing `}`. A `{` not followed by a decimal digit is a literal
	// byte, not an error.
	InvalidQuantifier
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidEscape:
		return "InvalidEscape"
	case UnterminatedClass:
		return "UnterminatedClass"
	case UnterminatedQuote:
		return "UnterminatedQuote"
	case InvalidQuantifier:
		return "InvalidQuantifier"
	default:
		return "Unknown"
	}
}

// Error is returned by Scan. It carries the failure kind and the byte
// offset into the original source string where it was detected.
type Error struct {
	Kind    ErrorKind
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Message)
}
