// Package token implements stage 1 (tokenizer) and stage 2 (concatenation
// insertion) of the lexforge pipeline: it turns an already-macro-expanded
// regex source string into a flat sequence of typed tokens with explicit
// concatenation operators inserted between adjacent atoms.
package token

import (
	"fmt"

	"github.com/lexforge/lexforge/charset"
)

// Kind identifies the variant of a Token.
type Kind uint8

const (
	// Literal matches exactly one byte.
	Literal Kind = iota
	// Class matches one byte out of a CharSet.
	Class
	// AnchorStart is the `^` zero-width start-of-line assertion.
	AnchorStart
	// AnchorEnd is the `$` zero-width end-of-line assertion.
	AnchorEnd
	// Any is the `.` metacharacter: any byte except '\n'.
	Any
	// OpenGroup is `(`.
	OpenGroup
	// CloseGroup is `)`.
	CloseGroup
	// Concat is the implicit concatenation operator inserted by stage 2.
	Concat
	// Alt is `|`.
	Alt
	// Optional is `?`.
	Optional
	// Quant is `{m,n}`, `*`, or `+` — see Token.Min/Max.
	Quant
	// TrailingSlash is `/`, the trailing-context marker.
	TrailingSlash
)

// Unbounded is the sentinel value for Token.Max denoting an unbounded
// repetition (`*` and `+`).
const Unbounded = -1

// Token is one element of the flat token stream produced by Scan.
// Tokens carry no position; errors reference byte offsets into the
// original source string instead.
type Token struct {
	Kind    Kind
	Literal byte            // valid when Kind == Literal
	Class   charset.CharSet // valid when Kind == Class
	Min     int             // valid when Kind == Quant
	Max     int             // valid when Kind == Quant; Unbounded for *, +
}

func (t Token) String() string {
	switch t.Kind {
	case Literal:
		return fmt.Sprintf("Literal(%q)", t.Literal)
	case Class:
		return fmt.Sprintf("Class(%s)", t.Class.String())
	case AnchorStart:
		return "AnchorStart"
	case AnchorEnd:
		return "AnchorEnd"
	case Any:
		return "Any"
	case OpenGroup:
		return "OpenGroup"
	case CloseGroup:
		return "CloseGroup"
	case Concat:
		return "Concat"
	case Alt:
		return "Alt"
	case Optional:
		return "Optional"
	case Quant:
		if t.Max == Unbounded {
			return fmt.Sprintf("Quant(%d,inf)", t.Min)
		}
		return fmt.Sprintf("Quant(%d,%d)", t.Min, t.Max)
	case TrailingSlash:
		return "TrailingSlash"
	default:
		return "Unknown"
	}
}
