// Package charset implements the byte-level character-class type used
// throughout the lexforge pipeline (tokenizer, Thompson construction, and
// the DFA's byte-class alphabet reduction).
//
// A CharSet is a materialized set of the 256 possible byte values. Classes
// are built from bracket expressions like [a-z0-9_] and escape shorthands
// like \d, \w, \s (and their negations). Complement is resolved at
// construction time so that two CharSets compare equal iff they accept
// exactly the same bytes.
package charset

import (
	"fmt"
	"strings"
)

// CharSet is a set of byte values (0-255).
//
// The zero value is the empty set. CharSet is a small value type (32 bytes)
// and is typically passed and compared by value.
type CharSet struct {
	bits [4]uint64
}

// Single returns a CharSet containing exactly one byte.
func Single(b byte) CharSet {
	var c CharSet
	c.Add(b)
	return c
}

// Range returns a CharSet containing the inclusive byte range [lo, hi].
// If hi < lo, the range is swapped.
func Range(lo, hi byte) CharSet {
	var c CharSet
	c.AddRange(lo, hi)
	return c
}

// Add inserts a single byte into the set.
func (c *CharSet) Add(b byte) {
	c.bits[b/64] |= 1 << (b % 64)
}

// AddRange inserts every byte in the inclusive range [lo, hi].
func (c *CharSet) AddRange(lo, hi byte) {
	if hi < lo {
		lo, hi = hi, lo
	}
	for b := int(lo); b <= int(hi); b++ {
		c.Add(byte(b))
	}
}

// Contains reports whether b is a member of the set.
func (c CharSet) Contains(b byte) bool {
	return c.bits[b/64]&(1<<(b%64)) != 0
}

// IsEmpty reports whether the set has no members.
func (c CharSet) IsEmpty() bool {
	return c.bits[0] == 0 && c.bits[1] == 0 && c.bits[2] == 0 && c.bits[3] == 0
}

// Count returns the number of member bytes.
func (c CharSet) Count() int {
	n := 0
	for _, w := range c.bits {
		for w != 0 {
			w &= w - 1
			n++
		}
	}
	return n
}

// Complement returns the set of every byte NOT in c.
func (c CharSet) Complement() CharSet {
	var out CharSet
	for i := range c.bits {
		out.bits[i] = ^c.bits[i]
	}
	return out
}

// Union returns the set of bytes in either c or other.
func (c CharSet) Union(other CharSet) CharSet {
	var out CharSet
	for i := range c.bits {
		out.bits[i] = c.bits[i] | other.bits[i]
	}
	return out
}

// Equal reports whether c and other accept exactly the same bytes: two
// CharSets are equal iff their membership functions agree on every byte
// value.
func (c CharSet) Equal(other CharSet) bool {
	return c.bits == other.bits
}

// Ranges returns the set's members as a minimal sorted list of inclusive
// [lo, hi] byte ranges. Used both for rendering and for the DFA's
// relevant-byte-class boundary tracking.
func (c CharSet) Ranges() [][2]byte {
	var ranges [][2]byte
	inRange := false
	var lo byte
	for b := 0; b < 256; b++ {
		member := c.Contains(byte(b))
		switch {
		case member && !inRange:
			inRange = true
			lo = byte(b)
		case !member && inRange:
			inRange = false
			ranges = append(ranges, [2]byte{lo, byte(b - 1)})
		}
	}
	if inRange {
		ranges = append(ranges, [2]byte{lo, 255})
	}
	return ranges
}

// String renders the set back to a bracket expression. The rendering picks
// the shorter of the direct and complemented form, matching how a human
// would write the class by hand. This is the "render" half of the
// parse/render round-trip: rendering and re-parsing yields an equal set.
func (c CharSet) String() string {
	direct := c.renderRanges(c.Ranges())
	comp := c.Complement().Ranges()
	if len(comp) > 0 && len(comp) < len(c.Ranges()) {
		return "[^" + c.renderRanges(comp) + "]"
	}
	return "[" + direct + "]"
}

func (c CharSet) renderRanges(ranges [][2]byte) string {
	var sb strings.Builder
	for _, r := range ranges {
		if r[0] == r[1] {
			sb.WriteString(escapeForClass(r[0]))
		} else if r[1] == r[0]+1 {
			sb.WriteString(escapeForClass(r[0]))
			sb.WriteString(escapeForClass(r[1]))
		} else {
			sb.WriteString(escapeForClass(r[0]))
			sb.WriteByte('-')
			sb.WriteString(escapeForClass(r[1]))
		}
	}
	return sb.String()
}

func escapeForClass(b byte) string {
	switch b {
	case '\\', ']', '^', '-':
		return "\\" + string(b)
	case '\n':
		return "\\n"
	case '\t':
		return "\\t"
	case '\r':
		return "\\r"
	case 0:
		return "\\0"
	default:
		if b < 0x20 || b >= 0x7f {
			return fmt.Sprintf("\\x%02x", b)
		}
		return string(b)
	}
}

// Predefined classes backing the \d \w \s shorthands.

// Digits returns the class [0-9].
func Digits() CharSet {
	return Range('0', '9')
}

// WordChars returns the class [A-Za-z0-9_].
func WordChars() CharSet {
	c := Range('A', 'Z')
	c = c.Union(Range('a', 'z'))
	c = c.Union(Digits())
	c.Add('_')
	return c
}

// Spaces returns the class [ \t\n\r\f\v].
func Spaces() CharSet {
	var c CharSet
	for _, b := range []byte{' ', '\t', '\n', '\r', '\f', '\v'} {
		c.Add(b)
	}
	return c
}

// AnyExceptNewline returns the class matched by the `.` metacharacter: every
// byte except '\n'.
func AnyExceptNewline() CharSet {
	all := Range(0, 255)
	var nl CharSet
	nl.Add('\n')
	return all.Subtract(nl)
}

// Subtract returns the bytes in c that are not in other.
func (c CharSet) Subtract(other CharSet) CharSet {
	var out CharSet
	for i := range c.bits {
		out.bits[i] = c.bits[i] &^ other.bits[i]
	}
	return out
}
