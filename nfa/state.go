// Package nfa implements stages 4 and 5 of the lexforge pipeline: Thompson
// construction of an NFA fragment from a postfix token stream, and the
// multi-rule combiner that folds per-rule entry states into one start
// state.
package nfa

import (
	"fmt"

	"github.com/lexforge/lexforge/charset"
)

// StateID uniquely identifies an NFA state within a Builder's arena.
type StateID uint32

// InvalidState marks an out-slot that has not yet been patched.
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies the variant of a State.
type StateKind uint8

const (
	// StateBasic consumes one input byte satisfying Cond, then transitions
	// to Out.
	StateBasic StateKind = iota
	// StateSplit is an ε-branch to Out1 and Out2. Used for alternation,
	// optional, and quantifier loops.
	StateSplit
	// StateAnchorStart is the zero-width `^` assertion; its out is only
	// taken at a line start (decided by the simulator, not the NFA).
	StateAnchorStart
	// StateAnchorEnd is the zero-width `$` assertion.
	StateAnchorEnd
	// StateMatch is a terminal accepting state carrying a rule id.
	StateMatch
	// StateBoundary is an always-taken ε-transition materializing the
	// main/trailing-context split for rules with a `/` operator: reaching
	// a Boundary state means "just finished matching main for RuleID."
	StateBoundary
)

func (k StateKind) String() string {
	switch k {
	case StateBasic:
		return "Basic"
	case StateSplit:
		return "Split"
	case StateAnchorStart:
		return "AnchorStart"
	case StateAnchorEnd:
		return "AnchorEnd"
	case StateMatch:
		return "Match"
	case StateBoundary:
		return "Boundary"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// MatchCondition is what a Basic state consumes: either a single byte or a
// full CharSet.
type MatchCondition struct {
	single bool
	byte_  byte
	class  charset.CharSet
}

// ByteCondition builds a MatchCondition matching exactly one byte.
func ByteCondition(b byte) MatchCondition {
	return MatchCondition{single: true, byte_: b}
}

// ClassCondition builds a MatchCondition matching any byte in c.
func ClassCondition(c charset.CharSet) MatchCondition {
	return MatchCondition{class: c}
}

// Matches reports whether b satisfies the condition.
func (m MatchCondition) Matches(b byte) bool {
	if m.single {
		return b == m.byte_
	}
	return m.class.Contains(b)
}

// AsCharSet returns the condition expressed as a CharSet, for use by the
// byte-class reduction in the DFA construction stage.
func (m MatchCondition) AsCharSet() charset.CharSet {
	if m.single {
		return charset.Single(m.byte_)
	}
	return m.class
}

// State is one arena-allocated NFA node. Which fields are meaningful
// depends on Kind.
type State struct {
	ID   StateID
	Kind StateKind

	Cond MatchCondition // StateBasic
	Out  StateID        // StateBasic, StateAnchorStart, StateAnchorEnd, StateBoundary

	Out1, Out2 StateID // StateSplit

	RuleID int // StateMatch, StateBoundary
}

// Slot identifies which out-edge of a State a dangling reference points at.
type Slot uint8

const (
	SlotOut Slot = iota
	SlotOut1
	SlotOut2
)

// Edge is an unpatched out-slot: (state, which slot).
type Edge struct {
	State StateID
	Slot  Slot
}

// Fragment is a partially built sub-NFA: an entry state plus the list of
// out-slots still awaiting a target.
type Fragment struct {
	Entry    StateID
	Dangling []Edge
}
