package nfa

import (
	"github.com/lexforge/lexforge/charset"
	"github.com/lexforge/lexforge/internal/conv"
)

// Builder constructs an NFA incrementally in an arena, following an
// allocate-then-patch discipline for cyclic graphs:
// states are appended to a flat slice and referenced by index, so loops
// (quantifier back-edges) are just StateIDs rather than owned pointers.
type Builder struct {
	states       []State
	byteClassSet *charset.ByteClassSet
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		states:       make([]State, 0, 32),
		byteClassSet: charset.NewByteClassSet(),
	}
}

// Len returns the number of allocated states.
func (b *Builder) Len() int {
	return len(b.states)
}

// State returns a copy of the state at id.
func (b *Builder) State(id StateID) State {
	return b.states[id]
}

// ByteClasses finalizes the byte-class partition accumulated from every
// Basic condition added so far; subset construction uses it to try one
// representative byte per class instead of all 256.
func (b *Builder) ByteClasses() charset.ByteClasses {
	return b.byteClassSet.ByteClasses()
}

func (b *Builder) alloc(kind StateKind) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{
		ID:   id,
		Kind: kind,
		Out:  InvalidState,
		Out1: InvalidState,
		Out2: InvalidState,
	})
	return id
}

// Patch sets the target of a single dangling edge.
func (b *Builder) Patch(e Edge, target StateID) {
	s := &b.states[e.State]
	switch e.Slot {
	case SlotOut:
		s.Out = target
	case SlotOut1:
		s.Out1 = target
	case SlotOut2:
		s.Out2 = target
	}
}

// PatchAll patches every edge in the list to the same target.
func (b *Builder) PatchAll(edges []Edge, target StateID) {
	for _, e := range edges {
		b.Patch(e, target)
	}
}

// Literal pushes a fragment matching exactly one byte.
func (b *Builder) Literal(lit byte) Fragment {
	return b.basic(ByteCondition(lit))
}

// Class pushes a fragment matching any byte in c.
func (b *Builder) Class(c charset.CharSet) Fragment {
	return b.basic(ClassCondition(c))
}

// Any pushes a fragment matching any byte except '\n'.
func (b *Builder) Any() Fragment {
	return b.Class(charset.AnyExceptNewline())
}

func (b *Builder) basic(cond MatchCondition) Fragment {
	b.byteClassSet.AddCharSet(cond.AsCharSet())
	id := b.alloc(StateBasic)
	b.states[id].Cond = cond
	return Fragment{Entry: id, Dangling: []Edge{{State: id, Slot: SlotOut}}}
}

// AnchorStart pushes a `^` fragment.
func (b *Builder) AnchorStart() Fragment {
	id := b.alloc(StateAnchorStart)
	return Fragment{Entry: id, Dangling: []Edge{{State: id, Slot: SlotOut}}}
}

// AnchorEnd pushes a `$` fragment.
func (b *Builder) AnchorEnd() Fragment {
	id := b.alloc(StateAnchorEnd)
	return Fragment{Entry: id, Dangling: []Edge{{State: id, Slot: SlotOut}}}
}

// Concat pops e2, e1 conceptually (the caller holds both) and patches all
// of e1's dangling edges to e2's entry.
func (b *Builder) Concat(e1, e2 Fragment) Fragment {
	b.PatchAll(e1.Dangling, e2.Entry)
	return Fragment{Entry: e1.Entry, Dangling: e2.Dangling}
}

// Alt builds Split(e1.entry, e2.entry) with the union of both dangling
// lists.
func (b *Builder) Alt(e1, e2 Fragment) Fragment {
	s := b.alloc(StateSplit)
	b.states[s].Out1 = e1.Entry
	b.states[s].Out2 = e2.Entry
	dangling := make([]Edge, 0, len(e1.Dangling)+len(e2.Dangling))
	dangling = append(dangling, e1.Dangling...)
	dangling = append(dangling, e2.Dangling...)
	return Fragment{Entry: s, Dangling: dangling}
}

// Optional builds Split(e.entry, nil); the split's second branch is the
// skip path and stays dangling alongside e's own dangling edges.
func (b *Builder) Optional(e Fragment) Fragment {
	s := b.alloc(StateSplit)
	b.states[s].Out1 = e.Entry
	dangling := make([]Edge, 0, len(e.Dangling)+1)
	dangling = append(dangling, e.Dangling...)
	dangling = append(dangling, Edge{State: s, Slot: SlotOut2})
	return Fragment{Entry: s, Dangling: dangling}
}

// UnboundedLoop builds the Kleene-style loop used for `*`, and for the
// loop copy appended after `m` mandatory copies when a Quant's upper bound
// is unbounded: allocate s = Split(e.entry, nil), patch e's dangling back
// to s, and expose only s's exit branch as dangling.
func (b *Builder) UnboundedLoop(e Fragment) Fragment {
	s := b.alloc(StateSplit)
	b.states[s].Out1 = e.Entry
	b.PatchAll(e.Dangling, s)
	return Fragment{Entry: s, Dangling: []Edge{{State: s, Slot: SlotOut2}}}
}

// AddMatch allocates a terminal Match state for ruleID. It has no
// outgoing edges.
func (b *Builder) AddMatch(ruleID int) StateID {
	id := b.alloc(StateMatch)
	b.states[id].RuleID = ruleID
	return id
}

// AddBoundary allocates a Boundary state tagging the main/trailing-context
// split for ruleID: a dedicated always-epsilon state, so subset
// construction can record the crossing per DFA state exactly like a Match.
func (b *Builder) AddBoundary(ruleID int) StateID {
	id := b.alloc(StateBoundary)
	b.states[id].RuleID = ruleID
	return id
}

// Clone performs a depth-first structural copy of every state reachable
// from frag.Entry, producing a fresh fragment with its own dangling list.
// Back-edges (loops already patched within the fragment) are preserved by
// recording each old->new mapping before recursing into a state's
// out-edges: the clone is a true structural copy, not a re-traversal.
func (b *Builder) Clone(frag Fragment) Fragment {
	mapping := make(map[StateID]StateID)

	var visit func(old StateID) StateID
	visit = func(old StateID) StateID {
		if old == InvalidState {
			return InvalidState
		}
		if nid, ok := mapping[old]; ok {
			return nid
		}
		oldState := b.states[old]
		newID := b.alloc(oldState.Kind)
		mapping[old] = newID

		switch oldState.Kind {
		case StateBasic:
			b.states[newID].Cond = oldState.Cond
			b.states[newID].Out = visit(oldState.Out)
		case StateSplit:
			out1 := visit(oldState.Out1)
			out2 := visit(oldState.Out2)
			b.states[newID].Out1 = out1
			b.states[newID].Out2 = out2
		case StateAnchorStart, StateAnchorEnd:
			b.states[newID].Out = visit(oldState.Out)
		case StateBoundary:
			b.states[newID].RuleID = oldState.RuleID
			b.states[newID].Out = visit(oldState.Out)
		case StateMatch:
			b.states[newID].RuleID = oldState.RuleID
		}
		return newID
	}

	newEntry := visit(frag.Entry)

	newDangling := make([]Edge, len(frag.Dangling))
	for i, e := range frag.Dangling {
		newDangling[i] = Edge{State: mapping[e.State], Slot: e.Slot}
	}

	return Fragment{Entry: newEntry, Dangling: newDangling}
}

// Combine builds the multi-rule root: a left-folded chain
// Split(r1, Split(r2, Split(r3, ...))) over the per-rule entry states, in
// rule order.
func Combine(b *Builder, entries []StateID) StateID {
	if len(entries) == 0 {
		return InvalidState
	}
	acc := entries[len(entries)-1]
	for i := len(entries) - 2; i >= 0; i-- {
		s := b.alloc(StateSplit)
		b.states[s].Out1 = entries[i]
		b.states[s].Out2 = acc
		acc = s
	}
	return acc
}
