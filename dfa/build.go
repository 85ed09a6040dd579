package dfa

import (
	"errors"

	"github.com/lexforge/lexforge/internal/sparse"
	"github.com/lexforge/lexforge/nfa"
)

// ErrTooManyStates is returned by BuildWithLimits when subset construction
// would produce more DFA states than Limits.MaxStates allows.
var ErrTooManyStates = errors.New("dfa: state count exceeds configured limit")

// ErrDeterminizationLimit is returned by BuildWithLimits when a single DFA
// state's NFA core would exceed Limits.DeterminizationLimit, the guard
// against exponential blow-up from constructs like bounded quantifiers
// with a large n.
var ErrDeterminizationLimit = errors.New("dfa: a DFA state's NFA core exceeds the configured determinization limit")

// Limits bounds subset construction. A zero Limits is unbounded.
type Limits struct {
	// MaxStates caps the number of DFA states Build may construct. 0
	// means unbounded.
	MaxStates int

	// DeterminizationLimit caps the number of NFA states in a single DFA
	// state's core. 0 means unbounded.
	DeterminizationLimit int
}

// closureResult is the outcome of ε-closing a seed set: the full closure
// (core), the trailing-context boundary rule ids crossed, and the raw
// out-edges of any AnchorStart/AnchorEnd reached (anchors are not
// traversed during closure; they are lifted into edge keys by the
// caller).
type closureResult struct {
	core       []nfa.StateID
	boundaries map[int]bool
	solSeeds   []nfa.StateID
	eolSeeds   []nfa.StateID
}

// closeEpsilon computes the ε-closure of seeds: Split branches and
// Boundary states are always traversed; AnchorStart/AnchorEnd are not
// traversed but their single out-edge is recorded for the caller to
// ε-close separately as a StartOfLine/EndOfLine pseudo-transition target.
//
// The returned core holds every state in the closure, anchors and
// boundaries included. Keying the memo on the whole closure (rather than
// only the byte-consuming states) keeps state-sets that differ in anchor
// or boundary content distinct, which the simulator's trailing-context
// bookkeeping depends on.
//
// visited is caller-owned and cleared on entry: subset construction calls
// closeEpsilon once per byte-class per DFA state, and reusing a single
// sparse.SparseSet sized to the NFA's state count (rather than allocating
// a fresh map each call) keeps that hot loop allocation-free.
func closeEpsilon(b *nfa.Builder, seeds []nfa.StateID, visited *sparse.SparseSet) closureResult {
	visited.Clear()
	res := closureResult{boundaries: make(map[int]bool)}

	var visit func(nfa.StateID)
	visit = func(id nfa.StateID) {
		if id == nfa.InvalidState || visited.Contains(uint32(id)) {
			return
		}
		visited.Insert(uint32(id))

		s := b.State(id)
		switch s.Kind {
		case nfa.StateSplit:
			visit(s.Out1)
			visit(s.Out2)
		case nfa.StateBoundary:
			res.boundaries[s.RuleID] = true
			visit(s.Out)
		case nfa.StateAnchorStart:
			res.solSeeds = append(res.solSeeds, s.Out)
		case nfa.StateAnchorEnd:
			res.eolSeeds = append(res.eolSeeds, s.Out)
		}
	}
	for _, id := range seeds {
		visit(id)
	}

	for _, v := range visited.Values() {
		res.core = append(res.core, nfa.StateID(v))
	}
	return res
}

func newState(id int, b *nfa.Builder, cr closureResult) *State {
	var matches []nfa.StateID
	for _, sid := range cr.core {
		if b.State(sid).Kind == nfa.StateMatch {
			matches = append(matches, sid)
		}
	}
	return &State{
		ID:          id,
		Core:        NewStateSet(cr.core),
		Matches:     NewStateSet(matches),
		Boundaries:  cr.boundaries,
		Transitions: make(map[InputCondition]*State),
		solSeeds:    cr.solSeeds,
		eolSeeds:    cr.eolSeeds,
	}
}

// Build runs subset construction over the NFA rooted at
// root, producing the pointer-graph DFA. It never bounds the result; use
// BuildWithLimits to guard against pathological rule sets.
func Build(b *nfa.Builder, root nfa.StateID) *DFA {
	d, _ := BuildWithLimits(b, root, Limits{})
	return d
}

// BuildWithLimits runs subset construction exactly like Build, but fails
// with ErrTooManyStates or ErrDeterminizationLimit if limits is exceeded
// instead of silently constructing an arbitrarily large DFA.
func BuildWithLimits(b *nfa.Builder, root nfa.StateID, limits Limits) (*DFA, error) {
	memo := make(map[string]*State)
	visited := sparse.NewSparseSet(uint32(b.Len()))

	startCR := closeEpsilon(b, []nfa.StateID{root}, visited)
	if err := checkDeterminizationLimit(startCR, limits); err != nil {
		return nil, err
	}
	startSet := NewStateSet(startCR.core)
	start := newState(0, b, startCR)
	memo[startSet.Key()] = start

	queue := []*State{start}
	nextID := 1
	var buildErr error

	// Relevant-byte optimization: the Builder accumulated a
	// byte-class partition from every Basic condition during Thompson
	// construction, so bytes no condition distinguishes share one
	// representative and one ε-closure per DFA state.
	classes := b.ByteClasses()

	getOrCreate := func(cr closureResult) *State {
		if buildErr != nil {
			return nil
		}
		set := NewStateSet(cr.core)
		if set.IsEmpty() {
			return nil
		}
		if existing, ok := memo[set.Key()]; ok {
			return existing
		}
		if err := checkDeterminizationLimit(cr, limits); err != nil {
			buildErr = err
			return nil
		}
		if limits.MaxStates > 0 && nextID >= limits.MaxStates {
			buildErr = ErrTooManyStates
			return nil
		}
		st := newState(nextID, b, cr)
		nextID++
		memo[set.Key()] = st
		queue = append(queue, st)
		return st
	}

	for len(queue) > 0 && buildErr == nil {
		d := queue[0]
		queue = queue[1:]

		targetByClass := make(map[byte]*State)
		seenClass := make(map[byte]bool)
		for i := 0; i < 256; i++ {
			byt := byte(i)
			cls := classes.Get(byt)
			if seenClass[cls] {
				continue
			}
			seenClass[cls] = true

			var moveSeeds []nfa.StateID
			for _, id := range d.Core.Ids() {
				s := b.State(id)
				if s.Kind == nfa.StateBasic && s.Cond.Matches(byt) {
					moveSeeds = append(moveSeeds, s.Out)
				}
			}
			if len(moveSeeds) == 0 {
				continue
			}
			target := getOrCreate(closeEpsilon(b, moveSeeds, visited))
			if target != nil {
				targetByClass[cls] = target
			}
		}
		for i := 0; i < 256; i++ {
			byt := byte(i)
			if target, ok := targetByClass[classes.Get(byt)]; ok {
				d.Transitions[ByteCond(byt)] = target
			}
		}

		// Anchor pseudo-edges target the closure of the current core PLUS
		// the anchor's continuation: taking a StartOfLine edge must not
		// discard states that did not care about the anchor, or a rule set
		// mixing `^a` with a plain `b` would lose `b` the moment the
		// simulator follows the start-of-line edge.
		if len(d.solSeeds) > 0 {
			seeds := append(append([]nfa.StateID{}, d.Core.Ids()...), d.solSeeds...)
			if target := getOrCreate(closeEpsilon(b, seeds, visited)); target != nil && target != d {
				d.Transitions[StartOfLine] = target
			}
		}
		if len(d.eolSeeds) > 0 {
			seeds := append(append([]nfa.StateID{}, d.Core.Ids()...), d.eolSeeds...)
			if target := getOrCreate(closeEpsilon(b, seeds, visited)); target != nil && target != d {
				d.Transitions[EndOfLine] = target
			}
		}
	}

	if buildErr != nil {
		return nil, buildErr
	}
	return &DFA{Start: start, Memo: memo}, nil
}

// checkDeterminizationLimit reports ErrDeterminizationLimit if cr's core
// exceeds limits.DeterminizationLimit (0 means unbounded).
func checkDeterminizationLimit(cr closureResult, limits Limits) error {
	if limits.DeterminizationLimit > 0 && len(cr.core) > limits.DeterminizationLimit {
		return ErrDeterminizationLimit
	}
	return nil
}
