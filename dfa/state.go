package dfa

import "github.com/lexforge/lexforge/nfa"

// State is one DFA state in the pointer-graph representation built by
// subset construction.
type State struct {
	ID int

	// Core is the full ε-closure this state represents, every NFA state
	// variant included. Anchors and boundaries stay in the set so that
	// closures differing only in zero-width content map to distinct DFA
	// states (see closeEpsilon).
	Core StateSet

	// Matches is the subset of Core that are Match states.
	Matches StateSet

	// Boundaries holds the rule ids for which this state "just finished
	// main" on the way into a trailing-context sub-NFA.
	Boundaries map[int]bool

	Transitions map[InputCondition]*State

	// solSeeds/eolSeeds are the raw (pre-closure) out-edges of every
	// AnchorStart/AnchorEnd reachable by ε from Core. They drive the
	// StartOfLine/EndOfLine pseudo-transitions built during construction.
	solSeeds []nfa.StateID
	eolSeeds []nfa.StateID
}

// MatchRuleIDs returns the rule ids accepted by this state, in no
// particular order (the simulator picks the minimum for tie-breaking).
func (s *State) MatchRuleIDs(b *nfa.Builder) []int {
	var ids []int
	for _, id := range s.Matches.Ids() {
		ids = append(ids, b.State(id).RuleID)
	}
	return ids
}

// DFA is the pointer-graph DFA produced by subset construction: a start
// state plus a memo table mapping every reachable StateSet to its DFA
// state, closed under transition.
type DFA struct {
	Start *State
	Memo  map[string]*State
}

// States returns every DFA state, ordered by ID.
func (d *DFA) States() []*State {
	out := make([]*State, len(d.Memo))
	for _, st := range d.Memo {
		out[st.ID] = st
	}
	return out
}
