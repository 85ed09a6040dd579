package dfa

import (
	"sort"

	"github.com/lexforge/lexforge/nfa"
)

// NormalizedState is one entry of a NormalizedDFA: a dense-integer-keyed
// view of a DFA state.
type NormalizedState struct {
	ID int

	// AcceptingRuleIDs holds every rule accepted at this state, sorted
	// ascending; the simulator reports the minimum on a length tie.
	AcceptingRuleIDs []int

	// Boundaries holds rule ids whose main regex just finished on
	// reaching this state, for the simulator's trailing-context
	// bookkeeping.
	Boundaries []int

	Transitions map[InputCondition]int
}

// NormalizedDFA is the dense transition table consumed by the simulator
// and, downstream, by code generation.
type NormalizedDFA struct {
	StartID int
	States  map[int]*NormalizedState

	// MatchRules maps every rule id that can accept to its priority.
	// Priority equals the rule id itself: rule ids are the 1-based
	// source order and the tie-breaker is "smallest id wins", so no
	// separate priority assignment is needed.
	MatchRules map[int]int
}

// Normalize converts a pointer-graph DFA into its dense NormalizedDFA
// form.
func Normalize(b *nfa.Builder, d *DFA) *NormalizedDFA {
	states := make(map[int]*NormalizedState, len(d.Memo))
	matchRules := make(map[int]int)

	for _, st := range d.States() {
		ruleIDs := st.MatchRuleIDs(b)
		for _, rid := range ruleIDs {
			matchRules[rid] = rid
		}
		sort.Ints(ruleIDs)

		var boundaries []int
		for rid := range st.Boundaries {
			boundaries = append(boundaries, rid)
		}
		sort.Ints(boundaries)

		transitions := make(map[InputCondition]int, len(st.Transitions))
		for cond, target := range st.Transitions {
			transitions[cond] = target.ID
		}

		states[st.ID] = &NormalizedState{
			ID:               st.ID,
			AcceptingRuleIDs: ruleIDs,
			Boundaries:       boundaries,
			Transitions:      transitions,
		}
	}

	return &NormalizedDFA{
		StartID:    d.Start.ID,
		States:     states,
		MatchRules: matchRules,
	}
}
