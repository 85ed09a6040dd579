// Package simulate implements stage 8 of the lexforge pipeline: walking a
// NormalizedDFA against an input byte string to find the longest accepting
// prefix and the identity of the winning rule.
package simulate

import "github.com/lexforge/lexforge/dfa"

// MatchReport is the result of a successful Simulate call: the winning
// rule and the number of bytes consumed from the start of input.
type MatchReport struct {
	RuleID int
	Length int
}

// Simulate runs the normalized DFA against input starting at position 0,
// honoring start/end-of-line anchors and trailing-context boundaries, and
// returns the longest accepting prefix's match report, or nil for
// NoMatch.
//
// atStartOfLine is true at stream start or immediately after a '\n';
// Simulate re-derives it internally after every consumed byte so a
// multi-line input still anchors correctly past the first '\n'.
func Simulate(nd *dfa.NormalizedDFA, input []byte, atStartOfLine bool) *MatchReport {
	state := nd.States[nd.StartID]
	boundaryPos := make(map[int]int)
	var best *MatchReport
	pos := 0
	atSOL := atStartOfLine

	recordBoundary(state, pos, boundaryPos)

	for {
		if atSOL {
			state = takeAnchor(nd, state, dfa.StartOfLine, pos, boundaryPos)
		}
		if pos == len(input) || input[pos] == '\n' {
			state = takeAnchor(nd, state, dfa.EndOfLine, pos, boundaryPos)
		}
		recordAccept(state, pos, boundaryPos, &best)

		if pos >= len(input) {
			break
		}
		b := input[pos]
		targetID, ok := state.Transitions[dfa.ByteCond(b)]
		if !ok {
			break
		}
		state = nd.States[targetID]
		pos++
		atSOL = b == '\n'
		recordBoundary(state, pos, boundaryPos)
	}

	return best
}

// takeAnchor follows zero-width pseudo-transitions keyed by cond
// (StartOfLine or EndOfLine) until none remain. Visited ids are tracked so
// a malformed DFA with a pseudo-transition cycle cannot loop forever; a
// well-formed DFA never needs more than a handful of hops, since each hop
// reaches a new DFA state and there are finitely many.
func takeAnchor(nd *dfa.NormalizedDFA, state *dfa.NormalizedState, cond dfa.InputCondition, pos int, boundaryPos map[int]int) *dfa.NormalizedState {
	visited := map[int]bool{state.ID: true}
	for {
		targetID, ok := state.Transitions[cond]
		if !ok || visited[targetID] {
			return state
		}
		state = nd.States[targetID]
		visited[targetID] = true
		recordBoundary(state, pos, boundaryPos)
	}
}

// recordBoundary snapshots the position at which each rule id in
// state.Boundaries crosses its main/trailing-context split. The latest
// crossing wins: for a variable-length main like `ab*/c`, every consumed
// `b` is a fresh place the main subexpression could have ended, and the
// Match that eventually fires belongs to the most recent one.
func recordBoundary(state *dfa.NormalizedState, pos int, boundaryPos map[int]int) {
	for _, rid := range state.Boundaries {
		boundaryPos[rid] = pos
	}
}

// recordAccept updates best with every rule accepting at state, reporting
// the rule's main-boundary position in place of pos when the rule carries
// trailing context, and applying maximum-munch-with-lowest-rule-id
// tie-breaking.
func recordAccept(state *dfa.NormalizedState, pos int, boundaryPos map[int]int, best **MatchReport) {
	for _, rid := range state.AcceptingRuleIDs {
		length := pos
		if bp, ok := boundaryPos[rid]; ok {
			length = bp
		}
		if *best == nil || length > (*best).Length || (length == (*best).Length && rid < (*best).RuleID) {
			*best = &MatchReport{RuleID: rid, Length: length}
		}
	}
}
