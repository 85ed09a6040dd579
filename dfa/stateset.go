// Package dfa implements stages 6 and 7 of the lexforge pipeline: subset
// construction of a DFA from a combined NFA and normalization into a
// dense, serializable transition table.
package dfa

import (
	"sort"
	"strings"

	"github.com/lexforge/lexforge/nfa"
)

// StateSet is a deduplicated collection of NFA states with a canonical
// hash/equality (so identical ε-closures share one DFA state) and
// insertion-order iteration (for deterministic construction order).
type StateSet struct {
	order []nfa.StateID
	key   string
}

// NewStateSet builds a StateSet from a list of NFA state ids, deduplicating
// while preserving first-seen order and computing a canonical key from the
// sorted-unique representation.
func NewStateSet(ids []nfa.StateID) StateSet {
	seen := make(map[nfa.StateID]bool, len(ids))
	order := make([]nfa.StateID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}

	sorted := make([]nfa.StateID, len(order))
	copy(sorted, order)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sb strings.Builder
	sb.Grow(len(sorted) * 4)
	for _, id := range sorted {
		sb.WriteByte(byte(id))
		sb.WriteByte(byte(id >> 8))
		sb.WriteByte(byte(id >> 16))
		sb.WriteByte(byte(id >> 24))
	}

	return StateSet{order: order, key: sb.String()}
}

// Key returns the canonical string key used for memoization. Two
// StateSets with the same membership always produce the same Key,
// regardless of insertion order.
func (s StateSet) Key() string {
	return s.key
}

// Ids returns the set's members in first-seen (insertion) order.
func (s StateSet) Ids() []nfa.StateID {
	return s.order
}

// Len returns the number of members.
func (s StateSet) Len() int {
	return len(s.order)
}

// IsEmpty reports whether the set has no members.
func (s StateSet) IsEmpty() bool {
	return len(s.order) == 0
}

// Equal reports whether two StateSets have identical membership.
func (s StateSet) Equal(other StateSet) bool {
	return s.key == other.key
}
