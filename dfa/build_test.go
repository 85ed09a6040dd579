package dfa

import (
	"testing"

	"github.com/lexforge/lexforge/nfa"
	"github.com/lexforge/lexforge/postfix"
	"github.com/lexforge/lexforge/token"
)

func compileDFA(t *testing.T, specs ...string) (*nfa.Builder, *DFA) {
	t.Helper()
	c := nfa.NewCompiler()
	var entries []nfa.StateID
	for i, src := range specs {
		toks, err := token.Scan(src)
		if err != nil {
			t.Fatalf("Scan(%q): %v", src, err)
		}
		res, err := postfix.ToPostfix(token.InsertConcat(toks))
		if err != nil {
			t.Fatalf("ToPostfix(%q): %v", src, err)
		}
		entry, err := c.CompileRule(i+1, res.Main, res.Trailing)
		if err != nil {
			t.Fatalf("CompileRule(%q): %v", src, err)
		}
		entries = append(entries, entry)
	}
	root := nfa.Combine(c.Builder, entries)
	return c.Builder, Build(c.Builder, root)
}

// walk simulates the normalized table directly (without anchor/trailing
// handling) to sanity-check subset construction's byte transitions.
func walk(nd *NormalizedDFA, input string) (matched bool, ruleID int) {
	state := nd.States[nd.StartID]
	lastRule := -1
	record := func(s *NormalizedState) {
		if len(s.AcceptingRuleIDs) > 0 {
			lastRule = s.AcceptingRuleIDs[0]
		}
	}
	record(state)
	for i := 0; i < len(input); i++ {
		target, ok := state.Transitions[ByteCond(input[i])]
		if !ok {
			break
		}
		state = nd.States[target]
		record(state)
	}
	return lastRule != -1, lastRule
}

func TestBuild_SingleRule(t *testing.T) {
	b, d := compileDFA(t, "[0-9]+")
	nd := Normalize(b, d)

	ok, rule := walk(nd, "123abc")
	if !ok || rule != 1 {
		t.Fatalf("got (%v,%d), want (true,1)", ok, rule)
	}
	if ok, _ := walk(nd, "abc"); ok {
		t.Fatal("expected no match")
	}
}

func TestBuild_MultiRuleLongestMatchTieBreak(t *testing.T) {
	b, d := compileDFA(t, "ab", "abc")
	nd := Normalize(b, d)

	if ok, rule := walk(nd, "abc"); !ok || rule != 2 {
		t.Fatalf("got (%v,%d), want (true,2)", ok, rule)
	}
	if ok, rule := walk(nd, "ab"); !ok || rule != 1 {
		t.Fatalf("got (%v,%d), want (true,1)", ok, rule)
	}
}

func TestBuild_MemoDeduplicatesIdenticalStateSets(t *testing.T) {
	// "a|a" ought to collapse to the same DFA state count as "a" for the
	// shared post-'a' state, exercising StateSet canonicalization.
	b, d := compileDFA(t, "a|a")
	nd := Normalize(b, d)
	if len(nd.States) == 0 {
		t.Fatal("expected at least one state")
	}
	if ok, rule := walk(nd, "a"); !ok || rule != 1 {
		t.Fatalf("got (%v,%d), want (true,1)", ok, rule)
	}
}

func TestBuild_AnchorsProducePseudoEdges(t *testing.T) {
	b, d := compileDFA(t, "^a$")
	nd := Normalize(b, d)

	start := nd.States[nd.StartID]
	if _, ok := start.Transitions[StartOfLine]; !ok {
		t.Fatal("expected a StartOfLine pseudo-edge on the start state")
	}

	afterSOL := nd.States[start.Transitions[StartOfLine]]
	target, ok := afterSOL.Transitions[ByteCond('a')]
	if !ok {
		t.Fatal("expected a byte edge for 'a' after StartOfLine")
	}
	afterA := nd.States[target]
	if _, ok := afterA.Transitions[EndOfLine]; !ok {
		t.Fatal("expected an EndOfLine pseudo-edge after consuming 'a'")
	}
}

func TestBuild_TrailingContextBoundaryCarried(t *testing.T) {
	b, d := compileDFA(t, "a/b")
	nd := Normalize(b, d)

	start := nd.States[nd.StartID]
	afterA, ok := start.Transitions[ByteCond('a')]
	if !ok {
		t.Fatal("expected a byte edge for 'a'")
	}
	st := nd.States[afterA]
	found := false
	for _, rid := range st.Boundaries {
		if rid == 1 {
			found = true
		}
	}
	if !found {
		t.Error("expected rule 1's boundary to be recorded after consuming 'a'")
	}
}
