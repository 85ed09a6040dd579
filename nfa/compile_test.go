package nfa

import (
	"testing"

	"github.com/lexforge/lexforge/charset"
	"github.com/lexforge/lexforge/postfix"
	"github.com/lexforge/lexforge/token"
)

// toPostfix is a small end-to-end helper chaining the tokenizer and
// shunting-yard stages, used so these tests exercise realistic input.
func toPostfix(t *testing.T, src string) postfix.Result {
	t.Helper()
	toks, err := token.Scan(src)
	if err != nil {
		t.Fatalf("Scan(%q): %v", src, err)
	}
	res, err := postfix.ToPostfix(token.InsertConcat(toks))
	if err != nil {
		t.Fatalf("ToPostfix(%q): %v", src, err)
	}
	return res
}

// accepts runs a minimal Thompson-style simulation directly over the
// builder's arena: ε-closure (treating AnchorStart/AnchorEnd and Boundary
// as always-taken, since these tests never probe anchors or trailing
// context) followed by byte-stepping. It exists to give these low-level
// construction tests real behavioral coverage ahead of the DFA/simulate
// packages.
func accepts(b *Builder, start StateID, input string) bool {
	closure := func(states []StateID) []StateID {
		seen := make(map[StateID]bool)
		var out []StateID
		var visit func(StateID)
		visit = func(id StateID) {
			if id == InvalidState || seen[id] {
				return
			}
			seen[id] = true
			s := b.states[id]
			switch s.Kind {
			case StateSplit:
				visit(s.Out1)
				visit(s.Out2)
			case StateAnchorStart, StateAnchorEnd, StateBoundary:
				visit(s.Out)
			default:
				out = append(out, id)
			}
		}
		for _, id := range states {
			visit(id)
		}
		return out
	}

	current := closure([]StateID{start})
	isMatch := func(states []StateID) bool {
		for _, id := range states {
			if b.states[id].Kind == StateMatch {
				return true
			}
		}
		return false
	}

	if len(input) == 0 {
		return isMatch(current)
	}

	for i := 0; i < len(input); i++ {
		byt := input[i]
		var next []StateID
		for _, id := range current {
			s := b.states[id]
			if s.Kind == StateBasic && s.Cond.Matches(byt) {
				next = append(next, s.Out)
			}
		}
		current = closure(next)
		if len(current) == 0 {
			return false
		}
	}
	return isMatch(current)
}

func compileOne(t *testing.T, src string) (*Builder, StateID) {
	t.Helper()
	res := toPostfix(t, src)
	c := NewCompiler()
	entry, err := c.CompileRule(1, res.Main, nil)
	if err != nil {
		t.Fatalf("CompileRule(%q): %v", src, err)
	}
	return c.Builder, entry
}

func TestCompileFragment_Literal(t *testing.T) {
	b, entry := compileOne(t, "a")
	if !accepts(b, entry, "a") {
		t.Error("expected match on \"a\"")
	}
	if accepts(b, entry, "b") {
		t.Error("expected no match on \"b\"")
	}
}

func TestCompileFragment_Concat(t *testing.T) {
	b, entry := compileOne(t, "abc")
	if !accepts(b, entry, "abc") {
		t.Error("expected match on \"abc\"")
	}
	if accepts(b, entry, "ab") {
		t.Error("expected no match on \"ab\" (incomplete)")
	}
}

func TestCompileFragment_Alternation(t *testing.T) {
	b, entry := compileOne(t, "cat|dog")
	for _, in := range []string{"cat", "dog"} {
		if !accepts(b, entry, in) {
			t.Errorf("expected match on %q", in)
		}
	}
	if accepts(b, entry, "cow") {
		t.Error("expected no match on \"cow\"")
	}
}

func TestCompileFragment_Optional(t *testing.T) {
	b, entry := compileOne(t, "ab?c")
	for _, in := range []string{"ac", "abc"} {
		if !accepts(b, entry, in) {
			t.Errorf("expected match on %q", in)
		}
	}
	if accepts(b, entry, "abbc") {
		t.Error("expected no match on \"abbc\"")
	}
}

func TestCompileFragment_Star(t *testing.T) {
	b, entry := compileOne(t, "ab*c")
	for _, in := range []string{"ac", "abc", "abbbbc"} {
		if !accepts(b, entry, in) {
			t.Errorf("expected match on %q", in)
		}
	}
}

func TestCompileFragment_Plus(t *testing.T) {
	b, entry := compileOne(t, "ab+c")
	if accepts(b, entry, "ac") {
		t.Error("expected no match on \"ac\" (+ requires at least one)")
	}
	for _, in := range []string{"abc", "abbbc"} {
		if !accepts(b, entry, in) {
			t.Errorf("expected match on %q", in)
		}
	}
}

func TestCompileFragment_Class(t *testing.T) {
	b, entry := compileOne(t, "[0-9]+")
	for _, in := range []string{"1", "42", "007"} {
		if !accepts(b, entry, in) {
			t.Errorf("expected match on %q", in)
		}
	}
	if accepts(b, entry, "a") {
		t.Error("expected no match on \"a\"")
	}
}

func TestCompileFragment_BoundedQuant(t *testing.T) {
	b, entry := compileOne(t, "a{2,4}")
	if accepts(b, entry, "a") {
		t.Error("expected no match on single \"a\" (min 2)")
	}
	for _, in := range []string{"aa", "aaa", "aaaa"} {
		if !accepts(b, entry, in) {
			t.Errorf("expected match on %q", in)
		}
	}
}

func TestCompileFragment_ExactQuant(t *testing.T) {
	b, entry := compileOne(t, "a{3}")
	if !accepts(b, entry, "aaa") {
		t.Error("expected match on \"aaa\"")
	}
	if accepts(b, entry, "aa") {
		t.Error("expected no match on \"aa\"")
	}
}

func TestCompileFragment_Grouping(t *testing.T) {
	b, entry := compileOne(t, "(ab)+")
	for _, in := range []string{"ab", "abab", "ababab"} {
		if !accepts(b, entry, in) {
			t.Errorf("expected match on %q", in)
		}
	}
	if accepts(b, entry, "aba") {
		t.Error("expected no match on \"aba\"")
	}
}

func TestCompileFragment_MalformedExpression(t *testing.T) {
	c := NewCompiler()
	_, err := c.CompileFragment([]token.Token{{Kind: token.Concat}})
	if err == nil {
		t.Fatal("expected MalformedExpression error")
	}
	nerr, ok := err.(*Error)
	if !ok || nerr.Kind != MalformedExpression {
		t.Errorf("got %v, want MalformedExpression", err)
	}
}

func TestClone_PreservesBackEdges(t *testing.T) {
	// Build a small looping fragment (x*) then clone it, and check the
	// clone's loop still cycles back to its own (distinct) entry rather
	// than the original's.
	b := NewBuilder()
	lit := b.Literal('x')
	loop := b.UnboundedLoop(lit)

	clone := b.Clone(loop)
	if clone.Entry == loop.Entry {
		t.Fatal("clone should allocate fresh states, not reuse the original entry")
	}

	matchID := b.AddMatch(1)
	b.PatchAll(clone.Dangling, matchID)

	if !accepts(b, clone.Entry, "xxxx") {
		t.Error("expected cloned loop to accept \"xxxx\"")
	}
	if !accepts(b, clone.Entry, "") {
		t.Error("expected cloned loop to accept empty input (zero repetitions)")
	}
}

func TestCombine_RuleOrderAndTieBreak(t *testing.T) {
	b := NewBuilder()
	c := &Compiler{Builder: b}

	res1 := toPostfix(t, "ab")
	e1, err := c.CompileRule(1, res1.Main, nil)
	if err != nil {
		t.Fatal(err)
	}
	res2 := toPostfix(t, "abc")
	e2, err := c.CompileRule(2, res2.Main, nil)
	if err != nil {
		t.Fatal(err)
	}

	root := Combine(b, []StateID{e1, e2})
	if !accepts(b, root, "ab") {
		t.Error("expected combined NFA to accept \"ab\"")
	}
	if !accepts(b, root, "abc") {
		t.Error("expected combined NFA to accept \"abc\"")
	}
	if accepts(b, root, "a") {
		t.Error("expected combined NFA to reject \"a\"")
	}
}

func TestCompileRule_TrailingContextBoundary(t *testing.T) {
	mainRes := toPostfix(t, "a")
	trailRes := toPostfix(t, "b")

	c := NewCompiler()
	entry, err := c.CompileRule(1, mainRes.Main, trailRes.Main)
	if err != nil {
		t.Fatal(err)
	}

	// The full main+trailing NFA should accept "ab" (a followed by b).
	if !accepts(c.Builder, entry, "ab") {
		t.Error("expected \"ab\" to be accepted through the trailing-context boundary")
	}
	if accepts(c.Builder, entry, "a") {
		t.Error("expected \"a\" alone to be rejected: trailing context requires \"b\" too")
	}

	foundBoundary := false
	for i := 0; i < c.Builder.Len(); i++ {
		if c.Builder.State(StateID(i)).Kind == StateBoundary {
			foundBoundary = true
		}
	}
	if !foundBoundary {
		t.Error("expected a Boundary state to be allocated for the trailing-context rule")
	}
}

func TestAnyExcludesNewline(t *testing.T) {
	cond := ClassCondition(charset.AnyExceptNewline())
	if cond.Matches('\n') {
		t.Error("Any must not match '\\n'")
	}
	if !cond.Matches('x') {
		t.Error("Any must match ordinary bytes")
	}
}
