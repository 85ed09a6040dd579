package simulate

import (
	"bytes"

	"github.com/coregx/ahocorasick"
	"github.com/lexforge/lexforge/dfa"
	"github.com/lexforge/lexforge/token"
)

// LiteralRule is the minimal shape BuildLiteralPrefilter and
// LiteralPrefilter.Match need: a rule id paired with the exact byte run it
// matches.
type LiteralRule struct {
	ID      int
	Literal []byte
}

// ExtractLiteral reports whether src (an already-macro-expanded regex
// string) reduces to a single literal byte run with no metacharacters —
// no classes, anchors, alternation, quantifiers, or trailing context. Rule
// sets made entirely of such rules are the common case for reserved-word
// scanners and are the only ones BuildLiteralPrefilter can accelerate.
func ExtractLiteral(src string) ([]byte, bool) {
	toks, err := token.Scan(src)
	if err != nil || len(toks) == 0 {
		return nil, false
	}
	lit := make([]byte, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.Literal {
			return nil, false
		}
		lit = append(lit, t.Literal)
	}
	return lit, true
}

// LiteralPrefilter wraps an Aho-Corasick automaton built over every rule in
// a set whose regex is a pure literal run: a lexer rule set commonly
// contains many purely-literal rules (keywords), and multi-pattern matching
// over all of them at once beats walking a DFA one byte at a time for the
// common "does anything match here" check.
type LiteralPrefilter struct {
	automaton *ahocorasick.Automaton
	rules     []LiteralRule
}

// BuildLiteralPrefilter builds a LiteralPrefilter over rules. It returns
// (nil, nil) if rules is empty — there is nothing to prefilter.
func BuildLiteralPrefilter(rules []LiteralRule) (*LiteralPrefilter, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	builder := ahocorasick.NewBuilder()
	for _, r := range rules {
		builder.AddPattern(r.Literal)
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &LiteralPrefilter{automaton: automaton, rules: rules}, nil
}

// Match reports the longest-match-with-lowest-rule-id-tiebreak literal
// rule starting at position 0 of input, or nil if none of p's rules match
// there. It first asks the automaton whether any pattern occurs anywhere
// in input at all; when the rule set is read over mostly non-keyword text
// (the common case) that single O(n) scan usually says no and the
// per-rule comparison below is skipped entirely. A non-nil automaton
// answer only proves *some* pattern occurs *somewhere*, so the exact
// position-0 winner still has to be picked by direct comparison against
// the (typically small) literal rule list.
func (p *LiteralPrefilter) Match(input []byte) *MatchReport {
	if p == nil {
		return nil
	}
	if p.automaton.Find(input, 0) == nil {
		return nil
	}

	var best *MatchReport
	for _, r := range p.rules {
		if len(r.Literal) > len(input) {
			continue
		}
		if !bytes.Equal(input[:len(r.Literal)], r.Literal) {
			continue
		}
		length := len(r.Literal)
		if best == nil || length > best.Length || (length == best.Length && r.ID < best.RuleID) {
			best = &MatchReport{RuleID: r.ID, Length: length}
		}
	}
	return best
}

// SimulateWithPrefilter is the simulator entry point used when a compiled
// rule set's literal prefilter is available: when allLiteral holds (every
// rule in the set reduced to a pure literal), pf.Match alone gives the
// same answer the DFA walk would, faster. Otherwise it falls back to the
// full DFA simulation in Simulate, which is the only path that
// understands anchors and trailing context.
func SimulateWithPrefilter(nd *dfa.NormalizedDFA, pf *LiteralPrefilter, allLiteral bool, input []byte, atStartOfLine bool) *MatchReport {
	if allLiteral && pf != nil {
		return pf.Match(input)
	}
	return Simulate(nd, input, atStartOfLine)
}
