// Package lexforge is the regex/DFA core of a lex/flex-style
// lexical-analyzer generator: it compiles a set of per-rule regexes into a
// single combined DFA and simulates it against input to find the longest
// match and the identity of the winning rule.
//
// The surrounding lex-source parser (sections, macro expansion,
// start-condition declarations, action blocks) and the downstream code
// generator are out of scope here; lexforge receives already-expanded
// regex strings via Rule and hands back a NormalizedDFA for the generator
// to serialize.
package lexforge

import (
	"errors"
	"fmt"

	"github.com/lexforge/lexforge/dfa"
	"github.com/lexforge/lexforge/nfa"
	"github.com/lexforge/lexforge/postfix"
	"github.com/lexforge/lexforge/simulate"
	"github.com/lexforge/lexforge/token"
)

// Rule is one lexer rule, in the already-macro-expanded form the external
// lex-source parser is responsible for producing: wherever Regex contained `{NAME}`, the parser must already have replaced
// it with `(expansion)` including the surrounding parentheses.
type Rule struct {
	// ID is the rule's 1-based source order; it is the tie-breaker when
	// multiple rules accept the same prefix length.
	ID int

	// Regex is the main pattern, already macro-expanded.
	Regex string

	// Trailing is the trailing-context pattern for the `r/s` operator, or
	// empty if the rule has none.
	Trailing string

	// StartConditions names the start conditions under which this rule is
	// active. The core does not interpret start conditions; they pass
	// through for the external parser and emitter to act on.
	StartConditions map[string]bool
}

// ErrNoRules is returned by CompileRules when given an empty rule list.
var ErrNoRules = errors.New("lexforge: no rules given")

// CompileError wraps a build-time failure with the id of the rule that
// produced it.
type CompileError struct {
	RuleID int
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("lexforge: rule %d: %v", e.RuleID, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// CompiledLexer is the output of CompileRules: a normalized DFA plus the
// literal prefilter (if any) that lets Simulate skip DFA walking entirely
// for rule sets made up only of reserved words (see simulate/prefilter.go).
type CompiledLexer struct {
	DFA *dfa.NormalizedDFA

	prefilter  *simulate.LiteralPrefilter
	allLiteral bool
}

// Simulate runs the compiled lexer against input, returning the longest
// match and winning rule, or nil for NoMatch.
func (l *CompiledLexer) Simulate(input []byte, atStartOfLine bool) *simulate.MatchReport {
	return simulate.SimulateWithPrefilter(l.DFA, l.prefilter, l.allLiteral, input, atStartOfLine)
}

// CompileRules runs the full pipeline — tokenize, insert concatenation,
// shunting-yard to postfix, Thompson NFA, combine, subset construction,
// normalize — over rules, with default Config limits.
func CompileRules(rules []Rule) (*CompiledLexer, error) {
	return CompileRulesWithConfig(rules, DefaultConfig())
}

// CompileRulesWithConfig is CompileRules with an explicit Config, bounding
// determinization per cfg.MaxDFAStates/cfg.DeterminizationLimit.
func CompileRulesWithConfig(rules []Rule, cfg Config) (*CompiledLexer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	c := nfa.NewCompiler()
	entries := make([]nfa.StateID, 0, len(rules))
	var literalRules []simulate.LiteralRule

	for _, r := range rules {
		entry, err := compileOneRule(c, r)
		if err != nil {
			return nil, &CompileError{RuleID: r.ID, Err: err}
		}
		entries = append(entries, entry)

		if r.Trailing == "" {
			if lit, ok := simulate.ExtractLiteral(r.Regex); ok {
				literalRules = append(literalRules, simulate.LiteralRule{ID: r.ID, Literal: lit})
			}
		}
	}

	root := nfa.Combine(c.Builder, entries)
	d, err := dfa.BuildWithLimits(c.Builder, root, dfa.Limits{
		MaxStates:            cfg.MaxDFAStates,
		DeterminizationLimit: cfg.DeterminizationLimit,
	})
	if err != nil {
		return nil, err
	}

	// The prefilter fast path only answers for rule sets made entirely of
	// literals; a mixed set always needs the DFA walk, so skip building
	// the automaton it would never consult.
	allLiteral := len(literalRules) == len(rules)
	var pf *simulate.LiteralPrefilter
	if allLiteral {
		pf, err = simulate.BuildLiteralPrefilter(literalRules)
		if err != nil {
			return nil, err
		}
	}

	return &CompiledLexer{
		DFA:        dfa.Normalize(c.Builder, d),
		prefilter:  pf,
		allLiteral: allLiteral,
	}, nil
}

// MustCompileRules is like CompileRules but panics on error, for call
// sites that already know their rule set is well-formed (e.g. tests, or
// rules embedded in a generated lexer's source rather than read at
// runtime).
func MustCompileRules(rules []Rule) *CompiledLexer {
	l, err := CompileRules(rules)
	if err != nil {
		panic(err)
	}
	return l
}

// compileOneRule tokenizes, inserts concatenation, and runs shunting-yard
// over a single rule's regex (plus its trailing-context pattern, if any,
// joined with the `/` operator so postfix.ToPostfix's existing trailing
// split handles both in one pass), then hands the resulting postfix
// stream(s) to the NFA compiler.
func compileOneRule(c *nfa.Compiler, r Rule) (nfa.StateID, error) {
	src := r.Regex
	if r.Trailing != "" {
		src = src + "/" + r.Trailing
	}

	toks, err := token.Scan(src)
	if err != nil {
		return nfa.InvalidState, err
	}
	res, err := postfix.ToPostfix(token.InsertConcat(toks))
	if err != nil {
		return nfa.InvalidState, err
	}
	return c.CompileRule(r.ID, res.Main, res.Trailing)
}

// CompileSingle compiles one standalone regex into an NFA fragment,
// without combining or determinizing it, a convenience for exercising
// Thompson construction alone. The returned Builder owns the fragment's
// states.
func CompileSingle(regex string, ruleID int) (*nfa.Builder, nfa.Fragment, error) {
	toks, err := token.Scan(regex)
	if err != nil {
		return nil, nfa.Fragment{}, err
	}
	res, err := postfix.ToPostfix(token.InsertConcat(toks))
	if err != nil {
		return nil, nfa.Fragment{}, err
	}

	c := nfa.NewCompiler()
	frag, err := c.CompileFragment(res.Main)
	if err != nil {
		return nil, nfa.Fragment{}, err
	}
	return c.Builder, frag, nil
}

// Normalize exposes normalization alone, for inspection of a
// pointer-graph DFA built directly via dfa.Build.
func Normalize(b *nfa.Builder, d *dfa.DFA) *dfa.NormalizedDFA {
	return dfa.Normalize(b, d)
}
