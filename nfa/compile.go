package nfa

import "github.com/lexforge/lexforge/token"

// Compiler drives Thompson construction over one or more rules, sharing a
// single Builder arena across all of them so Combine can later fold every
// rule's entry state into one NFA.
type Compiler struct {
	Builder *Builder
}

// NewCompiler creates a Compiler with a fresh Builder.
func NewCompiler() *Compiler {
	return &Compiler{Builder: NewBuilder()}
}

// CompileFragment runs the postfix fragment stack machine over a single
// postfix token stream and returns the resulting (unterminated) fragment.
func (c *Compiler) CompileFragment(postfix []token.Token) (Fragment, error) {
	b := c.Builder
	var stack []Fragment

	pop := func() (Fragment, error) {
		if len(stack) == 0 {
			return Fragment{}, &Error{Kind: MalformedExpression, Message: "fragment stack underflow"}
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top, nil
	}

	for _, tok := range postfix {
		switch tok.Kind {
		case token.Literal:
			stack = append(stack, b.Literal(tok.Literal))
		case token.Class:
			stack = append(stack, b.Class(tok.Class))
		case token.Any:
			stack = append(stack, b.Any())
		case token.AnchorStart:
			e, err := pop()
			if err != nil {
				return Fragment{}, err
			}
			stack = append(stack, c.wrapAnchorStart(e))
		case token.AnchorEnd:
			e, err := pop()
			if err != nil {
				return Fragment{}, err
			}
			stack = append(stack, c.wrapAnchorEnd(e))
		case token.Concat:
			e2, err := pop()
			if err != nil {
				return Fragment{}, err
			}
			e1, err := pop()
			if err != nil {
				return Fragment{}, err
			}
			stack = append(stack, b.Concat(e1, e2))
		case token.Alt:
			e2, err := pop()
			if err != nil {
				return Fragment{}, err
			}
			e1, err := pop()
			if err != nil {
				return Fragment{}, err
			}
			stack = append(stack, b.Alt(e1, e2))
		case token.Optional:
			e, err := pop()
			if err != nil {
				return Fragment{}, err
			}
			stack = append(stack, b.Optional(e))
		case token.Quant:
			e, err := pop()
			if err != nil {
				return Fragment{}, err
			}
			stack = append(stack, c.unrollQuant(e, tok.Min, tok.Max))
		default:
			return Fragment{}, &Error{Kind: MalformedExpression, Message: "unexpected token " + tok.String() + " in postfix stream"}
		}
	}

	if len(stack) != 1 {
		return Fragment{}, &Error{Kind: MalformedExpression, Message: "more than one fragment remains"}
	}
	return stack[0], nil
}

// wrapAnchorStart implements the `AnchorStart` unary-operator resolution:
// in the shunting-yard output, AnchorStart trails its single operand (it
// is a prefix operator in infix notation but, like every unary operator,
// appears after its operand once converted to postfix). Thompson
// construction pops that operand e and concatenates a fresh anchor
// fragment in front of it.
func (c *Compiler) wrapAnchorStart(e Fragment) Fragment {
	b := c.Builder
	return b.Concat(b.AnchorStart(), e)
}

// wrapAnchorEnd pops e and concatenates an AnchorEnd fragment after it.
func (c *Compiler) wrapAnchorEnd(e Fragment) Fragment {
	b := c.Builder
	return b.Concat(e, b.AnchorEnd())
}

// unrollQuant expands {m,n} structurally: m mandatory copies of e chained
// by concatenation, then either one unbounded loop copy (n ==
// token.Unbounded) or (n-m) optional copies.
func (c *Compiler) unrollQuant(e Fragment, m, n int) Fragment {
	b := c.Builder

	needed := m
	if n == token.Unbounded {
		needed++
	} else {
		needed += n - m
	}

	if needed == 0 {
		// m == 0, n == 0: the quantifier matches only the empty string.
		// Synthesize an always-dangling empty fragment via a Split whose
		// two branches both stay open, so Concat with whatever follows
		// is a true no-op.
		s := b.alloc(StateSplit)
		return Fragment{Entry: s, Dangling: []Edge{{State: s, Slot: SlotOut1}, {State: s, Slot: SlotOut2}}}
	}

	// Every clone must be taken from the pristine fragment before any copy
	// is chained: Concat patches the left side's dangling edges, and a
	// clone taken after that would traverse into the already-attached copy.
	copies := make([]Fragment, needed)
	copies[0] = e
	for i := 1; i < needed; i++ {
		copies[i] = b.Clone(e)
	}

	var result Fragment
	haveResult := false
	appendCopy := func(f Fragment) {
		if !haveResult {
			result = f
			haveResult = true
			return
		}
		result = b.Concat(result, f)
	}

	for i := 0; i < m; i++ {
		appendCopy(copies[i])
	}

	if n == token.Unbounded {
		appendCopy(b.UnboundedLoop(copies[m]))
		return result
	}

	for i := m; i < needed; i++ {
		appendCopy(b.Optional(copies[i]))
	}
	return result
}

// CompileRule builds the NFA for one rule's main (and optional trailing)
// postfix streams and terminates it with a Match(ruleID) state. It returns
// the rule's entry state.
func (c *Compiler) CompileRule(ruleID int, mainPostfix, trailingPostfix []token.Token) (StateID, error) {
	b := c.Builder

	mainFrag, err := c.CompileFragment(mainPostfix)
	if err != nil {
		return InvalidState, err
	}

	final := mainFrag
	if trailingPostfix != nil {
		boundary := b.AddBoundary(ruleID)
		b.PatchAll(mainFrag.Dangling, boundary)

		trailingFrag, err := c.CompileFragment(trailingPostfix)
		if err != nil {
			return InvalidState, err
		}
		b.Patch(Edge{State: boundary, Slot: SlotOut}, trailingFrag.Entry)
		final = Fragment{Entry: mainFrag.Entry, Dangling: trailingFrag.Dangling}
	}

	matchID := b.AddMatch(ruleID)
	b.PatchAll(final.Dangling, matchID)
	return final.Entry, nil
}
