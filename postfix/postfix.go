// Package postfix implements stage 3 of the lexforge pipeline:
// shunting-yard conversion of an infix-with-concatenation token stream
// into one or two postfix streams, splitting on the trailing-context
// operator `/` when present.
package postfix

import "github.com/lexforge/lexforge/token"

// Result holds the postfix output of ToPostfix. Trailing is nil unless the
// source regex contained a TrailingSlash operator.
type Result struct {
	Main     []token.Token
	Trailing []token.Token
}

// precedence ranks binary/unary operators, lowest to highest:
// Alt < Concat < {Optional, Quant} < unary anchors.
func precedence(k token.Kind) int {
	switch k {
	case token.Alt:
		return 1
	case token.Concat:
		return 2
	case token.Optional, token.Quant:
		return 3
	case token.AnchorStart, token.AnchorEnd:
		return 4
	default:
		return 0
	}
}

func isOperator(k token.Kind) bool {
	switch k {
	case token.Alt, token.Concat, token.Optional, token.Quant, token.AnchorStart, token.AnchorEnd:
		return true
	default:
		return false
	}
}

// ToPostfix runs shunting-yard over an infix token stream that has already
// had Concat tokens inserted (token.InsertConcat). It returns one postfix
// stream, or two if the input contains a TrailingSlash.
func ToPostfix(infix []token.Token) (Result, error) {
	var operators []token.Token
	var output []token.Token
	var trailing []token.Token
	seenSlash := false

	flush := func(stopAtOpenGroup bool) {
		for len(operators) > 0 {
			top := operators[len(operators)-1]
			if stopAtOpenGroup && top.Kind == token.OpenGroup {
				return
			}
			operators = operators[:len(operators)-1]
			output = append(output, top)
		}
	}

	pushOperator := func(op token.Token) {
		for len(operators) > 0 {
			top := operators[len(operators)-1]
			if top.Kind == token.OpenGroup {
				break
			}
			if precedence(top.Kind) < precedence(op.Kind) {
				break
			}
			// left-associative: pop while top has >= precedence
			operators = operators[:len(operators)-1]
			output = append(output, top)
		}
		operators = append(operators, op)
	}

	for _, tok := range infix {
		switch {
		case tok.Kind == token.OpenGroup:
			operators = append(operators, tok)

		case tok.Kind == token.CloseGroup:
			for {
				if len(operators) == 0 {
					return Result{}, &Error{Kind: UnbalancedGroup, Message: "unmatched ')'"}
				}
				top := operators[len(operators)-1]
				operators = operators[:len(operators)-1]
				if top.Kind == token.OpenGroup {
					break
				}
				output = append(output, top)
			}

		case tok.Kind == token.TrailingSlash:
			if seenSlash {
				return Result{}, &Error{Kind: DuplicateTrailingContext, Message: "more than one '/' in regex"}
			}
			seenSlash = true
			flush(true)
			for len(operators) > 0 {
				top := operators[len(operators)-1]
				if top.Kind == token.OpenGroup {
					return Result{}, &Error{Kind: UnbalancedGroup, Message: "unmatched '(' before '/'"}
				}
				operators = operators[:len(operators)-1]
				output = append(output, top)
			}
			trailing = output
			output = nil

		case isOperator(tok.Kind):
			pushOperator(tok)

		default:
			// Atoms (Literal, Class, Any) append directly to output.
			// AnchorStart/End never reach here: they are unary operators
			// handled above.
			output = append(output, tok)
		}
	}

	for len(operators) > 0 {
		top := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		if top.Kind == token.OpenGroup {
			return Result{}, &Error{Kind: UnbalancedGroup, Message: "unmatched '('"}
		}
		output = append(output, top)
	}

	if seenSlash {
		return Result{Main: trailing, Trailing: output}, nil
	}
	return Result{Main: output}, nil
}
