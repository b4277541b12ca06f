package taskfilter

import (
	"strconv"
	"strings"
)

// astParser parses a token stream into an Expr tree.
//
// Grammar, highest precedence first:
//
//	primary = condition | "(" orExpr ")"
//	andExpr = primary ("&&" primary)*
//	orExpr  = andExpr ("||" andExpr)*
//
// && binds tighter than ||, so a = 1 || b = 2 && c = 3 parses as
// a = 1 || (b = 2 && c = 3). Chains of a single connective associate
// left-to-right.
type astParser struct {
	tokens  []*token
	current int
}

func newASTParser(tokens []*token) *astParser {
	return &astParser{tokens: tokens}
}

// currentToken returns the token at the cursor.
func (p *astParser) currentToken() *token {
	if p.current >= len(p.tokens) {
		return &token{typ: tokenEOF}
	}
	return p.tokens[p.current]
}

// advance moves past the current token and returns it.
func (p *astParser) advance() *token {
	tok := p.currentToken()
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return tok
}

// parse parses the whole token stream into an expression tree.
func (p *astParser) parse() (Expr, error) {
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	// The expression must consume every token; trailing garbage is an error,
	// never a partial tree.
	if tok := p.currentToken(); tok.typ != tokenEOF {
		return nil, parseError(tok.pos, "unexpected %s after expression", tok.typ)
	}

	return node, nil
}

// parseOr handles || expressions (lowest precedence).
func (p *astParser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.currentToken().typ == tokenLogical && p.currentToken().value == "||" {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &OrExpr{Left: left, Right: right}
	}

	return left, nil
}

// parseAnd handles && expressions.
func (p *astParser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.currentToken().typ == tokenLogical && p.currentToken().value == "&&" {
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &AndExpr{Left: left, Right: right}
	}

	return left, nil
}

// parsePrimary handles a parenthesized expression or a single condition.
func (p *astParser) parsePrimary() (Expr, error) {
	if p.currentToken().typ == tokenLParen {
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if tok := p.currentToken(); tok.typ != tokenRParen {
			return nil, parseError(tok.pos, "expected ')', got %s", tok.typ)
		}
		p.advance()
		return inner, nil
	}
	return p.parseCondition()
}

// parseCondition handles a field-operator-value leaf.
func (p *astParser) parseCondition() (Expr, error) {
	fieldTok := p.currentToken()
	if fieldTok.typ != tokenField {
		return nil, parseError(fieldTok.pos, "expected field, got %s", fieldTok.typ)
	}
	p.advance()

	opTok := p.currentToken()
	if opTok.typ != tokenOperator {
		return nil, parseError(opTok.pos, "expected operator, got %s", opTok.typ)
	}
	p.advance()

	op := Operator(opTok.value)
	value, err := p.parseLiteral(op)
	if err != nil {
		return nil, err
	}

	return &Condition{Field: fieldTok.value, Operator: op, Value: value}, nil
}

// parseLiteral handles the value side of a condition.
func (p *astParser) parseLiteral(op Operator) (any, error) {
	tok := p.currentToken()

	if op == OpIn || op == OpNotIn {
		if tok.typ != tokenArray {
			return nil, parseError(tok.pos, "%q requires an array literal, got %s", string(op), tok.typ)
		}
	}

	switch tok.typ {
	case tokenString:
		p.advance()
		return tok.value, nil
	case tokenNumber:
		value, ok := parseValueLiteral(tok.value)
		if !ok {
			return nil, parseError(tok.pos, "invalid number literal %q", tok.value)
		}
		p.advance()
		return value, nil
	case tokenBool:
		p.advance()
		return tok.value == "true", nil
	case tokenNull:
		p.advance()
		return nil, nil
	case tokenDate:
		value, ok := parseDateLiteral(tok.value)
		if !ok {
			return nil, parseError(tok.pos, "invalid date literal %q", tok.value)
		}
		p.advance()
		return value, nil
	case tokenArray:
		value, ok := parseArrayLiteral(tok.value)
		if !ok {
			return nil, parseError(tok.pos, "invalid array literal")
		}
		p.advance()
		return value, nil
	case tokenRelDate:
		value, err := parseRelativeDate(tok.value, tok.pos)
		if err != nil {
			return nil, err
		}
		p.advance()
		return value, nil
	default:
		return nil, parseError(tok.pos, "expected value, got %s", tok.typ)
	}
}

// parseRelativeDate parses now, now+<N><unit>, or now-<N><unit>.
func parseRelativeDate(raw string, pos int) (RelativeDate, error) {
	if raw == "now" {
		return RelativeDate{}, nil
	}
	rest := strings.TrimPrefix(raw, "now")
	if len(rest) < 3 || (rest[0] != '+' && rest[0] != '-') {
		return RelativeDate{}, parseError(pos, "invalid relative date %q", raw)
	}
	unit := rest[len(rest)-1]
	n, err := strconv.ParseInt(rest[1:len(rest)-1], 10, 64)
	if err != nil || n > maxRelativeDateOffset {
		return RelativeDate{}, parseError(pos, "invalid relative date offset in %q", raw)
	}
	if rest[0] == '-' {
		n = -n
	}
	return RelativeDate{Offset: n, Unit: unit}, nil
}

// ParseFilterString parses an ad hoc filter string into an expression tree.
// The result is soft-fail: any lexical or grammatical problem returns a nil
// expression and an error wrapping ErrParse, never a partial tree and never a
// panic. Input longer than 1000 characters is rejected before tokenizing.
func ParseFilterString(input string) (Expr, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, parseError(0, "empty filter")
	}
	if len(input) > maxFilterStringLength {
		return nil, parseError(0, "filter string exceeds %d characters", maxFilterStringLength)
	}

	if expr, ok := parsedExprCache.get(input); ok {
		return expr, nil
	}

	tokens, err := newTokenizer(input).tokenizeAll()
	if err != nil {
		return nil, err
	}

	expr, err := newASTParser(tokens).parse()
	if err != nil {
		return nil, err
	}

	parsedExprCache.put(input, expr)
	return expr, nil
}
