package taskfilter

import (
	"strings"
	"unicode"
)

// tokenType classifies a token in an ad hoc filter string.
type tokenType int

const (
	tokenEOF tokenType = iota
	tokenField
	tokenOperator
	tokenLogical
	tokenLParen
	tokenRParen
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenDate
	tokenRelDate
	tokenArray
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenField:
		return "field"
	case tokenOperator:
		return "operator"
	case tokenLogical:
		return "logical connective"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenString:
		return "string literal"
	case tokenNumber:
		return "number literal"
	case tokenBool:
		return "boolean literal"
	case tokenNull:
		return "null literal"
	case tokenDate:
		return "date literal"
	case tokenRelDate:
		return "relative date"
	case tokenArray:
		return "array literal"
	}
	return "unknown token"
}

// token is a single lexed token with its source position.
type token struct {
	typ   tokenType
	value string
	pos   int
}

// tokenizer lexes ad hoc filter strings. The grammar is ASCII outside of
// string literals, so the tokenizer walks bytes and slices the input for
// literal content rather than rebuilding it rune by rune.
type tokenizer struct {
	input string
	pos   int
	ch    byte
}

func newTokenizer(input string) *tokenizer {
	t := &tokenizer{input: input}
	if len(input) > 0 {
		t.ch = input[0]
	}
	return t
}

// advance moves to the next byte.
func (t *tokenizer) advance() {
	t.pos++
	if t.pos >= len(t.input) {
		t.ch = 0 // EOF
	} else {
		t.ch = t.input[t.pos]
	}
}

// peek looks ahead without advancing.
func (t *tokenizer) peek() byte {
	if t.pos+1 >= len(t.input) {
		return 0
	}
	return t.input[t.pos+1]
}

func (t *tokenizer) skipWhitespace() {
	for t.ch == ' ' || t.ch == '\t' || t.ch == '\n' || t.ch == '\r' {
		t.advance()
	}
}

// nextToken returns the next token or a parse error.
func (t *tokenizer) nextToken() (*token, error) {
	t.skipWhitespace()

	if t.ch == 0 {
		return &token{typ: tokenEOF, pos: t.pos}, nil
	}

	pos := t.pos

	switch t.ch {
	case '(':
		t.advance()
		return &token{typ: tokenLParen, value: "(", pos: pos}, nil
	case ')':
		t.advance()
		return &token{typ: tokenRParen, value: ")", pos: pos}, nil
	case '&', '|':
		first := t.ch
		if t.peek() != first {
			return nil, parseError(pos, "unexpected character %q", string(t.ch))
		}
		t.advance()
		t.advance()
		if first == '&' {
			return &token{typ: tokenLogical, value: "&&", pos: pos}, nil
		}
		return &token{typ: tokenLogical, value: "||", pos: pos}, nil
	case '=':
		t.advance()
		return &token{typ: tokenOperator, value: "=", pos: pos}, nil
	case '!':
		if t.peek() != '=' {
			return nil, parseError(pos, "unexpected character '!'")
		}
		t.advance()
		t.advance()
		return &token{typ: tokenOperator, value: "!=", pos: pos}, nil
	case '>', '<':
		op := string(t.ch)
		t.advance()
		if t.ch == '=' {
			op += "="
			t.advance()
		}
		return &token{typ: tokenOperator, value: op, pos: pos}, nil
	case '"':
		return t.readString(pos)
	case '[':
		return t.readArray(pos)
	}

	if isDigit(t.ch) || (t.ch == '-' && isDigit(t.peek())) {
		return t.readNumberOrDate(pos)
	}

	if isIdentByte(t.ch) {
		return t.readIdentifier(pos)
	}

	return nil, parseError(pos, "unexpected character %q", string(t.ch))
}

// readString reads a double-quoted string literal. The content is taken
// verbatim; the grammar has no escape sequences.
func (t *tokenizer) readString(pos int) (*token, error) {
	t.advance() // opening quote
	start := t.pos
	for t.ch != 0 && t.ch != '"' {
		t.advance()
	}
	if t.ch != '"' {
		return nil, parseError(pos, "unterminated string literal")
	}
	content := t.input[start:t.pos]
	t.advance() // closing quote
	if len(content) > maxStringTokenLength-2 {
		return nil, parseError(pos, "string literal too long")
	}
	return &token{typ: tokenString, value: content, pos: pos}, nil
}

// readArray reads a bracketed array literal as one raw token. The token keeps
// its brackets; the value literal grammar parses and bounds it. Bracket
// matching respects JSON string quoting so a ']' inside an element does not
// close the array.
func (t *tokenizer) readArray(pos int) (*token, error) {
	start := t.pos
	depth := 0
	inString := false
	for t.ch != 0 {
		if t.pos-start > maxArrayTokenLength {
			return nil, parseError(pos, "array literal too long")
		}
		if inString {
			if t.ch == '\\' {
				t.advance() // skip the escaped byte
			} else if t.ch == '"' {
				inString = false
			}
		} else {
			switch t.ch {
			case '"':
				inString = true
			case '[':
				depth++
			case ']':
				depth--
			}
		}
		t.advance()
		if depth == 0 && !inString {
			raw := t.input[start:t.pos]
			return &token{typ: tokenArray, value: raw, pos: pos}, nil
		}
	}
	return nil, parseError(pos, "unterminated array literal")
}

// readNumberOrDate reads an integer literal or a YYYY-MM-DD date literal.
func (t *tokenizer) readNumberOrDate(pos int) (*token, error) {
	if len(t.input)-pos >= 10 && dateLiteralRe.MatchString(t.input[pos:pos+10]) {
		for t.pos < pos+10 {
			t.advance()
		}
		return &token{typ: tokenDate, value: t.input[pos : pos+10], pos: pos}, nil
	}

	start := t.pos
	if t.ch == '-' {
		t.advance()
	}
	for isDigit(t.ch) {
		t.advance()
	}
	return &token{typ: tokenNumber, value: t.input[start:t.pos], pos: pos}, nil
}

// readIdentifier reads an identifier and classifies keywords, operators,
// relative dates, and field names. An identifier that is not a keyword and
// not an allowed field is a lexical failure, reported no differently from any
// other syntax error.
func (t *tokenizer) readIdentifier(pos int) (*token, error) {
	start := t.pos
	for isIdentByte(t.ch) || isDigit(t.ch) {
		t.advance()
	}
	word := t.input[start:t.pos]

	switch strings.ToLower(word) {
	case "true", "false":
		return &token{typ: tokenBool, value: strings.ToLower(word), pos: pos}, nil
	case "null":
		return &token{typ: tokenNull, value: "null", pos: pos}, nil
	case "like":
		return &token{typ: tokenOperator, value: "like", pos: pos}, nil
	case "in":
		return &token{typ: tokenOperator, value: "in", pos: pos}, nil
	case "not":
		return t.readNotIn(pos)
	case "now":
		return t.readRelativeDate(pos)
	}

	if !allowedAdHocField(word) {
		return nil, parseError(pos, "unknown field %q", word)
	}
	return &token{typ: tokenField, value: canonicalField(word), pos: pos}, nil
}

// readNotIn consumes the "in" that must follow "not".
func (t *tokenizer) readNotIn(pos int) (*token, error) {
	t.skipWhitespace()
	start := t.pos
	for isIdentByte(t.ch) || isDigit(t.ch) {
		t.advance()
	}
	if strings.ToLower(t.input[start:t.pos]) != "in" {
		return nil, parseError(pos, "expected 'in' after 'not'")
	}
	return &token{typ: tokenOperator, value: "not in", pos: pos}, nil
}

// readRelativeDate reads the optional +N<unit> or -N<unit> suffix after "now".
func (t *tokenizer) readRelativeDate(pos int) (*token, error) {
	if t.ch != '+' && t.ch != '-' {
		return &token{typ: tokenRelDate, value: "now", pos: pos}, nil
	}
	start := pos
	t.advance() // sign
	digits := 0
	for isDigit(t.ch) {
		t.advance()
		digits++
	}
	if digits == 0 || digits > 10 {
		return nil, parseError(pos, "invalid relative date offset")
	}
	switch t.ch {
	case 's', 'm', 'h', 'd', 'M', 'y':
		t.advance()
	default:
		return nil, parseError(pos, "invalid relative date unit")
	}
	return &token{typ: tokenRelDate, value: t.input[start:t.pos], pos: pos}, nil
}

// tokenizeAll returns all tokens from the input, ending with EOF.
func (t *tokenizer) tokenizeAll() ([]*token, error) {
	var tokens []*token
	for {
		tok, err := t.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.typ == tokenEOF {
			break
		}
	}
	return tokens, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentByte(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch))
}
