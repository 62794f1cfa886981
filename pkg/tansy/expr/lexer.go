// Package expr implements the expression sub-language used by Tansy's
// condition and arithmetic evaluation: a hand-rolled lexer, a Pratt
// parser, and a tree-walking evaluator over ints, floats, strings,
// booleans, and null.
//
// Go has no host eval, so this engine stands in for it. The arithmetic
// front door restricts it to an allow-listed function table; the
// condition front door accepts the full surface.
package expr

// TokenType identifies a lexical token.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	IDENT  // x, count
	INT    // 42
	FLOAT  // 3.14
	STRING // "hi" or 'hi'

	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	FLOORDIV // //
	PERCENT  // %
	POWER    // **

	EQ     // ==
	NOT_EQ // !=
	LT     // <
	GT     // >
	LTE    // <=
	GTE    // >=

	AND  // && or and
	OR   // || or or
	BANG // ! or not

	TRUE  // true, True
	FALSE // false, False
	NULL  // null, None

	LPAREN // (
	RPAREN // )
	COMMA  // ,
)

// Token is one lexical token with its source column (1-based).
type Token struct {
	Type    TokenType
	Literal string
	Column  int
}

var keywords = map[string]TokenType{
	"and":   AND,
	"or":    OR,
	"not":   BANG,
	"true":  TRUE,
	"True":  TRUE,
	"false": FALSE,
	"False": FALSE,
	"null":  NULL,
	"None":  NULL,
}

// Lexer walks an expression string byte by byte.
type Lexer struct {
	input        string
	position     int  // current position (points to ch)
	readPosition int  // next position to read
	ch           byte // current byte under examination
	column       int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken returns the next token in the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	col := l.column
	var tok Token

	switch l.ch {
	case '+':
		tok = Token{Type: PLUS, Literal: "+", Column: col}
	case '-':
		tok = Token{Type: MINUS, Literal: "-", Column: col}
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			tok = Token{Type: POWER, Literal: "**", Column: col}
		} else {
			tok = Token{Type: ASTERISK, Literal: "*", Column: col}
		}
	case '/':
		if l.peekChar() == '/' {
			l.readChar()
			tok = Token{Type: FLOORDIV, Literal: "//", Column: col}
		} else {
			tok = Token{Type: SLASH, Literal: "/", Column: col}
		}
	case '%':
		tok = Token{Type: PERCENT, Literal: "%", Column: col}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: EQ, Literal: "==", Column: col}
		} else {
			tok = Token{Type: ILLEGAL, Literal: "=", Column: col}
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: NOT_EQ, Literal: "!=", Column: col}
		} else {
			tok = Token{Type: BANG, Literal: "!", Column: col}
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: LTE, Literal: "<=", Column: col}
		} else {
			tok = Token{Type: LT, Literal: "<", Column: col}
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: GTE, Literal: ">=", Column: col}
		} else {
			tok = Token{Type: GT, Literal: ">", Column: col}
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = Token{Type: AND, Literal: "&&", Column: col}
		} else {
			tok = Token{Type: ILLEGAL, Literal: "&", Column: col}
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = Token{Type: OR, Literal: "||", Column: col}
		} else {
			tok = Token{Type: ILLEGAL, Literal: "|", Column: col}
		}
	case '(':
		tok = Token{Type: LPAREN, Literal: "(", Column: col}
	case ')':
		tok = Token{Type: RPAREN, Literal: ")", Column: col}
	case ',':
		tok = Token{Type: COMMA, Literal: ",", Column: col}
	case '"', '\'':
		return Token{Type: STRING, Literal: l.readString(l.ch), Column: col}
	case 0:
		tok = Token{Type: EOF, Literal: "", Column: col}
	default:
		if isLetter(l.ch) {
			lit := l.readIdentifier()
			if kw, ok := keywords[lit]; ok {
				return Token{Type: kw, Literal: lit, Column: col}
			}
			return Token{Type: IDENT, Literal: lit, Column: col}
		}
		if isDigit(l.ch) {
			lit, isFloat := l.readNumber()
			if isFloat {
				return Token{Type: FLOAT, Literal: lit, Column: col}
			}
			return Token{Type: INT, Literal: lit, Column: col}
		}
		tok = Token{Type: ILLEGAL, Literal: string(l.ch), Column: col}
	}

	l.readChar()
	return tok
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() (string, bool) {
	start := l.position
	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position], isFloat
}

// readString consumes a quoted string honoring backslash escapes. The
// condition substitution quotes values with strconv.Quote, so escaped
// quotes and backslashes must round-trip.
func (l *Lexer) readString(quote byte) string {
	var out []byte
	l.readChar() // consume opening quote
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\', '"', '\'':
				out = append(out, l.ch)
			case 0:
				return string(out)
			default:
				out = append(out, '\\', l.ch)
			}
			l.readChar()
			continue
		}
		out = append(out, l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return string(out)
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
