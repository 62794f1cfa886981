package expr

import (
	"strings"
	"testing"

	"github.com/sambeau/tansy/pkg/tansy/errors"
)

func TestNextToken(t *testing.T) {
	input := `count + 1 - 2 * 3 / 4 // 5 % 6 ** 7
a == b != c < d > e <= f >= g
and or not true false null
"double" 'single'
abs(-3.5), (1)`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "count"},
		{PLUS, "+"},
		{INT, "1"},
		{MINUS, "-"},
		{INT, "2"},
		{ASTERISK, "*"},
		{INT, "3"},
		{SLASH, "/"},
		{INT, "4"},
		{FLOORDIV, "//"},
		{INT, "5"},
		{PERCENT, "%"},
		{INT, "6"},
		{POWER, "**"},
		{INT, "7"},
		{IDENT, "a"},
		{EQ, "=="},
		{IDENT, "b"},
		{NOT_EQ, "!="},
		{IDENT, "c"},
		{LT, "<"},
		{IDENT, "d"},
		{GT, ">"},
		{IDENT, "e"},
		{LTE, "<="},
		{IDENT, "f"},
		{GTE, ">="},
		{IDENT, "g"},
		{AND, "and"},
		{OR, "or"},
		{BANG, "not"},
		{TRUE, "true"},
		{FALSE, "false"},
		{NULL, "null"},
		{STRING, "double"},
		{STRING, "single"},
		{IDENT, "abs"},
		{LPAREN, "("},
		{MINUS, "-"},
		{FLOAT, "3.5"},
		{RPAREN, ")"},
		{COMMA, ","},
		{LPAREN, "("},
		{INT, "1"},
		{RPAREN, ")"},
		{EOF, ""},
	}

	l := NewLexer(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLexerPythonStyleKeywords(t *testing.T) {
	l := NewLexer("True False None")
	for _, want := range []TokenType{TRUE, FALSE, NULL} {
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("expected %q, got %q (%q)", want, tok.Type, tok.Literal)
		}
	}
}

func TestLexerIllegalChars(t *testing.T) {
	for _, input := range []string{"a = b", "a & b", "a | b", "@"} {
		l := NewLexer(input)
		sawIllegal := false
		for {
			tok := l.NextToken()
			if tok.Type == ILLEGAL {
				sawIllegal = true
			}
			if tok.Type == EOF {
				break
			}
		}
		if !sawIllegal {
			t.Errorf("input %q: expected an ILLEGAL token", input)
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 + 2 - 3", "((1 + 2) - 3)"},
		{"10 / 4 // 3", "((10 / 4) // 3)"},
		{"-2 ** 2", "(-(2 ** 2))"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"1 < 2 == true", "((1 < 2) == true)"},
		{"a and b or c", "((a && b) || c)"},
		{"not a and b", "((!a) && b)"},
		{"1 + 2 < 3 * 4", "((1 + 2) < (3 * 4))"},
		{"abs(-5) + 1", "(abs((-5)) + 1)"},
		{"min(1, 2, 3)", "min(1, 2, 3)"},
	}

	for _, tt := range tests {
		node, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if got := node.String(); got != tt.expected {
			t.Errorf("Parse(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"1 +", "EXPR-0002"},
		{"", "EXPR-0002"},
		{"1 2", "EXPR-0001"},
		{"(1 + 2", "EXPR-0002"},
		{"5(3)", "EXPR-0001"},
		{"abs(1,", "EXPR-0002"},
	}

	for _, tt := range tests {
		_, err := Parse(tt.input)
		if err == nil {
			t.Errorf("Parse(%q): expected error, got none", tt.input)
			continue
		}
		if got := errors.CodeOf(err); got != tt.code {
			t.Errorf("Parse(%q): expected code %q, got %q (%v)", tt.input, tt.code, got, err)
		}
	}
}

func TestRunArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"1 + 2", 3},
		{"7 - 10", -3},
		{"3 * 4", 12},
		{"10 / 4", 2.5},
		{"10 / 5", 2.0},
		{"10 // 4", 2},
		{"-7 // 2", -4},
		{"10 % 3", 1},
		{"2 ** 10", 1024},
		{"2 ** -1", 0.5},
		{"-2 ** 2", -4},
		{"1.5 + 1", 2.5},
		{"2.0 * 2", 4.0},
		{"1 + 2 * 3", 7},
		{`"foo" + "bar"`, "foobar"},
	}

	for _, tt := range tests {
		got, err := Run(tt.input, Builtins())
		if err != nil {
			t.Errorf("Run(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Run(%q): expected %v (%T), got %v (%T)", tt.input, tt.expected, tt.expected, got, got)
		}
	}
}

func TestRunComparisons(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"1 == 1.0", true},
		{"1 == 2", false},
		{"1 != 2", true},
		{`"abc" < "abd"`, true},
		{`"a" == "a"`, true},
		{`"1" == 1`, false},
		{`true == true`, true},
		{`null == null`, true},
		{`null == 0`, false},
		{"true and 1 < 2", true},
		{"false or 0", false},
		{"not false", true},
		{`not ""`, true},
	}

	for _, tt := range tests {
		got, err := Run(tt.input, Builtins())
		if err != nil {
			t.Errorf("Run(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Run(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestRunShortCircuit(t *testing.T) {
	// The right side never evaluates, so the unknown name cannot fail.
	got, err := Run("false and missing", Builtins())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != false {
		t.Errorf("expected false, got %v", got)
	}

	got, err = Run("true or missing", Builtins())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != true {
		t.Errorf("expected true, got %v", got)
	}
}

func TestRunFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"abs(-3)", 3},
		{"abs(-3.5)", 3.5},
		{"min(3, 1, 2)", 1},
		{"max(3, 1, 2.5)", 3},
		{"round(2.6)", 3},
		{"round(2.4)", 2},
		{"int(3.9)", 3},
		{`int("42")`, 42},
		{"float(3)", 3.0},
		{`len("hello")`, 5},
		{"sqrt(9)", 3.0},
		{"pow(2, 8)", 256},
		{"pow(2.0, 3)", 8.0},
	}

	for _, tt := range tests {
		got, err := Run(tt.input, Builtins())
		if err != nil {
			t.Errorf("Run(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Run(%q): expected %v (%T), got %v (%T)", tt.input, tt.expected, tt.expected, got, got)
		}
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"missing + 1", "EXPR-0003"},
		{"nosuch(1)", "EXPR-0004"},
		{"abs(1, 2)", "EXPR-0005"},
		{"1 / 0", "EXPR-0007"},
		{"1 // 0", "EXPR-0007"},
		{"1 % 0", "EXPR-0007"},
		{`1 < "a"`, "EXPR-0006"},
		{`-"a"`, "EXPR-0008"},
		{`"a" * 2`, "EXPR-0008"},
	}

	for _, tt := range tests {
		_, err := Run(tt.input, Builtins())
		if err == nil {
			t.Errorf("Run(%q): expected error, got none", tt.input)
			continue
		}
		if got := errors.CodeOf(err); got != tt.code {
			t.Errorf("Run(%q): expected code %q, got %q (%v)", tt.input, tt.code, got, err)
		}
	}
}

func TestTruthy(t *testing.T) {
	truthy := []any{true, 1, -1, 0.5, "x", "0"}
	falsy := []any{nil, false, 0, 0.0, ""}

	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Truthy(%v): expected true", v)
		}
	}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Truthy(%v): expected false", v)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	got, err := Run(`"line1\nline2" + "\t"`, Builtins())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := got.(string)
	if !ok {
		t.Fatalf("expected string, got %T", got)
	}
	if !strings.Contains(s, "\n") || !strings.HasSuffix(s, "\t") {
		t.Errorf("escapes not decoded: %q", s)
	}
}
