package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/errors"
)

// Node is one node of a parsed expression.
type Node interface {
	String() string
}

// IntLit is an integer literal.
type IntLit struct{ Value int }

// FloatLit is a floating-point literal.
type FloatLit struct{ Value float64 }

// StringLit is a quoted string literal.
type StringLit struct{ Value string }

// BoolLit is true or false.
type BoolLit struct{ Value bool }

// NullLit is null / None.
type NullLit struct{}

// Ident is a bare identifier.
type Ident struct{ Name string }

// PrefixExpr is a unary operation.
type PrefixExpr struct {
	Op    string
	Right Node
}

// InfixExpr is a binary operation.
type InfixExpr struct {
	Op          string
	Left, Right Node
}

// CallExpr is a function call.
type CallExpr struct {
	Func string
	Args []Node
}

func (n *IntLit) String() string    { return strconv.Itoa(n.Value) }
func (n *FloatLit) String() string  { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *StringLit) String() string { return strconv.Quote(n.Value) }
func (n *BoolLit) String() string   { return strconv.FormatBool(n.Value) }
func (n *NullLit) String() string   { return "null" }
func (n *Ident) String() string     { return n.Name }
func (n *PrefixExpr) String() string {
	return fmt.Sprintf("(%s%s)", n.Op, n.Right)
}
func (n *InfixExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}
func (n *CallExpr) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Func, strings.Join(args, ", "))
}

// Precedence ladder, lowest binds loosest.
const (
	_ int = iota
	LOWEST
	OR_PREC     // or, ||
	AND_PREC    // and, &&
	EQUALS      // ==, !=
	LESSGREATER // <, >, <=, >=
	SUM         // +, -
	PRODUCT     // *, /, //, %
	POWER_PREC  // **
	PREFIX      // -x, !x
	CALL        // fn(x)
)

var precedences = map[TokenType]int{
	OR:       OR_PREC,
	AND:      AND_PREC,
	EQ:       EQUALS,
	NOT_EQ:   EQUALS,
	LT:       LESSGREATER,
	GT:       LESSGREATER,
	LTE:      LESSGREATER,
	GTE:      LESSGREATER,
	PLUS:     SUM,
	MINUS:    SUM,
	ASTERISK: PRODUCT,
	SLASH:    PRODUCT,
	FLOORDIV: PRODUCT,
	PERCENT:  PRODUCT,
	POWER:    POWER_PREC,
}

// Parser builds an expression tree with Pratt-style precedence climbing.
type Parser struct {
	l         *Lexer
	curToken  Token
	peekToken Token
}

// NewParser creates a parser over input.
func NewParser(input string) *Parser {
	p := &Parser{l: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses input into an expression tree.
func Parse(input string) (Node, error) {
	p := NewParser(input)
	node, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	p.nextToken()
	if p.curToken.Type != EOF {
		return nil, errors.New("EXPR-0001", map[string]any{"Token": p.curToken.Literal})
	}
	return node, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseExpression(precedence int) (Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for p.peekToken.Type != EOF && precedence < p.peekPrecedence() {
		p.nextToken()
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parsePrefix() (Node, error) {
	switch p.curToken.Type {
	case INT:
		v, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			return nil, errors.New("EXPR-0001", map[string]any{"Token": p.curToken.Literal})
		}
		return &IntLit{Value: v}, nil
	case FLOAT:
		v, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			return nil, errors.New("EXPR-0001", map[string]any{"Token": p.curToken.Literal})
		}
		return &FloatLit{Value: v}, nil
	case STRING:
		return &StringLit{Value: p.curToken.Literal}, nil
	case TRUE:
		return &BoolLit{Value: true}, nil
	case FALSE:
		return &BoolLit{Value: false}, nil
	case NULL:
		return &NullLit{}, nil
	case IDENT:
		if p.peekToken.Type == LPAREN {
			return p.parseCall(p.curToken.Literal)
		}
		return &Ident{Name: p.curToken.Literal}, nil
	case MINUS, BANG, PLUS:
		op := p.curToken.Literal
		if p.curToken.Type == BANG {
			op = "!"
		}
		p.nextToken()
		right, err := p.parseUnaryOperand()
		if err != nil {
			return nil, err
		}
		return &PrefixExpr{Op: op, Right: right}, nil
	case LPAREN:
		p.nextToken()
		inner, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if p.peekToken.Type != RPAREN {
			return nil, p.unexpected(p.peekToken)
		}
		p.nextToken()
		return inner, nil
	case EOF:
		return nil, errors.New("EXPR-0002", nil)
	default:
		return nil, p.unexpected(p.curToken)
	}
}

func (p *Parser) parseUnaryOperand() (Node, error) {
	node, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	// Power binds tighter than unary minus, so -2**2 is -(2**2).
	for p.peekToken.Type == POWER {
		p.nextToken()
		node, err = p.parseInfix(node)
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (p *Parser) parseInfix(left Node) (Node, error) {
	op := p.curToken
	// Keyword forms normalize to symbolic operators at parse time.
	lit := op.Literal
	switch op.Type {
	case AND:
		lit = "&&"
	case OR:
		lit = "||"
	}
	precedence, ok := precedences[op.Type]
	if !ok {
		return nil, p.unexpected(op)
	}
	p.nextToken()
	// Power is right-associative.
	if op.Type == POWER {
		precedence--
	}
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &InfixExpr{Op: lit, Left: left, Right: right}, nil
}

func (p *Parser) parseCall(name string) (Node, error) {
	p.nextToken() // onto '('
	call := &CallExpr{Func: name}
	if p.peekToken.Type == RPAREN {
		p.nextToken()
		return call, nil
	}
	for {
		p.nextToken()
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.peekToken.Type == COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if p.peekToken.Type != RPAREN {
		return nil, p.unexpected(p.peekToken)
	}
	p.nextToken()
	return call, nil
}

func (p *Parser) unexpected(tok Token) error {
	if tok.Type == EOF {
		return errors.New("EXPR-0002", nil)
	}
	return errors.New("EXPR-0001", map[string]any{"Token": tok.Literal})
}
