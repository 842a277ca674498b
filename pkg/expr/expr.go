// Package expr compiles single-variable math expressions such as
// "2x^2 + sin(x)/x" into immutable trees that can be evaluated many times.
//
// Arithmetic follows IEEE 754: 1/0 is +Inf and 0/0 is NaN, neither of which is
// an error. Callers that only want usable values should go through At.
package expr

import (
	"math"
	"strings"
)

// Bindings maps variable names to values.
type Bindings map[string]float64

// Expr is a compiled expression. It is never modified after Compile returns,
// so a single Expr may be evaluated from any number of goroutines.
type Expr struct {
	src  string
	toks []Token
	root node
}

// Compile builds an expression tree from toks. Function names are resolved
// here, so an unknown function or a wrong argument count is reported before
// any evaluation. Tokens left over after a complete expression are an error.
func Compile(toks []Token) (*Expr, error) {
	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t, ok := p.peek(); ok {
		return nil, &ParseError{Kind: ErrTrailingInput, Name: tokenText(t), Pos: t.Pos}
	}
	return &Expr{src: render(toks), toks: append([]Token(nil), toks...), root: root}, nil
}

// Parse normalizes, tokenizes and compiles src.
func Parse(src string) (*Expr, error) {
	normalized := Normalize(src)
	toks, err := Tokenize(normalized)
	if err != nil {
		return nil, err
	}
	e, err := Compile(toks)
	if err != nil {
		return nil, err
	}
	e.src = normalized
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic("expr: MustParse(" + src + "): " + err.Error())
	}
	return e
}

// Source returns the text the expression was compiled from. For Parse this is
// the normalized source.
func (e *Expr) Source() string { return e.src }

func (e *Expr) String() string { return e.src }

// Tokens returns a copy of the token sequence.
func (e *Expr) Tokens() []Token {
	return append([]Token(nil), e.toks...)
}

// Tree renders the compiled tree with every operation parenthesized, which
// makes grouping and associativity visible.
func (e *Expr) Tree() string {
	var sb strings.Builder
	e.root.write(&sb)
	return sb.String()
}

// Eval evaluates the expression with the given variable bindings. Constants
// (pi, e) take precedence over bindings of the same name.
func (e *Expr) Eval(b Bindings) (float64, error) {
	return e.root.eval(&scope{vars: b})
}

// EvalX evaluates the expression with x bound to the given value and no other
// variables.
func (e *Expr) EvalX(x float64) (float64, error) {
	return e.root.eval(&scope{x: x, hasX: true})
}

// At evaluates the expression at x and reports whether the result is a usable
// number. Evaluation errors, NaN and ±Inf all count as "undefined at x".
func (e *Expr) At(x float64) (float64, bool) {
	v, err := e.EvalX(x)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func tokenText(t Token) string {
	return render([]Token{t})
}

// render rebuilds a source string from tokens, for expressions compiled
// without their source text.
func render(toks []Token) string {
	var sb strings.Builder
	for _, t := range toks {
		if t.Kind == Number {
			(&numNode{v: t.Value}).write(&sb)
			continue
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}
