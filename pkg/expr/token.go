package expr

import (
	"strconv"
)

// Kind identifies the class of a Token.
type Kind int

const (
	Number Kind = iota
	Identifier
	Operator
	Comma
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case Identifier:
		return "Identifier"
	case Operator:
		return "Operator"
	case Comma:
		return "Comma"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Operators contains the single-character operator tokens, parentheses included.
const Operators = "+-*/^()"

// Token is a single lexical unit of an expression.
type Token struct {
	Kind  Kind
	Value float64 // Number only
	Text  string  // Identifier name, operator character, or ","
	Pos   int     // Byte offset in the source
}

func (t Token) String() string {
	switch t.Kind {
	case Number:
		return "Number(" + strconv.FormatFloat(t.Value, 'g', -1, 64) + ")"
	case Identifier:
		return "Identifier(" + t.Text + ")"
	case Operator:
		return "Operator(" + t.Text + ")"
	}
	return t.Kind.String()
}

// is reports whether t is the operator op.
func (t Token) is(op string) bool {
	return t.Kind == Operator && t.Text == op
}

// NumberToken, IdentToken, OpToken and CommaToken build tokens without
// position info. They are mostly useful for comparing tokenizer output.
func NumberToken(v float64) Token  { return Token{Kind: Number, Value: v} }
func IdentToken(name string) Token { return Token{Kind: Identifier, Text: name} }
func OpToken(op string) Token      { return Token{Kind: Operator, Text: op} }
func CommaToken() Token            { return Token{Kind: Comma, Text: ","} }

// StripPos returns a copy of toks with all positions zeroed.
func StripPos(toks []Token) []Token {
	out := make([]Token, len(toks))
	for i, t := range toks {
		t.Pos = 0
		out[i] = t
	}
	return out
}
