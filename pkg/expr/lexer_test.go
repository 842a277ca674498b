package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2x+3", "2*x+3"},
		{"2(x+1)", "2*(x+1)"},
		{"(x+1)2", "(x+1)*2"},
		{"(x+1)x", "(x+1)*x"},
		{"(x+1)(x-1)", "(x+1)*(x-1)"},
		{"3.5x", "3.5*x"},
		{"2sin(x)", "2*sin(x)"},
		{"2x(x+1)", "2*x(x+1)"},
		{"sin(x)cos(x)", "sin(x)*cos(x)"},
		{"x(x+1)", "x(x+1)"},
		{"x^2 - 1", "x^2 - 1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Token
	}{
		{
			name: "Implicit Multiplication",
			in:   Normalize("2x+3"),
			want: []Token{NumberToken(2), OpToken("*"), IdentToken("x"), OpToken("+"), NumberToken(3)},
		},
		{
			name: "Function Call",
			in:   "logb(2, x)",
			want: []Token{IdentToken("logb"), OpToken("("), NumberToken(2), CommaToken(), IdentToken("x"), OpToken(")")},
		},
		{
			name: "Leading Dot",
			in:   ".5",
			want: []Token{NumberToken(0.5)},
		},
		{
			name: "Trailing Dot",
			in:   "2.",
			want: []Token{NumberToken(2)},
		},
		{
			name: "Second Dot Starts New Number",
			in:   "1.2.3",
			want: []Token{NumberToken(1.2), NumberToken(0.3)},
		},
		{
			name: "Identifiers Keep Case",
			in:   "Sin(PI)",
			want: []Token{IdentToken("Sin"), OpToken("("), IdentToken("PI"), OpToken(")")},
		},
		{
			name: "Whitespace",
			in:   " \tx  ^ 2\n",
			want: []Token{IdentToken("x"), OpToken("^"), NumberToken(2)},
		},
		{
			name: "All Operators",
			in:   "+-*/^()",
			want: []Token{OpToken("+"), OpToken("-"), OpToken("*"), OpToken("/"), OpToken("^"), OpToken("("), OpToken(")")},
		},
		{
			name: "Empty",
			in:   "",
			want: []Token{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, StripPos(got))
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := Tokenize("12 + abc")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, 0, toks[0].Pos)
	assert.Equal(t, 3, toks[1].Pos)
	assert.Equal(t, 5, toks[2].Pos)
}

func TestTokenize_UnexpectedCharacter(t *testing.T) {
	tests := []struct {
		in   string
		char rune
		pos  int
	}{
		{"2 # 3", '#', 2},
		{"a_b", '_', 1},
		{"x2y=1", '=', 3},
		{"π", 'π', 0},
		{"[x]", '[', 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Tokenize(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnexpectedCharacter))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.char, pe.Char)
			assert.Equal(t, tt.pos, pe.Pos)
		})
	}
}
