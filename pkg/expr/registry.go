package expr

import (
	"math"
	"sort"
)

// Builtin is a named numeric function callable from an expression.
type Builtin struct {
	Name   string
	Arity  int
	unary  func(float64) float64
	binary func(float64, float64) float64
}

func (b *Builtin) call(args []float64) float64 {
	if b.Arity == 1 {
		return b.unary(args[0])
	}
	return b.binary(args[0], args[1])
}

func unary(name string, f func(float64) float64) *Builtin {
	return &Builtin{Name: name, Arity: 1, unary: f}
}

func binary(name string, f func(float64, float64) float64) *Builtin {
	return &Builtin{Name: name, Arity: 2, binary: f}
}

// roundHalfUp rounds half-way cases towards +Inf, so round(-2.5) is -2.
func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

var builtins = map[string]*Builtin{}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func init() {
	for _, b := range []*Builtin{
		unary("sin", math.Sin),
		unary("cos", math.Cos),
		unary("tan", math.Tan),
		unary("asin", math.Asin),
		unary("acos", math.Acos),
		unary("atan", math.Atan),
		unary("sinh", math.Sinh),
		unary("cosh", math.Cosh),
		unary("tanh", math.Tanh),
		unary("abs", math.Abs),
		unary("sqrt", math.Sqrt),
		unary("exp", math.Exp),
		unary("ln", math.Log),
		unary("log", math.Log10), // decimal, same as log10
		unary("log10", math.Log10),
		unary("floor", math.Floor),
		unary("ceil", math.Ceil),
		unary("round", roundHalfUp),
		unary("sec", func(x float64) float64 { return 1 / math.Cos(x) }),
		unary("csc", func(x float64) float64 { return 1 / math.Sin(x) }),
		unary("cot", func(x float64) float64 { return 1 / math.Tan(x) }),
		binary("logb", func(base, v float64) float64 { return math.Log(v) / math.Log(base) }),
	} {
		builtins[b.Name] = b
	}
}

// LookupFunction returns the builtin registered under name. Lookup is
// case-sensitive.
func LookupFunction(name string) (*Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

// LookupConstant returns the value of a named constant.
func LookupConstant(name string) (float64, bool) {
	v, ok := constants[name]
	return v, ok
}

// FunctionNames lists the registered function names in sorted order.
func FunctionNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
