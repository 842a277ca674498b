package expr

import (
	"math"
	"strconv"
	"strings"
)

// scope resolves free variables during evaluation. The single-variable case
// avoids building a map for every sample.
type scope struct {
	vars Bindings
	x    float64
	hasX bool
}

func (s *scope) lookup(name string) (float64, bool) {
	if s.hasX && name == "x" {
		return s.x, true
	}
	v, ok := s.vars[name]
	return v, ok
}

type node interface {
	eval(s *scope) (float64, error)
	write(sb *strings.Builder)
}

type numNode struct {
	v float64
}

func (n *numNode) eval(*scope) (float64, error) { return n.v, nil }
func (n *numNode) write(sb *strings.Builder) {
	sb.WriteString(strconv.FormatFloat(n.v, 'g', -1, 64))
}

type varNode struct {
	name string
}

func (n *varNode) eval(s *scope) (float64, error) {
	v, ok := s.lookup(n.name)
	if !ok {
		return math.NaN(), &EvalError{Kind: ErrUnknownIdentifier, Name: n.name}
	}
	return v, nil
}
func (n *varNode) write(sb *strings.Builder) { sb.WriteString(n.name) }

type negNode struct {
	arg node
}

func (n *negNode) eval(s *scope) (float64, error) {
	v, err := n.arg.eval(s)
	if err != nil {
		return math.NaN(), err
	}
	return -v, nil
}
func (n *negNode) write(sb *strings.Builder) {
	sb.WriteString("(-")
	n.arg.write(sb)
	sb.WriteByte(')')
}

type binNode struct {
	op          byte
	left, right node
}

func (n *binNode) eval(s *scope) (float64, error) {
	l, err := n.left.eval(s)
	if err != nil {
		return math.NaN(), err
	}
	r, err := n.right.eval(s)
	if err != nil {
		return math.NaN(), err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		return l / r, nil
	case '^':
		return math.Pow(l, r), nil
	}
	panic("expr: bad operator " + string(n.op))
}
func (n *binNode) write(sb *strings.Builder) {
	sb.WriteByte('(')
	n.left.write(sb)
	sb.WriteByte(' ')
	sb.WriteByte(n.op)
	sb.WriteByte(' ')
	n.right.write(sb)
	sb.WriteByte(')')
}

type callNode struct {
	fn   *Builtin
	args []node
}

func (n *callNode) eval(s *scope) (float64, error) {
	var buf [2]float64
	vals := buf[:len(n.args)]
	for i, a := range n.args {
		v, err := a.eval(s)
		if err != nil {
			return math.NaN(), err
		}
		vals[i] = v
	}
	return n.fn.call(vals), nil
}
func (n *callNode) write(sb *strings.Builder) {
	sb.WriteString(n.fn.Name)
	sb.WriteByte('(')
	for i, a := range n.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		a.write(sb)
	}
	sb.WriteByte(')')
}
