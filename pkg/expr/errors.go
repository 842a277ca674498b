package expr

import (
	"errors"
	"fmt"
)

// Error kinds. ParseError and EvalError unwrap to one of these, so callers can
// test with errors.Is.
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrUnexpectedEnd       = errors.New("unexpected end of expression")
	ErrMissingParenthesis  = errors.New("missing closing parenthesis")
	ErrTrailingInput       = errors.New("unexpected input after expression")
	ErrUnknownFunction     = errors.New("unknown function")
	ErrArgumentCount       = errors.New("wrong number of arguments")
	ErrUnknownIdentifier   = errors.New("unknown identifier")
)

// ParseError reports a problem found while tokenizing or compiling.
type ParseError struct {
	Kind error
	Pos  int    // Byte offset, or -1 at end of input
	Char rune   // ErrUnexpectedCharacter
	Name string // ErrUnknownFunction, ErrArgumentCount, ErrUnexpectedToken
	Want int    // ErrArgumentCount
	Got  int    // ErrArgumentCount
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrUnexpectedCharacter:
		return fmt.Sprintf("%v %q at position %d", e.Kind, e.Char, e.Pos)
	case ErrUnknownFunction:
		return fmt.Sprintf("%v: %s", e.Kind, e.Name)
	case ErrArgumentCount:
		return fmt.Sprintf("%s expects %d argument(s), got %d", e.Name, e.Want, e.Got)
	case ErrUnexpectedToken, ErrTrailingInput:
		return fmt.Sprintf("%v %q at position %d", e.Kind, e.Name, e.Pos)
	}
	return e.Kind.Error()
}

func (e *ParseError) Unwrap() error { return e.Kind }

// EvalError reports a problem found while evaluating a compiled expression.
type EvalError struct {
	Kind error
	Name string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Name)
}

func (e *EvalError) Unwrap() error { return e.Kind }

var kindNames = map[error]string{
	ErrUnexpectedCharacter: "unexpected_character",
	ErrUnexpectedToken:     "unexpected_token",
	ErrUnexpectedEnd:       "unexpected_end_of_input",
	ErrMissingParenthesis:  "missing_parenthesis",
	ErrTrailingInput:       "trailing_input",
	ErrUnknownFunction:     "unknown_function",
	ErrArgumentCount:       "argument_count",
	ErrUnknownIdentifier:   "unknown_identifier",
}

// KindName returns a stable snake_case name for the kind of err, or "" if err
// did not come from this package.
func KindName(err error) string {
	for kind, name := range kindNames {
		if errors.Is(err, kind) {
			return name
		}
	}
	return ""
}
