package expr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func isDigit(b byte) bool  { return '0' <= b && b <= '9' }
func isLetter(b byte) bool { return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') }

// Tokenize splits src into tokens. It does not apply Normalize.
func Tokenize(src string) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c < utf8.RuneSelf && unicode.IsSpace(rune(c)):
			i++

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			seenDot := false
			for i < len(src) {
				if isDigit(src[i]) {
					i++
					continue
				}
				if src[i] == '.' && !seenDot {
					seenDot = true
					i++
					continue
				}
				break
			}
			// A digit run with at most one '.' always parses; the only error is
			// ErrRange, where v is already ±Inf.
			v, _ := strconv.ParseFloat(src[start:i], 64)
			toks = append(toks, Token{Kind: Number, Value: v, Pos: start})

		case isLetter(c):
			start := i
			for i < len(src) && isLetter(src[i]) {
				i++
			}
			toks = append(toks, Token{Kind: Identifier, Text: src[start:i], Pos: start})

		case strings.IndexByte(Operators, c) >= 0:
			toks = append(toks, Token{Kind: Operator, Text: string(c), Pos: i})
			i++

		case c == ',':
			toks = append(toks, Token{Kind: Comma, Text: ",", Pos: i})
			i++

		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			if unicode.IsSpace(r) {
				i += size
				continue
			}
			return nil, &ParseError{Kind: ErrUnexpectedCharacter, Char: r, Pos: i}
		}
	}
	return toks, nil
}
