package expr

import "regexp"

// Implicit multiplication rewrites. Order matters: each pass scans the output
// of the previous one.
var implicitMul = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(\d)([a-zA-Z(])`), "${1}*${2}"}, // 2x, 2(x+1)
	{regexp.MustCompile(`\)(\d)`), ")*${1}"},             // (x+1)2
	{regexp.MustCompile(`\)([a-zA-Z])`), ")*${1}"},       // (x+1)x
	{regexp.MustCompile(`\)\(`), ")*("},                  // (x+1)(x-1)
}

// Normalize inserts explicit '*' where the source relies on implicit
// multiplication. A letter followed by '(' is left alone so that function
// calls survive; "x(x+1)" therefore stays a call to the unknown function x.
func Normalize(src string) string {
	for _, r := range implicitMul {
		src = r.re.ReplaceAllString(src, r.repl)
	}
	return src
}
