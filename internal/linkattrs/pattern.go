package linkattrs

import "regexp"

// Pattern selects links by destination. It is either an expression source, compiled
// when the rule set is built, or an already compiled expression. The zero Pattern
// matches every link.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// Expr returns a Pattern from RE2 expression source.
func Expr(expr string) Pattern {
	return Pattern{expr: expr}
}

// Regexp returns a Pattern from a compiled expression.
func Regexp(re *regexp.Regexp) Pattern {
	if re == nil {
		return Pattern{}
	}
	return Pattern{expr: re.String(), re: re}
}

// IsZero reports whether the pattern is absent.
func (p Pattern) IsZero() bool {
	return p.expr == "" && p.re == nil
}

func (p Pattern) String() string {
	return p.expr
}

func (p Pattern) compiled() bool {
	return p.re != nil
}

func (p Pattern) compile() (Pattern, error) {
	if p.IsZero() || p.compiled() {
		return p, nil
	}
	re, err := regexp.Compile(p.expr)
	if err != nil {
		return p, err
	}
	return Pattern{expr: p.expr, re: re}, nil
}

// matches reports whether href satisfies the pattern. Patterns must be compiled.
func (p Pattern) matches(href string) bool {
	if p.IsZero() {
		return true
	}
	return p.re.MatchString(href)
}
