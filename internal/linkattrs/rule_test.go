package linkattrs

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
)

func TestRuleSet_Find(t *testing.T) {
	rs := MustRuleSet(
		Rule{Pattern: Expr("^https:"), Attrs: Attrs{{Name: "class", Value: "external"}}},
		Rule{Pattern: Regexp(regexp.MustCompile("^#")), Attrs: Attrs{{Name: "class", Value: "anchor"}}},
		Rule{Attrs: Attrs{{Name: "class", Value: "other"}}},
		Rule{Pattern: Expr("^/unreachable"), Attrs: Attrs{{Name: "class", Value: "never"}}},
	)

	require.Equal(t, 0, rs.Find("https://example.com"))
	require.Equal(t, 1, rs.Find("#top"))
	require.Equal(t, 2, rs.Find("/unreachable"))
	require.Equal(t, 2, rs.Find(""))
}

func TestRuleSet_NoMatch(t *testing.T) {
	rs := MustRuleSet(Rule{Pattern: Expr("^mailto:")})

	_, i, ok := rs.Match(newLinkToken("https://example.com"))
	require.False(t, ok)
	require.Equal(t, -1, i)
}

func TestRuleSet_Empty(t *testing.T) {
	rs, err := NewRuleSet()
	require.NoError(t, err)
	require.Zero(t, rs.Len())
	require.Equal(t, -1, rs.Find("/x"))
}

func TestRuleSet_CopiesRules(t *testing.T) {
	rules := []Rule{{Attrs: Attrs{{Name: "target", Value: "_blank"}}}}
	rs := MustRuleSet(rules...)

	rules[0].Attrs[0].Value = "_self"
	got := rs.Rules()
	got[0].Attrs[0].Value = "_parent"

	rule, _, ok := rs.Match(newLinkToken("/x"))
	require.True(t, ok)
	require.Equal(t, "_blank", rule.Attrs[0].Value)
}

func TestNewRuleSet_InvalidPattern(t *testing.T) {
	_, err := NewRuleSet(Rule{}, Rule{Pattern: Expr("[")})
	require.Error(t, err)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, errors.CategoryConfig, ce.Category())
	rule, _ := ce.Context().Get("rule")
	require.Equal(t, 1, rule)
	pattern, _ := ce.Context().GetString("pattern")
	require.Equal(t, "[", pattern)
}

func TestNewRuleSet_InvalidAttributeName(t *testing.T) {
	_, err := NewRuleSet(
		Rule{Attrs: Attrs{{Name: "rel", Value: "me"}}},
		Rule{Attrs: Attrs{{Name: "on click", Value: "x"}}},
	)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	rule, _ := ce.Context().Get("rule")
	require.Equal(t, 1, rule)

	_, err = NewRuleSet(Rule{Attrs: Attrs{{Name: "className", Value: "x"}}})
	require.NoError(t, err)
}

func TestMustRuleSet_Panics(t *testing.T) {
	require.Panics(t, func() { MustRuleSet(Rule{Pattern: Expr("(")}) })
}

func TestPattern_Zero(t *testing.T) {
	require.True(t, Pattern{}.IsZero())
	require.True(t, Regexp(nil).IsZero())
	require.False(t, Expr("x").IsZero())
	require.Equal(t, "^a", Regexp(regexp.MustCompile("^a")).String())
}
