package rules

import (
	"testing"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRule(t *testing.T, mode Mode, nsID int, fragments, exceptions []string) *MatchRule {
	t.Helper()

	ns, err := DefaultNamespaces.ByID(nsID)
	require.NoError(t, err)

	r, err := NewMatchRule(mode, ns, fragments, exceptions)
	require.NoError(t, err)

	return r
}

func TestMatchRule_byNamespace(t *testing.T) {
	r := newTestRule(t, ModeByNamespace, 0, nil, []string{"Bar"})
	assert.True(t, r.Selects("Foo"))
	assert.False(t, r.Selects("Bar Baz"))
	assert.False(t, r.Selects("bar baz"))
	assert.True(t, r.Selects("Qux"))

	// The qualifier of an exception is discarded, the namespace of the rule
	// is used instead.
	r = newTestRule(t, ModeByNamespace, 10, nil, []string{"User:Foo", "Bar"})
	assert.False(t, r.Selects("Template:Foo"))
	assert.False(t, r.Selects("Template:Bar/doc"))
	assert.True(t, r.Selects("Template:Baz"))
	assert.True(t, r.Selects("User:Foo"))
}

func TestMatchRule_redLinks(t *testing.T) {
	r := newTestRule(t, ModeRedLinks, 0, nil, []string{"User:Foo"})
	assert.False(t, r.Selects("User:Foo/sandbox"))
	assert.True(t, r.Selects("Template:User:Foo"))
	assert.True(t, r.Selects("Foo"))

	r = newTestRule(t, ModeRedirects, 0, nil, nil)
	assert.True(t, r.Selects("Anything"))
}

func TestMatchRule_startsWith(t *testing.T) {
	r := newTestRule(t, ModeStartsWith, 0, []string{"Draft"}, []string{"Archive"})
	assert.True(t, r.Selects("Draft:One"))
	assert.False(t, r.Selects("Draft:Two Archive"))
	assert.False(t, r.Selects("Other"))
	assert.False(t, r.Selects("Archive of Draft"))

	r = newTestRule(t, ModeStartsWith, 0, []string{"Draft"}, []string{"2024"})
	assert.True(t, r.Match("Draft:Old/2024"))
	assert.True(t, r.IsExcepted("Draft:Old/2024"))
	assert.False(t, r.Selects("Draft:Old/2024"))
}

func TestMatchRule_endsWith(t *testing.T) {
	r := newTestRule(t, ModeEndsWith, 0, []string{"/doc"}, []string{"Help:"})
	assert.True(t, r.Selects("Template:Foo/doc"))
	assert.True(t, r.Selects("template:foo/DOC"))
	assert.False(t, r.Selects("Help:Baz/doc"))
	assert.False(t, r.Selects("Template:Bar"))
	assert.False(t, r.Selects("Template:Foo/doc/old"))
}

func TestMatchRule_escaping(t *testing.T) {
	r := newTestRule(t, ModeStartsWith, 0, []string{"Foo.Bar"}, nil)
	assert.True(t, r.Selects("Foo.Bar"))
	assert.False(t, r.Selects("FooXBar"))

	for _, f := range []string{"a*", "a+", "a?", "(a)", "[a]", "a|b", "^a", "a$", `a\b`} {
		r = newTestRule(t, ModeStartsWith, 0, []string{f}, nil)
		assert.True(t, r.Selects(f), "fragment %q", f)
	}

	r = newTestRule(t, ModeStartsWith, 0, []string{"a*"}, nil)
	assert.False(t, r.Selects("aaa"))
	assert.False(t, r.Selects("b"))
}

func TestMatchRule_normalization(t *testing.T) {
	r := newTestRule(t, ModeStartsWith, 0, []string{"Cafe\u0301"}, nil)
	assert.True(t, r.Selects("Caf\u00e9 Racer"))
	assert.True(t, r.Selects("Cafe\u0301/doc"))

	r = newTestRule(t, ModeEndsWith, 0, []string{"/doc"}, []string{"Caf\u00e9"})
	assert.True(t, r.IsExcepted("Cafe\u0301/doc"))
	assert.False(t, r.Selects("Cafe\u0301/doc"))
}

func TestNewMatchRule_invalid(t *testing.T) {
	_, err := NewMatchRule(ModeStartsWith, Namespace{}, []string{"Foo", ""}, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgumentShape))

	_, err = NewMatchRule(ModeRedLinks, Namespace{}, nil, []string{""})
	assert.True(t, errors.Is(err, ErrInvalidArgumentShape))

	_, err = NewMatchRule(Mode(42), Namespace{}, nil, nil)
	assert.Error(t, err)
}

func TestStripNamespaceQualifier(t *testing.T) {
	assert.Equal(t, "Foo", StripNamespaceQualifier("Template:Foo"))
	assert.Equal(t, "Foo", StripNamespaceQualifier("Foo"))
	assert.Equal(t, "Baz", StripNamespaceQualifier("A:B:Baz"))
	assert.Equal(t, "Foo/a:b", StripNamespaceQualifier("User:Foo/a:b"))
	assert.Equal(t, "Foo/a:b", StripNamespaceQualifier("Foo/a:b"))
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeByNamespace, ModeRedLinks, ModeRedirects, ModeStartsWith, ModeEndsWith} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	m, err := ParseMode("Starts-With")
	require.NoError(t, err)
	assert.Equal(t, ModeStartsWith, m)

	m, err = ParseMode("red_links")
	require.NoError(t, err)
	assert.Equal(t, ModeRedLinks, m)

	_, err = ParseMode("everything")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
