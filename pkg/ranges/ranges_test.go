package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRule(t *testing.T) {
	r, err := ParseRule("0000000-1999999:2")
	assert.NoError(t, err)
	assert.Equal(t, Rule{Min: 0, Max: 19, Length: 2}, r)

	r, err = ParseRule("8698000-9989899:6")
	assert.NoError(t, err)
	assert.Equal(t, Rule{Min: 869800, Max: 998989, Length: 6}, r)

	r, err = ParseRule("0000000-9999999:7")
	assert.NoError(t, err)
	assert.Equal(t, Rule{Min: 0, Max: 9999999, Length: 7}, r)

	// Single-value ranges are legal.
	r, err = ParseRule("9000000-9099999:2")
	assert.NoError(t, err)
	assert.Equal(t, Rule{Min: 90, Max: 90, Length: 2}, r)
}

func TestParseRuleErrors(t *testing.T) {
	_, err := ParseRule("0000000-1999999")
	assert.ErrorContains(t, err, "missing length")

	_, err = ParseRule("00000001999999:2")
	assert.ErrorContains(t, err, "7-digit")

	_, err = ParseRule("000000-999999:2")
	assert.ErrorContains(t, err, "7-digit")

	_, err = ParseRule("000000a-1999999:2")
	assert.ErrorContains(t, err, "7-digit")

	_, err = ParseRule("0000000-1999999:0")
	assert.ErrorContains(t, err, "between 1 and 7")

	_, err = ParseRule("0000000-1999999:8")
	assert.ErrorContains(t, err, "between 1 and 7")

	_, err = ParseRule("0000000-1850000:2")
	assert.ErrorContains(t, err, "not aligned")

	_, err = ParseRule("5000000-1999999:2")
	assert.ErrorContains(t, err, "lower bound above upper bound")
}

func TestRuleString(t *testing.T) {
	for _, s := range []string{
		"0000000-1999999:2",
		"8698000-9989899:6",
		"0000000-9999999:1",
		"9900000-9909999:7",
		"0100000-3999999:2",
	} {
		r, err := ParseRule(s)
		assert.NoError(t, err)
		assert.Equal(t, s, r.String())
	}
}

func TestRuleContains(t *testing.T) {
	r := Rule{Min: 4000, Max: 5499, Length: 4}
	assert.True(t, r.Contains("40885589"))
	assert.True(t, r.Contains("54999999"))
	assert.False(t, r.Contains("39999999"))
	assert.False(t, r.Contains("55000000"))
	assert.False(t, r.Contains("408"))

	// Leading zeros still compare numerically.
	r = Rule{Min: 0, Max: 19, Length: 2}
	assert.True(t, r.Contains("07036822"))
	assert.False(t, r.Contains("30640615"))
}

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "9780", Group{Prefix: "978-0"}.Key())
	assert.Equal(t, "97910", Group{Prefix: "979-10"}.Key())
	assert.Equal(t, "97899901", Group{Prefix: "978-99901"}.Key())
}

func TestGroupRegistrant(t *testing.T) {
	g, ok := Builtin().Group("9780")
	assert.True(t, ok)
	assert.Equal(t, "English language", g.Agency)

	registrant, ok := g.Registrant("30640615")
	assert.True(t, ok)
	assert.Equal(t, "306", registrant)

	registrant, ok = g.Registrant("19999999")
	assert.True(t, ok)
	assert.Equal(t, "19", registrant)

	// Denmark keeps unallocated gaps between its rules.
	g, ok = Builtin().Group("97887")
	assert.True(t, ok)
	_, ok = g.Registrant("3012345")
	assert.False(t, ok)
}

func TestGroupRegistrantOrder(t *testing.T) {
	g := Group{Prefix: "978-0", Rules: []Rule{
		{Min: 30, Max: 39, Length: 2},
		{Min: 300, Max: 399, Length: 3},
	}}
	registrant, ok := g.Registrant("30640615")
	assert.True(t, ok)
	assert.Equal(t, "30", registrant)
}

func TestNewErrors(t *testing.T) {
	_, err := New([]Group{{Prefix: "977-0"}})
	assert.ErrorContains(t, err, "978- or 979-")

	_, err = New([]Group{{Prefix: "9780"}})
	assert.ErrorContains(t, err, "978- or 979-")

	_, err = New([]Group{{Prefix: "978-"}})
	assert.ErrorContains(t, err, "1 to 5 digits")

	_, err = New([]Group{{Prefix: "978-123456"}})
	assert.ErrorContains(t, err, "1 to 5 digits")

	_, err = New([]Group{{Prefix: "978-12a"}})
	assert.ErrorContains(t, err, "1 to 5 digits")

	_, err = New([]Group{{Prefix: "978-0"}, {Prefix: "978-0"}})
	assert.ErrorContains(t, err, "duplicate")
}

func TestGroupsOrdered(t *testing.T) {
	table, err := New([]Group{
		{Prefix: "978-99901", Agency: "Bahrain"},
		{Prefix: "978-0", Agency: "English language"},
		{Prefix: "979-8", Agency: "United States"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	groups := table.Groups()
	assert.Equal(t, "978-0", groups[0].Prefix)
	assert.Equal(t, "978-99901", groups[1].Prefix)
	assert.Equal(t, "979-8", groups[2].Prefix)
}

func TestFindLongestPrefix(t *testing.T) {
	table, err := New([]Group{
		{Prefix: "978-9", Agency: "one digit", Rules: []Rule{{Min: 0, Max: 99, Length: 2}}},
		{Prefix: "978-99", Agency: "two digits", Rules: []Rule{{Min: 0, Max: 999, Length: 3}}},
	})
	assert.NoError(t, err)

	g, ok := table.Find("9789912345676")
	assert.True(t, ok)
	assert.Equal(t, "978-99", g.Prefix)

	g, ok = table.Find("9789812345676")
	assert.True(t, ok)
	assert.Equal(t, "978-9", g.Prefix)

	_, ok = table.Find("9788812345676")
	assert.False(t, ok)
}

func TestFindBuiltin(t *testing.T) {
	g, ok := Builtin().Find("9781408855898")
	assert.True(t, ok)
	assert.Equal(t, "978-1", g.Prefix)

	g, ok = Builtin().Find("9789100123451")
	assert.True(t, ok)
	assert.Equal(t, "978-91", g.Prefix)
	assert.Equal(t, "Sweden", g.Agency)

	g, ok = Builtin().Find("9789990112344")
	assert.True(t, ok)
	assert.Equal(t, "978-99901", g.Prefix)

	_, ok = Builtin().Find("9792123456789")
	assert.False(t, ok)

	_, ok = Builtin().Find("978")
	assert.False(t, ok)
}

func TestBuiltin(t *testing.T) {
	table := Builtin()
	assert.Same(t, table, Builtin())
	assert.Greater(t, table.Len(), 80)
	assert.Greater(t, table.RuleCount(), 400)

	info := BuiltinInfo()
	assert.Equal(t, "isbn-international.org", info.Source)
	assert.Equal(t, "6f8a2c41", info.Serial)
	assert.NotEmpty(t, info.Date)
}

func TestCurrentTable(t *testing.T) {
	assert.Same(t, Builtin(), Current())

	custom, err := New([]Group{{Prefix: "978-0", Agency: "English language", Rules: []Rule{{Min: 0, Max: 19, Length: 2}}}})
	assert.NoError(t, err)
	SetCurrent(custom)
	defer SetCurrent(Builtin())
	assert.Same(t, custom, Current())

	SetCurrent(nil)
	assert.Same(t, custom, Current())
}
