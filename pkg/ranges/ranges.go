// Package ranges holds the ISBN registration group table published by the
// International ISBN Agency: which group prefixes exist, which agency runs
// them and how wide the registrant element is inside each numbering zone.
package ranges

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

var pow10 = [8]int{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000}

// A Rule fixes the registrant length for one numbering zone of a group.
// Bounds are kept in Length-digit space: "0000000-1999999:2" becomes [0, 19].
type Rule struct {
	Min    int
	Max    int
	Length int
}

// ParseRule parses the serialized rule form used by the range dataset,
// e.g. "0000000-1999999:2": two 7-digit bounds followed by the registrant
// length. Bounds are truncated to the first Length digits; the truncated
// part must be all zeros on the lower bound and all nines on the upper one.
func ParseRule(s string) (Rule, error) {
	bounds, lengthStr, ok := strings.Cut(s, ":")
	if !ok {
		return Rule{}, fmt.Errorf("rule %q: missing length", s)
	}
	low, high, ok := strings.Cut(bounds, "-")
	if !ok || len(low) != 7 || len(high) != 7 || !isDigits(low) || !isDigits(high) {
		return Rule{}, fmt.Errorf("rule %q: bounds must be two 7-digit numbers", s)
	}
	length, err := strconv.Atoi(lengthStr)
	if err != nil || length < 1 || length > 7 {
		return Rule{}, fmt.Errorf("rule %q: length must be between 1 and 7", s)
	}
	if low[length:] != strings.Repeat("0", 7-length) || high[length:] != strings.Repeat("9", 7-length) {
		return Rule{}, fmt.Errorf("rule %q: bounds are not aligned to length %d", s, length)
	}
	min, _ := strconv.Atoi(low[:length])
	max, _ := strconv.Atoi(high[:length])
	if min > max {
		return Rule{}, fmt.Errorf("rule %q: lower bound above upper bound", s)
	}
	return Rule{Min: min, Max: max, Length: length}, nil
}

// String renders the rule back to its serialized 7-digit form.
func (r Rule) String() string {
	pad := pow10[7-r.Length]
	return fmt.Sprintf("%07d-%07d:%d", r.Min*pad, r.Max*pad+pad-1, r.Length)
}

// Contains reports whether the first Length digits of the remainder, taken
// as an integer, fall inside the rule's bounds.
func (r Rule) Contains(remainder string) bool {
	if r.Length > len(remainder) {
		return false
	}
	n, err := strconv.Atoi(remainder[:r.Length])
	if err != nil {
		return false
	}
	return n >= r.Min && n <= r.Max
}

// A Group is one registration group of the range table.
type Group struct {
	Prefix string // hyphenated, e.g. "978-0"
	Agency string
	Rules  []Rule
}

// Key returns the group's digit form, e.g. "9780".
func (g Group) Key() string {
	return strings.Replace(g.Prefix, "-", "", 1)
}

// Registrant splits the registrant off the remainder (group digits and check
// digit removed) by applying the group's rules in declared order.
func (g Group) Registrant(remainder string) (string, bool) {
	for _, r := range g.Rules {
		if r.Contains(remainder) {
			return remainder[:r.Length], true
		}
	}
	return "", false
}

// Table is an immutable registration group index. Build one with New and
// treat it as read-only afterwards; lookups are safe for concurrent use.
type Table struct {
	groups map[string]Group
	keys   []string
	maxKey int
	rules  int
}

// New builds a table from registration groups. Every prefix must carry the
// 978 or 979 EAN prefix and a unique group code of 1 to 5 digits.
func New(groups []Group) (*Table, error) {
	t := &Table{groups: make(map[string]Group, len(groups))}
	for _, g := range groups {
		ean, code, ok := strings.Cut(g.Prefix, "-")
		if !ok || (ean != "978" && ean != "979") {
			return nil, fmt.Errorf("group %q: prefix must start with 978- or 979-", g.Prefix)
		}
		if code == "" || len(code) > 5 || !isDigits(code) {
			return nil, fmt.Errorf("group %q: group code must be 1 to 5 digits", g.Prefix)
		}
		key := ean + code
		if _, exists := t.groups[key]; exists {
			return nil, fmt.Errorf("group %q: duplicate prefix", g.Prefix)
		}
		t.groups[key] = g
		t.keys = append(t.keys, key)
		if len(key) > t.maxKey {
			t.maxKey = len(key)
		}
		t.rules += len(g.Rules)
	}
	sort.Strings(t.keys)
	return t, nil
}

// Find returns the group whose key is the longest prefix of the given digit
// sequence. Distinct keys of equal length can never prefix the same
// sequence, so longest-first lookup is unambiguous.
func (t *Table) Find(digits string) (Group, bool) {
	longest := t.maxKey
	if len(digits) < longest {
		longest = len(digits)
	}
	for n := longest; n >= 4; n-- {
		if g, ok := t.groups[digits[:n]]; ok {
			return g, true
		}
	}
	return Group{}, false
}

// Group returns the group registered under the given digit key, e.g. "9780".
func (t *Table) Group(key string) (Group, bool) {
	g, ok := t.groups[key]
	return g, ok
}

// Groups returns all groups ordered by key.
func (t *Table) Groups() []Group {
	out := make([]Group, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, t.groups[key])
	}
	return out
}

// Len returns the number of registration groups.
func (t *Table) Len() int {
	return len(t.groups)
}

// RuleCount returns the number of registrant rules across all groups.
func (t *Table) RuleCount() int {
	return t.rules
}

var current atomic.Pointer[Table]

// Current returns the process-wide table. It starts out as the embedded
// dataset and is replaced through SetCurrent after a successful refresh.
func Current() *Table {
	if t := current.Load(); t != nil {
		return t
	}
	current.CompareAndSwap(nil, Builtin())
	return current.Load()
}

// SetCurrent atomically replaces the process-wide table. Nil tables are
// ignored.
func SetCurrent(t *Table) {
	if t != nil {
		current.Store(t)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
