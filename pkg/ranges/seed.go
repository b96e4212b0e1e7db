package ranges

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

// seed.json is a condensed snapshot of the agency's range message, enough to
// hyphenate without any database or network. A synchronization replaces it
// with the full current dataset.
//
//go:embed seed.json
var seedJSON []byte

// SeedInfo describes the provenance of the embedded dataset snapshot.
type SeedInfo struct {
	Source string `json:"source"`
	Serial string `json:"serial"`
	Date   string `json:"date"`
}

type seedFile struct {
	SeedInfo
	Groups []seedGroup `json:"groups"`
}

type seedGroup struct {
	Prefix string   `json:"prefix"`
	Agency string   `json:"agency"`
	Rules  []string `json:"rules"`
}

var builtin struct {
	once  sync.Once
	table *Table
	info  SeedInfo
}

// Builtin returns the table built from the embedded dataset snapshot. The
// snapshot is part of the binary, so a load failure is a programming error
// and panics.
func Builtin() *Table {
	builtin.once.Do(loadBuiltin)
	return builtin.table
}

// BuiltinInfo returns the provenance of the embedded dataset snapshot.
func BuiltinInfo() SeedInfo {
	builtin.once.Do(loadBuiltin)
	return builtin.info
}

func loadBuiltin() {
	var f seedFile
	if err := json.Unmarshal(seedJSON, &f); err != nil {
		panic(fmt.Sprintf("ranges: corrupt embedded dataset: %v", err))
	}
	groups := make([]Group, 0, len(f.Groups))
	for _, sg := range f.Groups {
		g := Group{Prefix: sg.Prefix, Agency: sg.Agency}
		for _, rs := range sg.Rules {
			r, err := ParseRule(rs)
			if err != nil {
				panic(fmt.Sprintf("ranges: embedded dataset group %s: %v", sg.Prefix, err))
			}
			g.Rules = append(g.Rules, r)
		}
		groups = append(groups, g)
	}
	t, err := New(groups)
	if err != nil {
		panic(fmt.Sprintf("ranges: embedded dataset: %v", err))
	}
	builtin.table = t
	builtin.info = f.SeedInfo
}
