package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/deckcore/engine/parser"
	"github.com/nathoo/deckcore/types"
)

// rawPreset holds a preset table before compilation.
type rawPreset struct {
	name  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList reads the array part of tbl. Non-string entries are an error.
func stringList(tbl *lua.LTable) ([]string, error) {
	if tbl == nil {
		return nil, nil
	}
	out := make([]string, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("entry %d is %s, want string", i, tbl.RawGetInt(i).Type())
		}
		out = append(out, string(s))
	}
	return out, nil
}

// cardIDs maps display names to identifiers. Names that match nothing are
// kept as written for validate to report.
func cardIDs(names []string) []string {
	ids := make([]string, len(names))
	for i, name := range names {
		if id, err := parser.CardID(name); err == nil {
			ids[i] = id
		} else {
			ids[i] = name
		}
	}
	return ids
}

// compiled carries what validate needs beyond the Script itself.
type compiled struct {
	*Script
	games      int
	preset     string
	kingdomSet bool
	players    int
}

// compile converts the collected Lua tables into a Script.
func compile(coll *collector) (*compiled, error) {
	if len(coll.games) == 0 {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	c := &compiled{
		Script: &Script{Presets: map[string][]string{}},
		games:  len(coll.games),
	}
	for name, ids := range BuiltinPresets {
		c.Presets[name] = ids
	}

	for _, raw := range coll.presets {
		names, err := stringList(raw.table)
		if err != nil {
			return nil, fmt.Errorf("compiling preset %s: %w", raw.name, err)
		}
		c.Presets[raw.name] = cardIDs(names)
	}

	game := coll.games[len(coll.games)-1]
	if err := compileGame(c, game); err != nil {
		return nil, fmt.Errorf("compiling game: %w", err)
	}

	for i, tbl := range coll.buyRules {
		c.Game.BuyRules = append(c.Game.BuyRules, compileBuyRule(tbl))
		if c.Game.BuyRules[i].Card == "" {
			return nil, fmt.Errorf("compiling buy rule %d: missing card", i+1)
		}
	}
	return c, nil
}

func compileGame(c *compiled, tbl *lua.LTable) error {
	c.Game.Title = getString(tbl, "title")
	c.Game.Seed = int64(getNumber(tbl, "seed"))
	c.preset = getString(tbl, "preset")

	names, err := stringList(getTable(tbl, "kingdom"))
	if err != nil {
		return fmt.Errorf("kingdom: %w", err)
	}
	c.Game.Kingdom = cardIDs(names)
	c.kingdomSet = len(names) > 0
	if c.preset != "" && !c.kingdomSet {
		if ids, ok := FindPreset(c.Presets, c.preset); ok {
			c.Game.Kingdom = append([]string(nil), ids...)
		}
	}

	players := getTable(tbl, "players")
	if players == nil {
		return nil
	}
	c.players = players.MaxN()
	for i := 1; i <= c.players && i <= len(c.Game.Seats); i++ {
		p, ok := players.RawGetInt(i).(*lua.LTable)
		if !ok {
			return fmt.Errorf("players[%d] is not a table", i)
		}
		c.Game.Seats[i-1] = types.SeatDef{
			Name: getString(p, "name"),
			AI:   getBool(p, "ai", false),
		}
	}
	return nil
}

func compileBuyRule(tbl *lua.LTable) types.BuyRule {
	rule := types.BuyRule{
		Card:       getString(tbl, "card"),
		MinCoins:   getInt(tbl, "min_coins"),
		MaxOwned:   getInt(tbl, "max_owned"),
		LateGame:   getBool(tbl, "late_game", false),
		MinCards:   getInt(tbl, "min_cards"),
		MaxCards:   getInt(tbl, "max_cards"),
		CopperOver: getInt(tbl, "copper_over"),
	}
	if id, err := parser.CardID(rule.Card); err == nil {
		rule.Card = id
	}
	return rule
}
