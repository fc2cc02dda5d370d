package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/parser"
)

// registerAPI registers the Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerCardHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", seed = 42, kingdom = {...}, players = {...} }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.games = append(coll.games, L.CheckTable(1))
		return 0
	}))

	// BuyRule { card = "province", min_coins = 8, ... }, in priority order.
	L.SetGlobal("BuyRule", L.NewFunction(func(L *lua.LState) int {
		coll.buyRules = append(coll.buyRules, L.CheckTable(1))
		return 0
	}))

	// Preset "name" { "cellar", "market", ... }, curried.
	L.SetGlobal("Preset", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.presets = append(coll.presets, rawPreset{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))
}

func registerCardHelpers(L *lua.LState) {
	// Cards() returns every kingdom card ID.
	L.SetGlobal("Cards", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		for _, id := range catalog.KingdomCards {
			tbl.Append(lua.LString(id))
		}
		L.Push(tbl)
		return 1
	}))

	// Cost("Throne Room") returns a card's cost, or nil for an unknown name.
	L.SetGlobal("Cost", L.NewFunction(func(L *lua.LState) int {
		id, err := parser.CardID(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(catalog.MustLookup(id).Cost))
		return 1
	}))
}
