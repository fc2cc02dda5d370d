// Package loader reads game setup scripts written in Lua: the kingdom, the
// seats, the seed, the automated player's buy ladder and named kingdom
// presets. The Lua VM is discarded after loading.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/deckcore/types"
)

// Script is a loaded setup script.
type Script struct {
	Game     types.GameDef
	Presets  map[string][]string // script presets plus the built-in ones
	Warnings []string
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	games    []*lua.LTable
	buyRules []*lua.LTable
	presets  []rawPreset
}

// Load reads a setup script. path is either one .lua file or a directory
// whose .lua files run in order, game.lua first.
func Load(path string) (*Script, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading game script %s: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading game directory %s: %w", path, err)
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
				names = append(names, e.Name())
			}
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("no .lua files found in %s", path)
		}
		for _, name := range sortedLuaFiles(names) {
			files = append(files, filepath.Join(path, name))
		}
	} else {
		files = []string{path}
	}

	return run(func(L *lua.LState) error {
		for _, f := range files {
			if err := L.DoFile(f); err != nil {
				return fmt.Errorf("executing %s: %w", filepath.Base(f), err)
			}
		}
		return nil
	})
}

// LoadString runs a setup script held in memory.
func LoadString(src string) (*Script, error) {
	return run(func(L *lua.LState) error {
		if err := L.DoString(src); err != nil {
			return fmt.Errorf("executing script: %w", err)
		}
		return nil
	})
}

// run executes scripts in a fresh sandboxed VM, then compiles and validates
// what they defined.
func run(exec func(L *lua.LState) error) (*Script, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)
	if err := exec(L); err != nil {
		return nil, err
	}

	c, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game script: %w", err)
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	return c.Script, nil
}

func sortedLuaFiles(names []string) []string {
	sort.Slice(names, func(i, j int) bool {
		if names[i] == "game.lua" {
			return true
		}
		if names[j] == "game.lua" {
			return false
		}
		return names[i] < names[j]
	})
	return names
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the script.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Scripts must not pick their own random stream; the game seed does.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
