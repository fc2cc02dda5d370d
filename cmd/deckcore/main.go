// deckcore plays a two-player deck-building card game against an automated
// opponent in the terminal.
// Usage: deckcore [--version] [--plain] [--script <file>] [--trace] [--seed <n>]
//
//	[--config <file>] [--log <file>] [game.lua | game_directory]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"go.uber.org/zap"

	"github.com/nathoo/deckcore/cli"
	"github.com/nathoo/deckcore/config"
	"github.com/nathoo/deckcore/driver"
	"github.com/nathoo/deckcore/loader"
	"github.com/nathoo/deckcore/tui"
	"github.com/nathoo/deckcore/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: deckcore [--version] [--plain] [--script <file>] [--trace] [--seed <n>] [--config <file>] [--log <file>] [game.lua | game_directory]"

func main() {
	var (
		configPath string
		scriptFile string
		gamePath   string
		logFile    string
		plain      bool
		trace      bool
		seed       int64
	)

	args := os.Args[1:]
	next := func(i int, flag string) string {
		if i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
			os.Exit(1)
		}
		return args[i+1]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("deckcore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--help", "-h":
			fmt.Println(usage)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			scriptFile = next(i, "--script")
			i++
		case "--config":
			configPath = next(i, "--config")
			i++
		case "--log":
			logFile = next(i, "--log")
			i++
		case "--seed":
			v, err := strconv.ParseInt(next(i, "--seed"), 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed = v
			i++
		default:
			if gamePath == "" {
				gamePath = args[i]
			}
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	// Flags override the config file and environment.
	if gamePath != "" {
		cfg.Script = gamePath
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.Plain = cfg.Plain || plain
	cfg.Trace = cfg.Trace || trace

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	def, title, err := gameDef(cfg)
	if err != nil {
		logger.Error("loading game script", zap.String("script", cfg.Script), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	sess, err := driver.New(def, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting game: %v\n", err)
		os.Exit(1)
	}
	sess.Delay = cfg.AIDelay

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Script mode: open file, force plain, echo commands, no pacing.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		sess.Delay = 0
		fmt.Printf("%s\n\n", title)
		c := cli.New(sess, cfg.SaveDir)
		c.In = f
		c.EchoInput = true
		c.Meta.Trace = cfg.Trace
		if err := c.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Use plain CLI if --plain or stdout is not a terminal.
	if cfg.Plain || !isTerminal() {
		fmt.Printf("%s\n\n", title)
		c := cli.New(sess, cfg.SaveDir)
		c.Meta.Trace = cfg.Trace
		if err := c.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := tui.Run(sess, title, cfg.SaveDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// gameDef builds the game setup from the script named in cfg, if any, and
// the config's seed and seat.
func gameDef(cfg *config.Config) (types.GameDef, string, error) {
	var def types.GameDef
	if cfg.Script != "" {
		sc, err := loader.Load(cfg.Script)
		if err != nil {
			return def, "", err
		}
		for _, w := range sc.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		def = sc.Game
	}
	def = cfg.Apply(def)

	title := def.Title
	if title == "" {
		title = "deckcore"
	}
	return def, fmt.Sprintf("%s %s", title, version), nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
