// deckcore-mcp serves a deckcore game over MCP stdio so an agent can play
// one seat against the built-in AI.
// Usage: deckcore-mcp [--config <file>] [--log <file>] [game.lua | game_directory]
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/nathoo/deckcore/config"
	"github.com/nathoo/deckcore/loader"
	"github.com/nathoo/deckcore/mcpserver"
	"github.com/nathoo/deckcore/types"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	var configPath, logFile, gamePath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("deckcore-mcp %s\n", version)
			return
		case "--config", "--log":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a value\n", args[i])
				os.Exit(1)
			}
			if args[i] == "--config" {
				configPath = args[i+1]
			} else {
				logFile = args[i+1]
			}
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
	if gamePath != "" {
		cfg.Script = gamePath
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	// Stdout carries the protocol, so logs only ever go to a file.
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var base types.GameDef
	if cfg.Script != "" {
		sc, err := loader.Load(cfg.Script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
			os.Exit(1)
		}
		for _, w := range sc.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		base = sc.Game
	}
	if base.Seed == 0 {
		base.Seed = cfg.Seed
	}

	s := server.NewMCPServer("deckcore", version)
	mcpserver.New(base, logger).Register(s)

	logger.Info("serving mcp", zap.String("script", cfg.Script))
	if err := server.ServeStdio(s); err != nil {
		logger.Error("mcp server stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
