// Package cli provides line-mode terminal play: it prints the board, reads
// commands, and lets automated seats move between them.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/deckcore/console"
	"github.com/nathoo/deckcore/driver"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *driver.Session
	Meta      *console.Meta
	In        io.Reader
	Out       io.Writer
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"
}

// New creates a CLI for sess, saving to saveDir.
func New(sess *driver.Session, saveDir string) *CLI {
	return &CLI{
		Session: sess,
		Meta:    &console.Meta{Session: sess, SaveDir: saveDir},
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the game loop: it lets automated seats move, shows the board,
// then loops prompt, input, dispatch, output until input ends or /quit.
func (c *CLI) Run(ctx context.Context) error {
	for _, line := range c.Session.State.Log {
		c.printLine(line)
	}
	if err := c.runAutomated(ctx); err != nil {
		return err
	}
	c.printBoard()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if console.IsMeta(input) {
			lines, quit := c.Meta.Handle(input)
			for _, line := range lines {
				c.printSystem(line)
			}
			if quit {
				return nil
			}
			// A loaded or undone game may hand the move to an automated seat.
			if c.Session.Automated() {
				if err := c.runAutomated(ctx); err != nil {
					return err
				}
				c.printBoard()
			}
			continue
		}

		if strings.EqualFold(input, "again") {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		out := c.Session.Step(input)
		for _, line := range out.Lines {
			c.printLine(line)
		}
		if out.Err != nil {
			c.printSystem(out.Err.Error())
			continue
		}
		if c.Meta.Trace {
			for _, line := range console.TraceLines(out) {
				c.printLine(line)
			}
		}
		if !out.Applied {
			c.printSystem("Nothing to do.")
			continue
		}

		if err := c.runAutomated(ctx); err != nil {
			return err
		}
		c.printBoard()
	}
	return scanner.Err()
}

func (c *CLI) runAutomated(ctx context.Context) error {
	lines, err := c.Session.RunAutomated(ctx)
	for _, line := range lines {
		c.printLine(line)
	}
	return err
}

// printBoard shows the board when a human has to act, and the result once
// the game is over.
func (c *CLI) printBoard() {
	if c.Session.Automated() {
		return
	}
	c.printLine("")
	for _, line := range console.Board(c.Session.State, c.Meta.BoardSeat()) {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
