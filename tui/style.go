package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleLog = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTurn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	styleBuy = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	styleAttack = lipgloss.NewStyle().
			Foreground(lipgloss.Color("204"))

	styleGameOver = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleHand = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindLog lineKind = iota
	kindTurn
	kindBuy
	kindAttack
	kindGameOver
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "--- Turn"):
		return kindTurn
	case strings.HasPrefix(line, "Game Over!"),
		strings.HasSuffix(line, " win!"),
		strings.HasSuffix(line, " wins!"),
		line == "Tie!":
		return kindGameOver
	case strings.Contains(line, " buys "):
		return kindBuy
	case strings.Contains(line, "gains a Curse"),
		strings.Contains(line, " reveals "),
		strings.Contains(line, " puts "):
		return kindAttack
	default:
		return kindLog
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurn:
		return styleTurn.Render(line)
	case kindBuy:
		return styleBuy.Render(line)
	case kindAttack:
		return styleAttack.Render(line)
	case kindGameOver:
		return styleGameOver.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleLog.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
