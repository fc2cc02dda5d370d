package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/deckcore/console"
)

// renderStatusBar produces a full-width inverted status line: the turn
// summary on the left, the viewer's pile sizes on the right.
func (m Model) renderStatusBar() string {
	s := m.session.State
	me := &s.Players[m.meta.BoardSeat()]

	left := " " + console.Status(s)
	right := fmt.Sprintf("Deck %d | Discard %d ", len(me.Deck), len(me.Discard))
	if m.thinking {
		right = s.Players[s.Current].Name + " is thinking... | " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		// Too narrow for both; the turn summary wins.
		right = ""
		gap = m.width - lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderHandPanel shows the viewer's hand and, when they owe a choice, the
// prompt for it.
func (m Model) renderHandPanel() []string {
	s := m.session.State
	width := max(m.width, 10)
	lines := []string{styleHand.Render(wordWrap("Hand: "+console.Hand(s.Players[m.meta.BoardSeat()].Hand), width))}
	if p := console.Prompt(s); p != "" {
		lines = append(lines, stylePrompt.Render(wordWrap(p, width)))
	}
	return lines
}
