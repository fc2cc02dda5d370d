// Package console holds what the line-mode CLI and the TUI share: board
// rendering, pending-effect prompts and the slash meta commands.
package console

import (
	"fmt"
	"strings"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine"
	"github.com/nathoo/deckcore/engine/events"
	"github.com/nathoo/deckcore/types"
)

// Board renders the table as seen from seat: the supply, the opponent's
// zone sizes and seat's own cards. Hand positions are 1-based, matching
// the commands.
func Board(s *types.State, seat int) []string {
	me := &s.Players[seat]
	opp := &s.Players[1-seat]

	lines := []string{
		Status(s),
		"Supply: " + pileList(s, catalog.BasicCards),
		"Kingdom: " + pileList(s, s.Kingdom),
		fmt.Sprintf("%s: hand %d, deck %d, discard %d", opp.Name, len(opp.Hand), len(opp.Deck), len(opp.Discard)),
	}
	if cur := &s.Players[s.Current]; len(cur.PlayArea) > 0 {
		lines = append(lines, "In play: "+events.Names(cur.PlayArea))
	}
	lines = append(lines,
		"Hand: "+Hand(me.Hand),
		fmt.Sprintf("Deck %d | Discard %d | Trash %d", len(me.Deck), len(me.Discard), len(s.Trash)),
	)
	if p := Prompt(s); p != "" {
		lines = append(lines, p)
	}
	return lines
}

// Status is the one-line summary of whose turn it is.
func Status(s *types.State) string {
	if s.GameOver {
		return fmt.Sprintf("Game over after turn %d | %s %d - %s %d | %s",
			s.Turn, s.Players[0].Name, s.Scores[0], s.Players[1].Name, s.Scores[1], engine.WinnerLine(s))
	}
	phase := "Action"
	if s.Phase == types.PhaseBuy {
		phase = "Buy"
	}
	return fmt.Sprintf("Turn %d | %s | %s phase | Actions %d | Buys %d | Coins %d",
		s.Turn, s.Players[s.Current].Name, phase, s.Actions, s.Buys, s.Coins)
}

// Hand numbers cards from 1.
func Hand(ids []string) string {
	if len(ids) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d %s", i+1, events.Name(id))
	}
	return strings.Join(parts, ", ")
}

func pileList(s *types.State, ids []string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		c := catalog.MustLookup(id)
		parts = append(parts, fmt.Sprintf("%s $%d [%d]", c.Name, c.Cost, s.Supply[id]))
	}
	return strings.Join(parts, ", ")
}

// Prompt tells the owner of the pending effect what to answer, or returns
// "" when nothing is pending.
func Prompt(s *types.State) string {
	if s.Pending == nil {
		return ""
	}
	who := s.Players[s.Pending.Owner()].Name
	var ask string
	switch p := s.Pending.(type) {
	case types.CellarPending:
		ask = "Cellar: choose cards to discard and redraw (choose 1 3 ..., or none)"
	case types.ChapelPending:
		ask = fmt.Sprintf("Chapel: choose up to %d cards to trash (choose 1 2 ..., or none)", p.Max)
	case types.MilitiaPending:
		ask = fmt.Sprintf("Militia: choose %d cards to discard (choose 1 2 ...)", p.Discard)
	case types.PoacherPending:
		ask = fmt.Sprintf("Poacher: choose %d cards to discard (choose 1 2 ...)", p.Discard)
	case types.WorkshopPending:
		ask = fmt.Sprintf("Workshop: gain a card costing up to $%d (gain <card>)", p.MaxCost)
	case types.RemodelPending:
		ask = stepPrompt("Remodel", p.Step, p.MaxCost, "a card to trash")
	case types.MinePending:
		ask = stepPrompt("Mine", p.Step, p.MaxCost, "a treasure to trash")
	case types.ArtisanPending:
		ask = stepPrompt("Artisan", p.Step, p.MaxCost, "")
	case types.ThroneRoomPending:
		ask = "Throne Room: pick an action to play twice (pick <n>)"
	case types.VassalPending:
		ask = fmt.Sprintf("Vassal: play the discarded %s? (yes/no)", events.Name(p.Card))
	case types.HarbingerPending:
		ask = "Harbinger: pick a discard to put on your deck (pick <n>, or none). Discard: " +
			Hand(s.Players[p.Player].Discard)
	case types.SentryPending:
		ask = "Sentry: choose revealed cards to trash, top first (choose 1 2, or none). Top: " +
			Hand(topCards(s.Players[p.Player].Deck, p.Count))
	default:
		ask = string(s.Pending.Kind()) + ": waiting for a choice"
	}
	return fmt.Sprintf("%s, %s", who, ask)
}

func stepPrompt(card string, step types.Step, maxCost int, trash string) string {
	switch step {
	case types.StepTrash:
		return fmt.Sprintf("%s: pick %s (pick <n>)", card, trash)
	case types.StepTopdeck:
		return fmt.Sprintf("%s: pick a card to put on your deck (pick <n>)", card)
	default:
		return fmt.Sprintf("%s: gain a card costing up to $%d (gain <card>)", card, maxCost)
	}
}

// topCards lists up to n cards from the top of deck, top first.
func topCards(deck []string, n int) []string {
	n = min(n, len(deck))
	out := make([]string, n)
	for i := range out {
		out[i] = deck[len(deck)-1-i]
	}
	return out
}
