package engine

import (
	"fmt"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/events"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

// EmptyPilesToEnd is how many exhausted supply piles end the game.
const EmptyPilesToEnd = 3

// Ended reports whether the supply meets an end condition: the Province
// pile is empty, or enough piles are.
func Ended(s *types.State) bool {
	if count, ok := s.Supply["province"]; ok && count <= 0 {
		return true
	}
	return state.EmptyPiles(s) >= EmptyPilesToEnd
}

// Score returns a player's victory points over every card they own.
func Score(p *types.Player) int {
	owned := state.OwnedCards(p)
	total := 0
	for _, id := range owned {
		total += catalog.MustLookup(id).Points(len(owned))
	}
	return total
}

// CheckGameEnd reports whether the game has ended and, if so, the scores.
func CheckGameEnd(s *types.State) types.GameEnd {
	if !s.GameOver && !Ended(s) {
		return types.GameEnd{}
	}
	scores := [2]int{Score(&s.Players[0]), Score(&s.Players[1])}
	return types.GameEnd{Ended: true, Scores: &scores}
}

// finish sets the terminal markers and logs the result.
func finish(s *types.State, k *events.Sink) {
	s.GameOver = true
	s.Scores = [2]int{Score(&s.Players[0]), Score(&s.Players[1])}
	switch {
	case s.Scores[0] > s.Scores[1]:
		s.Winner = 0
	case s.Scores[1] > s.Scores[0]:
		s.Winner = 1
	default:
		s.Winner = -1
	}

	a, b := s.Players[0], s.Players[1]
	k.Emitf(events.GameOver, s.Winner, "", 0, "Game Over! %s %d - %s %d", a.Name, s.Scores[0], b.Name, s.Scores[1])
	k.Emitf(events.GameOver, s.Winner, "", 0, "%s", WinnerLine(s))
}

// WinnerLine renders the result of a finished game.
func WinnerLine(s *types.State) string {
	if s.Winner < 0 {
		return "Tie!"
	}
	name := s.Players[s.Winner].Name
	if name == "You" {
		return "You win!"
	}
	return fmt.Sprintf("%s wins!", name)
}
