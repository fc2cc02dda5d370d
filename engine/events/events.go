// Package events records what a transition did. Each event carries a
// rendered log line, which is also appended to the state's log.
package events

import (
	"fmt"
	"strings"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/types"
)

// Event types.
const (
	CardPlayed     = "card_played"
	TreasuresPlay  = "treasures_played"
	CardBought     = "card_bought"
	CardGained     = "card_gained"
	CardsTrashed   = "cards_trashed"
	CardsDiscarded = "cards_discarded"
	CardsDrawn     = "cards_drawn"
	CardTopdecked  = "card_topdecked"
	CardRevealed   = "card_revealed"
	AttackBlocked  = "attack_blocked"
	BonusGranted   = "bonus_granted"
	TurnStarted    = "turn_started"
	GameOver       = "game_over"
)

// Sink collects the events emitted while one transition is applied and
// mirrors their text into State.Log.
type Sink struct {
	State  *types.State
	Events []types.Event
}

// NewSink returns a sink writing to s.
func NewSink(s *types.State) *Sink {
	return &Sink{State: s}
}

// Emit records an event and appends its text to the log.
func (k *Sink) Emit(ev types.Event) {
	k.Events = append(k.Events, ev)
	k.State.Log = append(k.State.Log, ev.Text)
}

// Emitf builds and records an event from a format string.
func (k *Sink) Emitf(typ string, player int, card string, count int, format string, args ...any) {
	k.Emit(types.Event{
		Type:   typ,
		Player: player,
		Card:   card,
		Count:  count,
		Text:   fmt.Sprintf(format, args...),
	})
}

// Name returns the display name of a card identifier.
func Name(id string) string {
	return catalog.MustLookup(id).Name
}

// Names joins the display names of ids with commas.
func Names(ids []string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = Name(id)
	}
	return strings.Join(names, ", ")
}

// PlayerName returns the seat's display name.
func PlayerName(s *types.State, player int) string {
	return s.Players[player].Name
}
