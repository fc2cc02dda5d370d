// Package resolve applies a player's choice to the pending card effect. Each
// pending variant has its own resolver; a choice of the wrong shape, or one
// that is no longer legal, is rejected before anything changes.
package resolve

import (
	"fmt"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/effects"
	"github.com/nathoo/deckcore/engine/events"
	"github.com/nathoo/deckcore/engine/rules"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

// ChoiceError explains why a choice was rejected. It unwraps to
// rules.ErrBadChoice.
type ChoiceError struct {
	Pending types.PendingKind
	Reason  string
}

func (e *ChoiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pending, e.Reason)
}

func (e *ChoiceError) Unwrap() error {
	return rules.ErrBadChoice
}

func reject(p types.Pending, format string, args ...any) error {
	return &ChoiceError{Pending: p.Kind(), Reason: fmt.Sprintf(format, args...)}
}

// Resolve applies c to s.Pending. s must be a state the caller owns. On
// error s is unchanged.
func Resolve(s *types.State, c types.Choice, ctx effects.Context) error {
	switch p := s.Pending.(type) {
	case types.CellarPending:
		return cellar(s, p, c, ctx)
	case types.ChapelPending:
		return chapel(s, p, c, ctx)
	case types.MilitiaPending:
		return discardExactly(s, p, p.Discard, c, ctx)
	case types.PoacherPending:
		return discardExactly(s, p, p.Discard, c, ctx)
	case types.WorkshopPending:
		return workshop(s, p, c, ctx)
	case types.RemodelPending:
		return remodel(s, p, c, ctx)
	case types.MinePending:
		return mine(s, p, c, ctx)
	case types.ArtisanPending:
		return artisan(s, p, c, ctx)
	case types.ThroneRoomPending:
		return throneRoom(s, p, c, ctx)
	case types.VassalPending:
		return vassal(s, p, c, ctx)
	case types.HarbingerPending:
		return harbinger(s, p, c, ctx)
	case types.SentryPending:
		return sentry(s, p, c, ctx)
	case nil:
		return rules.ErrNoPendingEffect
	}
	return fmt.Errorf("%w: unhandled pending %T", rules.ErrBadChoice, s.Pending)
}

func expect(p types.Pending, c types.Choice, kind types.ChoiceKind) error {
	if c.Kind != kind {
		return reject(p, "expected a %s choice, got %q", kind, c.Kind)
	}
	return nil
}

func handIndices(p types.Pending, hand []string, c types.Choice, limit int) error {
	if err := expect(p, c, types.ChoiceIndices); err != nil {
		return err
	}
	if len(c.Indices) > limit {
		return reject(p, "at most %d cards", limit)
	}
	if !state.ValidIndices(c.Indices, len(hand)) {
		return reject(p, "indices must be distinct hand positions")
	}
	return nil
}

func handIndex(p types.Pending, hand []string, c types.Choice) error {
	if err := expect(p, c, types.ChoiceIndex); err != nil {
		return err
	}
	if c.Index < 0 || c.Index >= len(hand) {
		return reject(p, "no card at position %d", c.Index)
	}
	return nil
}

func supplyCard(s *types.State, p types.Pending, c types.Choice, maxCost int) (catalog.Card, error) {
	if err := expect(p, c, types.ChoiceCard); err != nil {
		return catalog.Card{}, err
	}
	count, ok := s.Supply[c.Card]
	if !ok {
		return catalog.Card{}, reject(p, "%q is not in the supply", c.Card)
	}
	if count <= 0 {
		return catalog.Card{}, reject(p, "%s pile is empty", events.Name(c.Card))
	}
	card := catalog.MustLookup(c.Card)
	if card.Cost > maxCost {
		return catalog.Card{}, reject(p, "%s costs %d, limit is %d", card.Name, card.Cost, maxCost)
	}
	return card, nil
}

func cellar(s *types.State, p types.CellarPending, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Player]
	if err := handIndices(p, pl.Hand, c, p.Max); err != nil {
		return err
	}
	var discarded []string
	pl.Hand, discarded = state.RemoveIndices(pl.Hand, c.Indices)
	pl.Discard = append(pl.Discard, discarded...)
	n := state.Draw(pl, len(discarded), ctx.Shuffler)
	ctx.Sink.Emitf(events.CardsDiscarded, p.Player, "", len(discarded), "%s discards %d and draws %d", pl.Name, len(discarded), n)
	s.Pending = nil
	return nil
}

func chapel(s *types.State, p types.ChapelPending, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Player]
	if err := handIndices(p, pl.Hand, c, p.Max); err != nil {
		return err
	}
	var trashed []string
	pl.Hand, trashed = state.RemoveIndices(pl.Hand, c.Indices)
	s.Trash = append(s.Trash, trashed...)
	if len(trashed) > 0 {
		ctx.Sink.Emitf(events.CardsTrashed, p.Player, "", len(trashed), "%s trashes %s", pl.Name, events.Names(trashed))
	}
	s.Pending = nil
	return nil
}

// discardExactly serves Militia and Poacher, which both need exactly n cards.
func discardExactly(s *types.State, p types.Pending, n int, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Owner()]
	if err := handIndices(p, pl.Hand, c, n); err != nil {
		return err
	}
	if len(c.Indices) != n {
		return reject(p, "choose exactly %d cards", n)
	}
	var discarded []string
	pl.Hand, discarded = state.RemoveIndices(pl.Hand, c.Indices)
	pl.Discard = append(pl.Discard, discarded...)
	ctx.Sink.Emitf(events.CardsDiscarded, p.Owner(), "", n, "%s discards %s", pl.Name, events.Names(discarded))
	s.Pending = nil
	return nil
}

func gain(s *types.State, player int, card catalog.Card, to state.Zone, ctx effects.Context) {
	state.Gain(s, player, card.ID, to)
	suffix := ""
	if to == state.ZoneHand {
		suffix = " to hand"
	}
	ctx.Sink.Emitf(events.CardGained, player, card.ID, 1, "%s gains %s%s", events.PlayerName(s, player), card.Name, suffix)
}

func workshop(s *types.State, p types.WorkshopPending, c types.Choice, ctx effects.Context) error {
	card, err := supplyCard(s, p, c, p.MaxCost)
	if err != nil {
		return err
	}
	gain(s, p.Player, card, state.ZoneDiscard, ctx)
	s.Pending = nil
	return nil
}

// trashFromHand removes the chosen card and returns it.
func trashFromHand(s *types.State, player, i int, ctx effects.Context) catalog.Card {
	pl := &s.Players[player]
	var id string
	pl.Hand, id = state.RemoveAt(pl.Hand, i)
	s.Trash = append(s.Trash, id)
	ctx.Sink.Emitf(events.CardsTrashed, player, id, 1, "%s trashes %s", pl.Name, events.Name(id))
	return catalog.MustLookup(id)
}

func remodel(s *types.State, p types.RemodelPending, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Player]
	switch p.Step {
	case types.StepTrash:
		if err := handIndex(p, pl.Hand, c); err != nil {
			return err
		}
		trashed := trashFromHand(s, p.Player, c.Index, ctx)
		next := types.RemodelPending{Player: p.Player, Step: types.StepGain, MaxCost: trashed.Cost + 2}
		s.Pending = nil
		if len(state.Gainable(s, next.MaxCost, nil)) > 0 {
			s.Pending = next
		}
		return nil
	case types.StepGain:
		card, err := supplyCard(s, p, c, p.MaxCost)
		if err != nil {
			return err
		}
		gain(s, p.Player, card, state.ZoneDiscard, ctx)
		s.Pending = nil
		return nil
	}
	return reject(p, "unknown step %q", p.Step)
}

func isTreasure(c catalog.Card) bool { return c.Is(catalog.Treasure) }

func mine(s *types.State, p types.MinePending, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Player]
	switch p.Step {
	case types.StepTrash:
		if err := handIndex(p, pl.Hand, c); err != nil {
			return err
		}
		if !catalog.MustLookup(pl.Hand[c.Index]).Is(catalog.Treasure) {
			return reject(p, "%s is not a treasure", events.Name(pl.Hand[c.Index]))
		}
		trashed := trashFromHand(s, p.Player, c.Index, ctx)
		next := types.MinePending{Player: p.Player, Step: types.StepGain, MaxCost: trashed.Cost + 3}
		s.Pending = nil
		if len(state.Gainable(s, next.MaxCost, isTreasure)) > 0 {
			s.Pending = next
		}
		return nil
	case types.StepGain:
		card, err := supplyCard(s, p, c, p.MaxCost)
		if err != nil {
			return err
		}
		if !card.Is(catalog.Treasure) {
			return reject(p, "%s is not a treasure", card.Name)
		}
		gain(s, p.Player, card, state.ZoneHand, ctx)
		s.Pending = nil
		return nil
	}
	return reject(p, "unknown step %q", p.Step)
}

func artisan(s *types.State, p types.ArtisanPending, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Player]
	switch p.Step {
	case types.StepGain:
		card, err := supplyCard(s, p, c, p.MaxCost)
		if err != nil {
			return err
		}
		gain(s, p.Player, card, state.ZoneHand, ctx)
		s.Pending = types.ArtisanPending{Player: p.Player, Step: types.StepTopdeck}
		return nil
	case types.StepTopdeck:
		if err := handIndex(p, pl.Hand, c); err != nil {
			return err
		}
		var id string
		pl.Hand, id = state.RemoveAt(pl.Hand, c.Index)
		pl.Deck = append(pl.Deck, id)
		ctx.Sink.Emitf(events.CardTopdecked, p.Player, id, 1, "%s topdecks %s", pl.Name, events.Name(id))
		s.Pending = nil
		return nil
	}
	return reject(p, "unknown step %q", p.Step)
}

func throneRoom(s *types.State, p types.ThroneRoomPending, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Player]
	if err := handIndex(p, pl.Hand, c); err != nil {
		return err
	}
	card := catalog.MustLookup(pl.Hand[c.Index])
	if !card.Is(catalog.Action) {
		return reject(p, "%s is not an action", card.Name)
	}
	pl.Hand, _ = state.RemoveAt(pl.Hand, c.Index)
	pl.PlayArea = append(pl.PlayArea, card.ID)
	s.Pending = nil
	ctx.Sink.Emitf(events.CardPlayed, p.Player, card.ID, 2, "%s plays %s twice with Throne Room", pl.Name, card.Name)
	effects.ThroneRoom(s, card.ID, ctx)
	return nil
}

func vassal(s *types.State, p types.VassalPending, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Player]
	switch c.Kind {
	case types.ChoiceDecline:
		s.Pending = nil
		return nil
	case types.ChoiceConfirm:
		last := len(pl.Discard) - 1
		if last < 0 || pl.Discard[last] != p.Card {
			return reject(p, "%s is no longer on the discard pile", events.Name(p.Card))
		}
		pl.Discard = pl.Discard[:last]
		pl.PlayArea = append(pl.PlayArea, p.Card)
		s.Pending = nil
		ctx.Sink.Emitf(events.CardPlayed, p.Player, p.Card, 1, "%s plays %s", pl.Name, events.Name(p.Card))
		effects.Apply(s, p.Card, ctx)
		return nil
	}
	return reject(p, "answer yes or no")
}

func harbinger(s *types.State, p types.HarbingerPending, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Player]
	switch c.Kind {
	case types.ChoiceDecline:
		s.Pending = nil
		return nil
	case types.ChoiceIndex:
		if c.Index < 0 || c.Index >= len(pl.Discard) {
			return reject(p, "no card at discard position %d", c.Index)
		}
		var id string
		pl.Discard, id = state.RemoveAt(pl.Discard, c.Index)
		pl.Deck = append(pl.Deck, id)
		ctx.Sink.Emitf(events.CardTopdecked, p.Player, id, 1, "%s topdecks %s", pl.Name, events.Name(id))
		s.Pending = nil
		return nil
	}
	return reject(p, "choose a discard position or none")
}

// sentry trashes the chosen revealed cards. Indices count from the top of
// the deck; the rest stay on top in their order.
func sentry(s *types.State, p types.SentryPending, c types.Choice, ctx effects.Context) error {
	pl := &s.Players[p.Player]
	if err := expect(p, c, types.ChoiceIndices); err != nil {
		return err
	}
	n := min(p.Count, len(pl.Deck))
	if !state.ValidIndices(c.Indices, n) {
		return reject(p, "indices must be distinct positions among the top %d cards", n)
	}
	top := make([]string, n)
	for i := 0; i < n; i++ {
		top[i] = pl.Deck[len(pl.Deck)-1-i]
	}
	kept, trashed := state.RemoveIndices(top, c.Indices)
	rest := pl.Deck[:len(pl.Deck)-n]
	deck := make([]string, 0, len(rest)+len(kept))
	deck = append(deck, rest...)
	for i := len(kept) - 1; i >= 0; i-- {
		deck = append(deck, kept[i])
	}
	pl.Deck = deck
	s.Trash = append(s.Trash, trashed...)
	if len(trashed) > 0 {
		ctx.Sink.Emitf(events.CardsTrashed, p.Player, "", len(trashed), "%s trashes %s with Sentry", pl.Name, events.Names(trashed))
	}
	s.Pending = nil
	return nil
}
