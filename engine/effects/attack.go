package effects

import (
	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/events"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

// Attack resolves one attack against the current player's opponent. A
// reaction card in the opponent's hand negates it entirely.
func Attack(s *types.State, kind catalog.AttackKind, ctx Context) {
	opp := state.Opponent(s.Current)
	op := &s.Players[opp]
	k := ctx.Sink

	if i := state.IndexOfTag(op.Hand, catalog.Reaction); i >= 0 {
		k.Emitf(events.AttackBlocked, opp, op.Hand[i], 0, "%s reveals %s!", op.Name, events.Name(op.Hand[i]))
		return
	}

	switch kind {
	case catalog.AttackDiscardTo3:
		if n := len(op.Hand) - MilitiaHandSize; n > 0 {
			s.Pending = types.MilitiaPending{Player: opp, Discard: n}
		}

	case catalog.AttackCurse:
		if state.Gain(s, opp, "curse", state.ZoneDiscard) {
			k.Emitf(events.CardGained, opp, "curse", 1, "%s gains a Curse", op.Name)
		}

	case catalog.AttackBureaucrat:
		i := state.IndexOfTag(op.Hand, catalog.Victory)
		if i < 0 {
			k.Emitf(events.CardRevealed, opp, "", len(op.Hand), "%s reveals a hand with no victory cards", op.Name)
			return
		}
		var id string
		op.Hand, id = state.RemoveAt(op.Hand, i)
		op.Deck = append(op.Deck, id)
		k.Emitf(events.CardTopdecked, opp, id, 1, "%s puts %s on their deck", op.Name, events.Name(id))

	case catalog.AttackBandit:
		bandit(s, opp, ctx)
	}
}

func bandit(s *types.State, opp int, ctx Context) {
	op := &s.Players[opp]
	state.EnsureDeck(op, BanditReveal, ctx.Shuffler)

	var revealed []string
	for i := 0; i < BanditReveal; i++ {
		top, ok := state.PopDeck(op)
		if !ok {
			break
		}
		revealed = append(revealed, top)
	}
	if len(revealed) == 0 {
		return
	}
	ctx.Sink.Emitf(events.CardRevealed, opp, "", len(revealed), "%s reveals %s", op.Name, events.Names(revealed))

	victim := -1
	for i, id := range revealed {
		c := catalog.MustLookup(id)
		if !c.Is(catalog.Treasure) || id == "copper" {
			continue
		}
		if victim < 0 || c.Cost > catalog.MustLookup(revealed[victim]).Cost {
			victim = i
		}
	}
	for i, id := range revealed {
		if i == victim {
			s.Trash = append(s.Trash, id)
			ctx.Sink.Emitf(events.CardsTrashed, opp, id, 1, "%s trashes %s", op.Name, events.Name(id))
			continue
		}
		op.Discard = append(op.Discard, id)
	}
}
