// Package effects applies a played card's effect descriptor to a state:
// flat bonuses, then the attack, then the card's special. Interactive
// specials leave a Pending on the state instead of choosing for the player.
package effects

import (
	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/events"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

// Pending-effect limits from the card texts.
const (
	CellarMax       = 99
	ChapelMax       = 4
	WorkshopMaxCost = 4
	ArtisanMaxCost  = 5
	LibraryHandSize = 7
	SentryReveal    = 2
	BanditReveal    = 2
	MilitiaHandSize = 3
	MoneylenderGain = 3
)

// Context carries the collaborators an effect application needs.
type Context struct {
	Shuffler state.Shuffler
	Sink     *events.Sink
}

// Apply resolves the effect of card id for the current player. The card
// must already be in the play area. s must be a state the caller owns.
func Apply(s *types.State, id string, ctx Context) {
	eff := catalog.MustLookup(id).Effect
	me := s.Current
	p := &s.Players[me]

	if eff.Draw > 0 {
		n := state.Draw(p, eff.Draw, ctx.Shuffler)
		ctx.Sink.Emitf(events.CardsDrawn, me, "", n, "%s draws %d", p.Name, n)
	}
	s.Actions += eff.Actions
	s.Buys += eff.Buys
	s.Coins += eff.Coins

	if eff.Attack != catalog.AttackNone {
		Attack(s, eff.Attack, ctx)
	}
	if eff.Special != catalog.SpecialNone {
		special(s, eff.Special, ctx)
	}
}

// ThroneRoom applies card id twice. When the first application leaves an
// effect pending, the second is pushed onto Deferred for Drain.
func ThroneRoom(s *types.State, id string, ctx Context) {
	Apply(s, id, ctx)
	if s.Pending != nil {
		s.Deferred = append(s.Deferred, id)
		return
	}
	Apply(s, id, ctx)
}

// Drain replays deferred Throne Room applications until one leaves an
// effect pending or none remain.
func Drain(s *types.State, ctx Context) {
	for s.Pending == nil && len(s.Deferred) > 0 && !s.GameOver {
		last := len(s.Deferred) - 1
		id := s.Deferred[last]
		s.Deferred = s.Deferred[:last]
		Apply(s, id, ctx)
	}
}

func special(s *types.State, sp catalog.Special, ctx Context) {
	me := s.Current
	p := &s.Players[me]
	k := ctx.Sink

	switch sp {
	case catalog.SpecialMoneylender:
		for i, id := range p.Hand {
			if id == "copper" {
				p.Hand, _ = state.RemoveAt(p.Hand, i)
				s.Trash = append(s.Trash, id)
				s.Coins += MoneylenderGain
				k.Emitf(events.CardsTrashed, me, id, 1, "%s trashes Copper for +$%d", p.Name, MoneylenderGain)
				break
			}
		}

	case catalog.SpecialMerchant:
		s.MerchantBonus = true

	case catalog.SpecialCellar:
		if len(p.Hand) > 0 {
			s.Pending = types.CellarPending{Player: me, Max: CellarMax}
		}

	case catalog.SpecialChapel:
		if len(p.Hand) > 0 {
			s.Pending = types.ChapelPending{Player: me, Max: ChapelMax}
		}

	case catalog.SpecialWorkshop:
		if len(state.Gainable(s, WorkshopMaxCost, nil)) > 0 {
			s.Pending = types.WorkshopPending{Player: me, MaxCost: WorkshopMaxCost}
		}

	case catalog.SpecialRemodel:
		if len(p.Hand) > 0 {
			s.Pending = types.RemodelPending{Player: me, Step: types.StepTrash}
		}

	case catalog.SpecialMine:
		if state.IndexOfTag(p.Hand, catalog.Treasure) >= 0 {
			s.Pending = types.MinePending{Player: me, Step: types.StepTrash}
		}

	case catalog.SpecialArtisan:
		if len(state.Gainable(s, ArtisanMaxCost, nil)) > 0 {
			s.Pending = types.ArtisanPending{Player: me, Step: types.StepGain, MaxCost: ArtisanMaxCost}
		}

	case catalog.SpecialBureaucrat:
		if state.Gain(s, me, "silver", state.ZoneDeck) {
			k.Emitf(events.CardGained, me, "silver", 1, "%s gains Silver onto deck", p.Name)
		}

	case catalog.SpecialBandit:
		if state.Gain(s, me, "gold", state.ZoneDiscard) {
			k.Emitf(events.CardGained, me, "gold", 1, "%s gains a Gold", p.Name)
		}

	case catalog.SpecialCouncilRoom:
		opp := state.Opponent(me)
		n := state.Draw(&s.Players[opp], 1, ctx.Shuffler)
		k.Emitf(events.CardsDrawn, opp, "", n, "%s draws %d", events.PlayerName(s, opp), n)

	case catalog.SpecialLibrary:
		if need := LibraryHandSize - len(p.Hand); need > 0 {
			n := state.Draw(p, need, ctx.Shuffler)
			k.Emitf(events.CardsDrawn, me, "", n, "%s draws to %d cards", p.Name, len(p.Hand))
		}

	case catalog.SpecialVassal:
		state.EnsureDeck(p, 1, ctx.Shuffler)
		top, ok := state.PopDeck(p)
		if !ok {
			return
		}
		p.Discard = append(p.Discard, top)
		k.Emitf(events.CardsDiscarded, me, top, 1, "%s discards %s", p.Name, events.Name(top))
		if catalog.MustLookup(top).Is(catalog.Action) {
			s.Pending = types.VassalPending{Player: me, Card: top}
		}

	case catalog.SpecialHarbinger:
		if len(p.Discard) > 0 {
			s.Pending = types.HarbingerPending{Player: me}
		}

	case catalog.SpecialSentry:
		state.EnsureDeck(p, SentryReveal, ctx.Shuffler)
		n := min(SentryReveal, len(p.Deck))
		if n == 0 {
			return
		}
		revealed := p.Deck[len(p.Deck)-n:]
		k.Emitf(events.CardRevealed, me, "", n, "%s reveals %s", p.Name, events.Names(revealed))
		s.Pending = types.SentryPending{Player: me, Count: n}

	case catalog.SpecialPoacher:
		if n := min(state.EmptyPiles(s), len(p.Hand)); n > 0 {
			s.Pending = types.PoacherPending{Player: me, Discard: n}
		}

	case catalog.SpecialThroneRoom:
		if state.IndexOfTag(p.Hand, catalog.Action) >= 0 {
			s.Pending = types.ThroneRoomPending{Player: me}
		}
	}
}
