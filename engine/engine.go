// Package engine provides the transition functions of the game: each takes
// a state and an intent and returns a new state. Inputs are never modified.
package engine

import (
	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/effects"
	"github.com/nathoo/deckcore/engine/events"
	"github.com/nathoo/deckcore/engine/resolve"
	"github.com/nathoo/deckcore/engine/rules"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

// HandSize is the number of cards drawn at the end of each turn.
const HandSize = 5

// Engine applies intents to states. It is not safe for concurrent use.
type Engine struct {
	// Shuffler replaces the state's seeded RNG when set. With it nil, every
	// shuffle is drawn from the RNG at State.Seed and State.RNGPos, so a
	// transition depends on nothing but its inputs.
	Shuffler state.Shuffler

	// live is the RNG the last transition left off with. A transition on
	// the state it produced picks it up instead of fast-forwarding from the
	// seed.
	live *RNG
}

// New creates an engine that shuffles from the state's own seed.
func New() *Engine {
	return &Engine{}
}

// Apply checks an intent against the rules and dispatches it to its
// transition. A rejected intent returns s itself and the reason.
func (e *Engine) Apply(s *types.State, in types.Intent) (*types.State, types.Result) {
	if err := rules.Check(s, in); err != nil {
		return s, types.Result{Err: err}
	}
	switch in.Kind {
	case types.IntentPlayAction:
		return e.playAction(s, in.HandIndex)
	case types.IntentPlayTreasure:
		return e.playTreasure(s, in.HandIndex)
	case types.IntentBuyPhase:
		return e.playAllTreasures(s)
	case types.IntentBuy:
		return e.buy(s, in.Card)
	case types.IntentEndTurn:
		return e.endTurn(s)
	case types.IntentResolve:
		return e.resolveChoice(s, in.Choice)
	}
	return s, types.Result{Err: rules.ErrUnknownIntent}
}

// PlayAction plays the action card at hand index i.
func (e *Engine) PlayAction(s *types.State, i int) (*types.State, types.Result) {
	return e.Apply(s, types.Intent{Kind: types.IntentPlayAction, HandIndex: i})
}

// PlayTreasure plays the treasure at hand index i.
func (e *Engine) PlayTreasure(s *types.State, i int) (*types.State, types.Result) {
	return e.Apply(s, types.Intent{Kind: types.IntentPlayTreasure, HandIndex: i})
}

// PlayAllTreasures plays every treasure in hand and enters the buy phase.
func (e *Engine) PlayAllTreasures(s *types.State) (*types.State, types.Result) {
	return e.Apply(s, types.Intent{Kind: types.IntentBuyPhase})
}

// Buy buys one card from the supply.
func (e *Engine) Buy(s *types.State, id string) (*types.State, types.Result) {
	return e.Apply(s, types.Intent{Kind: types.IntentBuy, Card: id})
}

// EndTurn passes the turn.
func (e *Engine) EndTurn(s *types.State) (*types.State, types.Result) {
	return e.Apply(s, types.Intent{Kind: types.IntentEndTurn})
}

// Resolve answers the pending effect with c.
func (e *Engine) Resolve(s *types.State, c types.Choice) (*types.State, types.Result) {
	return e.Apply(s, types.Intent{Kind: types.IntentResolve, Choice: c})
}

// transition clones s, runs fn on the clone and drains deferred Throne Room
// plays. If fn fails, s is returned untouched.
func (e *Engine) transition(s *types.State, fn func(*types.State, effects.Context) error) (*types.State, types.Result) {
	next := state.Clone(s)
	var rng *RNG
	sh := e.Shuffler
	if sh == nil {
		rng = e.rngAt(next.Seed, next.RNGPos)
		sh = rng
	}
	ctx := effects.Context{Shuffler: sh, Sink: events.NewSink(next)}
	if err := fn(next, ctx); err != nil {
		return s, types.Result{Err: err}
	}
	effects.Drain(next, ctx)
	if rng != nil {
		next.RNGPos = rng.Position()
		e.live = rng
	}
	return next, types.Result{Applied: true, Events: ctx.Sink.Events}
}

// rngAt returns an RNG positioned at (seed, pos), reusing the live one when
// it is already there. The live RNG is handed out at most once.
func (e *Engine) rngAt(seed, pos int64) *RNG {
	if r := e.live; r != nil && r.Seed() == seed && r.Position() == pos {
		e.live = nil
		return r
	}
	return RestoreRNG(seed, pos)
}

// playAction plays the action card at hand index i.
func (e *Engine) playAction(s *types.State, i int) (*types.State, types.Result) {
	return e.transition(s, func(n *types.State, ctx effects.Context) error {
		p := state.CurrentPlayer(n)
		var id string
		p.Hand, id = state.RemoveAt(p.Hand, i)
		p.PlayArea = append(p.PlayArea, id)
		n.Actions--
		ctx.Sink.Emitf(events.CardPlayed, n.Current, id, 1, "%s plays %s", p.Name, events.Name(id))
		effects.Apply(n, id, ctx)
		return nil
	})
}

// treasureValue returns the coins a treasure yields, consuming the Merchant
// bonus on the first Silver.
func treasureValue(n *types.State, id string) int {
	v := catalog.MustLookup(id).Coins
	if id == "silver" && n.MerchantBonus {
		n.MerchantBonus = false
		v++
	}
	return v
}

// playTreasure plays the treasure at hand index i.
func (e *Engine) playTreasure(s *types.State, i int) (*types.State, types.Result) {
	return e.transition(s, func(n *types.State, ctx effects.Context) error {
		p := state.CurrentPlayer(n)
		var id string
		p.Hand, id = state.RemoveAt(p.Hand, i)
		p.PlayArea = append(p.PlayArea, id)
		v := treasureValue(n, id)
		n.Coins += v
		ctx.Sink.Emitf(events.CardPlayed, n.Current, id, 1, "%s plays %s for $%d", p.Name, events.Name(id), v)
		return nil
	})
}

// playAllTreasures plays every treasure in hand and enters the buy phase.
// In the buy phase with no treasures in hand it is a no-op.
func (e *Engine) playAllTreasures(s *types.State) (*types.State, types.Result) {
	if s.Phase == types.PhaseBuy && state.IndexOfTag(s.Players[s.Current].Hand, catalog.Treasure) < 0 {
		return s, types.Result{}
	}
	return e.transition(s, func(n *types.State, ctx effects.Context) error {
		p := state.CurrentPlayer(n)
		var rest, played []string
		for _, id := range p.Hand {
			if catalog.MustLookup(id).Is(catalog.Treasure) {
				played = append(played, id)
			} else {
				rest = append(rest, id)
			}
		}
		bonus := n.MerchantBonus
		for _, id := range played {
			n.Coins += treasureValue(n, id)
		}
		if bonus && !n.MerchantBonus {
			ctx.Sink.Emitf(events.BonusGranted, n.Current, "merchant", 1, "Merchant bonus: +$1")
		}
		p.Hand = rest
		p.PlayArea = append(p.PlayArea, played...)
		n.Phase = types.PhaseBuy
		if len(played) > 0 {
			ctx.Sink.Emitf(events.TreasuresPlay, n.Current, "", len(played), "%s plays treasures for $%d", p.Name, n.Coins)
		}
		return nil
	})
}

// buy buys one card from the supply.
func (e *Engine) buy(s *types.State, id string) (*types.State, types.Result) {
	return e.transition(s, func(n *types.State, ctx effects.Context) error {
		c := catalog.MustLookup(id)
		state.Gain(n, n.Current, id, state.ZoneDiscard)
		n.Coins -= c.Cost
		n.Buys--
		ctx.Sink.Emitf(events.CardBought, n.Current, id, 1, "%s buys %s", events.PlayerName(n, n.Current), c.Name)
		return nil
	})
}

// endTurn cleans up, draws a new hand and passes the turn, then checks
// whether the game has ended. It is rejected while an effect is pending.
func (e *Engine) endTurn(s *types.State) (*types.State, types.Result) {
	return e.transition(s, func(n *types.State, ctx effects.Context) error {
		p := state.CurrentPlayer(n)
		p.Discard = append(p.Discard, p.Hand...)
		p.Discard = append(p.Discard, p.PlayArea...)
		p.Hand = nil
		p.PlayArea = nil
		state.Draw(p, HandSize, ctx.Shuffler)

		next := state.Opponent(n.Current)
		n.Current = next
		n.Phase = types.PhaseAction
		n.Actions = 1
		n.Buys = 1
		n.Coins = 0
		n.MerchantBonus = false
		n.Pending = nil
		n.Deferred = nil
		if next == 0 {
			n.Turn++
		}
		ctx.Sink.Emitf(events.TurnStarted, next, "", n.Turn, "--- Turn %d: %s's turn ---", n.Turn, events.PlayerName(n, next))

		if CheckGameEnd(n).Ended {
			finish(n, ctx.Sink)
		}
		return nil
	})
}

// resolveChoice answers the pending effect with c.
func (e *Engine) resolveChoice(s *types.State, c types.Choice) (*types.State, types.Result) {
	return e.transition(s, func(n *types.State, ctx effects.Context) error {
		return resolve.Resolve(n, c, ctx)
	})
}
