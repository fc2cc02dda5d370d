// Package ai implements the automated player: an action priority list, a
// buy ladder and one heuristic per pending effect. The engine knows nothing
// about it; a driver asks the policy for an intent whenever an automated
// seat has to act.
package ai

import (
	"sort"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

// LateGameProvinces is the Province pile size at or below which the ladder
// switches to late-game rules.
const LateGameProvinces = 4

// DefaultPriority orders action cards from most to least eager to play.
var DefaultPriority = []string{
	"village", "festival", "laboratory", "market",
	"harbinger", "vassal", "merchant", "sentry",
	"smithy", "councilRoom", "library",
	"cellar", "chapel",
	"moneylender", "mine", "remodel", "artisan",
	"workshop", "bureaucrat", "bandit",
	"militia", "witch",
	"throneRoom", "moat", "poacher",
}

// DefaultBuyRules is the standard ladder. Cards missing from the supply
// are skipped, so one ladder serves every kingdom.
var DefaultBuyRules = []types.BuyRule{
	{Card: "province", MinCoins: 8},
	{Card: "gold", MinCoins: 6},
	{Card: "duchy", MinCoins: 5, LateGame: true},

	{Card: "witch", MinCoins: 5, MaxOwned: 1},
	{Card: "market", MinCoins: 5, MaxOwned: 2},
	{Card: "laboratory", MinCoins: 5, MaxOwned: 2},
	{Card: "festival", MinCoins: 5, MaxOwned: 2},
	{Card: "sentry", MinCoins: 5, MaxOwned: 1},
	{Card: "mine", MinCoins: 5, MaxOwned: 1},
	{Card: "councilRoom", MinCoins: 5, MaxOwned: 1},
	{Card: "bandit", MinCoins: 5, MaxOwned: 1},

	{Card: "smithy", MinCoins: 4, MaxOwned: 2},
	{Card: "militia", MinCoins: 4, MaxOwned: 1},
	{Card: "remodel", MinCoins: 4, MaxOwned: 1},
	{Card: "moneylender", MinCoins: 4, MaxOwned: 1, CopperOver: 4},
	{Card: "throneRoom", MinCoins: 4, MaxOwned: 1},
	{Card: "poacher", MinCoins: 4, MaxOwned: 2},
	{Card: "bureaucrat", MinCoins: 4, MaxOwned: 1},
	{Card: "gardens", MinCoins: 4, MinCards: 20},

	{Card: "village", MinCoins: 3, MaxOwned: 3},
	{Card: "silver", MinCoins: 3},
	{Card: "workshop", MinCoins: 3, MaxOwned: 1},
	{Card: "merchant", MinCoins: 3, MaxOwned: 2},
	{Card: "harbinger", MinCoins: 3, MaxOwned: 1},
	{Card: "vassal", MinCoins: 3, MaxOwned: 1},

	{Card: "chapel", MinCoins: 2, MaxOwned: 1, MaxCards: 14},
	{Card: "cellar", MinCoins: 2, MaxOwned: 1},
	{Card: "moat", MinCoins: 2, MaxOwned: 1},
	{Card: "estate", MinCoins: 2, LateGame: true},
}

// Policy decides intents for an automated seat.
type Policy struct {
	Priority []string
	BuyRules []types.BuyRule
}

// New returns a policy with the default priority list and ladder. Non-empty
// rules replace the default ladder.
func New(rules []types.BuyRule) *Policy {
	p := &Policy{Priority: DefaultPriority, BuyRules: DefaultBuyRules}
	if len(rules) > 0 {
		p.BuyRules = rules
	}
	return p
}

// Seat returns the player who has to act next: the owner of the pending
// effect if there is one, else the current player. It is -1 once the game
// is over.
func Seat(s *types.State) int {
	if s.GameOver {
		return -1
	}
	if s.Pending != nil {
		return s.Pending.Owner()
	}
	return s.Current
}

// Next returns the intent the seat that has to act should take. It returns
// false when the game is over.
func (p *Policy) Next(s *types.State) (types.Intent, bool) {
	if s.GameOver {
		return types.Intent{}, false
	}
	if s.Pending != nil {
		return resolve(p.choose(s)), true
	}

	hand := s.Players[s.Current].Hand
	if s.Phase == types.PhaseAction {
		if s.Actions > 0 {
			if i := p.bestAction(hand); i >= 0 {
				return types.Intent{Kind: types.IntentPlayAction, HandIndex: i}, true
			}
		}
		return types.Intent{Kind: types.IntentBuyPhase}, true
	}

	if state.IndexOfTag(hand, catalog.Treasure) >= 0 {
		return types.Intent{Kind: types.IntentBuyPhase}, true
	}
	if s.Buys > 0 {
		if id, ok := p.Buy(s); ok {
			return types.Intent{Kind: types.IntentBuy, Card: id}, true
		}
	}
	return types.Intent{Kind: types.IntentEndTurn}, true
}

func resolve(c types.Choice) types.Intent {
	return types.Intent{Kind: types.IntentResolve, Choice: c}
}

// bestAction returns the hand index of the highest-priority action, or -1.
// Actions missing from the priority list come last.
func (p *Policy) bestAction(hand []string) int {
	rank := func(id string) int {
		for r, want := range p.Priority {
			if want == id {
				return r
			}
		}
		return len(p.Priority)
	}
	best, bestRank := -1, 0
	for i, id := range hand {
		if !catalog.MustLookup(id).Is(catalog.Action) {
			continue
		}
		if r := rank(id); best < 0 || r < bestRank {
			best, bestRank = i, r
		}
	}
	return best
}

// Buy walks the ladder for the current player and returns the first card
// that fits.
func (p *Policy) Buy(s *types.State) (string, bool) {
	pl := &s.Players[s.Current]
	total := len(state.OwnedCards(pl))
	late := s.Supply["province"] <= LateGameProvinces
	for _, r := range p.BuyRules {
		if s.Coins < r.MinCoins || s.Supply[r.Card] <= 0 {
			continue
		}
		c, err := catalog.Lookup(r.Card)
		if err != nil || c.Cost > s.Coins {
			continue
		}
		if r.LateGame && !late {
			continue
		}
		if r.MaxOwned > 0 && state.CountOwned(pl, r.Card) >= r.MaxOwned {
			continue
		}
		if r.MinCards > 0 && total < r.MinCards {
			continue
		}
		if r.MaxCards > 0 && total > r.MaxCards {
			continue
		}
		if r.CopperOver > 0 && state.CountOwned(pl, "copper") <= r.CopperOver {
			continue
		}
		return r.Card, true
	}
	return "", false
}

func cost(id string) int { return catalog.MustLookup(id).Cost }

func isJunk(id string) bool {
	return id == "copper" || id == "estate" || id == "curse"
}

func isDead(id string) bool {
	c := catalog.MustLookup(id)
	return c.Is(catalog.Victory) || c.Is(catalog.Curse)
}

// cheapestFirst returns hand indices ordered for discarding: victory and
// curse cards first, then by ascending cost.
func cheapestFirst(hand []string) []int {
	idx := make([]int, len(hand))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		da, db := isDead(hand[idx[a]]), isDead(hand[idx[b]])
		if da != db {
			return da
		}
		return cost(hand[idx[a]]) < cost(hand[idx[b]])
	})
	return idx
}

// indexOfCheapest returns the first lowest-cost index, or -1.
func indexOfCheapest(cards []string) int {
	best := -1
	for i, id := range cards {
		if best < 0 || cost(id) < cost(cards[best]) {
			best = i
		}
	}
	return best
}

// indexOfCostliest returns the first highest-cost index among cards keep
// accepts, or -1.
func indexOfCostliest(cards []string, keep func(string) bool) int {
	best := -1
	for i, id := range cards {
		if keep != nil && !keep(id) {
			continue
		}
		if best < 0 || cost(id) > cost(cards[best]) {
			best = i
		}
	}
	return best
}

// gainBest returns the first of prefer still gainable, else the costliest
// gainable card keep accepts, else the costliest gainable card.
func gainBest(s *types.State, maxCost int, keep func(catalog.Card) bool, prefer ...string) string {
	options := state.Gainable(s, maxCost, keep)
	if len(options) == 0 {
		options = state.Gainable(s, maxCost, nil)
	}
	for _, want := range prefer {
		for _, id := range options {
			if id == want {
				return id
			}
		}
	}
	if len(options) == 0 {
		return ""
	}
	return options[0]
}

func isTreasure(c catalog.Card) bool { return c.Is(catalog.Treasure) }

func isLive(c catalog.Card) bool { return !c.Is(catalog.Victory) && !c.Is(catalog.Curse) }

// choose answers the pending effect for its owner.
func (p *Policy) choose(s *types.State) types.Choice {
	owner := s.Pending.Owner()
	pl := &s.Players[owner]
	hand := pl.Hand

	switch pend := s.Pending.(type) {
	case types.CellarPending:
		var idx []int
		for i, id := range hand {
			if isDead(id) && len(idx) < pend.Max {
				idx = append(idx, i)
			}
		}
		return types.Choice{Kind: types.ChoiceIndices, Indices: idx}

	case types.ChapelPending:
		var idx []int
		for _, junk := range []string{"curse", "estate", "copper"} {
			for i, id := range hand {
				if id == junk && len(idx) < pend.Max {
					idx = append(idx, i)
				}
			}
		}
		return types.Choice{Kind: types.ChoiceIndices, Indices: idx}

	case types.MilitiaPending:
		return types.Choice{Kind: types.ChoiceIndices, Indices: cheapestFirst(hand)[:pend.Discard]}

	case types.PoacherPending:
		return types.Choice{Kind: types.ChoiceIndices, Indices: cheapestFirst(hand)[:pend.Discard]}

	case types.WorkshopPending:
		return types.Choice{Kind: types.ChoiceCard, Card: gainBest(s, pend.MaxCost, isLive, "silver", "village", "smithy")}

	case types.RemodelPending:
		if pend.Step == types.StepTrash {
			return types.Choice{Kind: types.ChoiceIndex, Index: indexOfCheapest(hand)}
		}
		return types.Choice{Kind: types.ChoiceCard, Card: gainBest(s, pend.MaxCost, nil)}

	case types.MinePending:
		if pend.Step == types.StepTrash {
			i := -1
			if s.Supply["gold"] > 0 {
				i = indexOf(hand, "silver")
			}
			if i < 0 && s.Supply["silver"] > 0 {
				i = indexOf(hand, "copper")
			}
			if i < 0 {
				i = state.IndexOfTag(hand, catalog.Treasure)
			}
			return types.Choice{Kind: types.ChoiceIndex, Index: i}
		}
		return types.Choice{Kind: types.ChoiceCard, Card: gainBest(s, pend.MaxCost, isTreasure)}

	case types.ArtisanPending:
		if pend.Step == types.StepGain {
			return types.Choice{Kind: types.ChoiceCard, Card: gainBest(s, pend.MaxCost, isLive)}
		}
		return types.Choice{Kind: types.ChoiceIndex, Index: indexOfCheapest(hand)}

	case types.ThroneRoomPending:
		isAction := func(id string) bool { return catalog.MustLookup(id).Is(catalog.Action) }
		return types.Choice{Kind: types.ChoiceIndex, Index: indexOfCostliest(hand, isAction)}

	case types.VassalPending:
		return types.Choice{Kind: types.ChoiceConfirm}

	case types.HarbingerPending:
		if i := indexOfCostliest(pl.Discard, nil); i >= 0 {
			return types.Choice{Kind: types.ChoiceIndex, Index: i}
		}
		return types.Choice{Kind: types.ChoiceDecline}

	case types.SentryPending:
		var idx []int
		n := min(pend.Count, len(pl.Deck))
		for i := 0; i < n; i++ {
			if isJunk(pl.Deck[len(pl.Deck)-1-i]) {
				idx = append(idx, i)
			}
		}
		return types.Choice{Kind: types.ChoiceIndices, Indices: idx}
	}
	return types.Choice{Kind: types.ChoiceDecline}
}

func indexOf(cards []string, want string) int {
	for i, id := range cards {
		if id == want {
			return i
		}
	}
	return -1
}
