// Package rules holds the precondition checks for each transition and the
// enumeration of legal intents. Checks never modify the state.
package rules

import (
	"errors"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

// Rejection reasons. Callers compare with errors.Is.
var (
	ErrGameOver        = errors.New("game is over")
	ErrPendingEffect   = errors.New("a card effect is waiting for a choice")
	ErrNoPendingEffect = errors.New("no card effect is waiting for a choice")
	ErrWrongPhase      = errors.New("not allowed in this phase")
	ErrNoActions       = errors.New("no actions left")
	ErrNoBuys          = errors.New("no buys left")
	ErrBadIndex        = errors.New("no card at that position")
	ErrNotAction       = errors.New("not an action card")
	ErrNotTreasure     = errors.New("not a treasure card")
	ErrNotInSupply     = errors.New("not in the supply")
	ErrPileEmpty       = errors.New("pile is empty")
	ErrCannotAfford    = errors.New("not enough coins")
	ErrBadChoice       = errors.New("choice does not fit the waiting effect")
	ErrUnknownIntent   = errors.New("unknown intent")
)

func checkOpen(s *types.State) error {
	if s.GameOver {
		return ErrGameOver
	}
	if s.Pending != nil {
		return ErrPendingEffect
	}
	return nil
}

func handCard(s *types.State, i int) (catalog.Card, error) {
	hand := s.Players[s.Current].Hand
	if i < 0 || i >= len(hand) {
		return catalog.Card{}, ErrBadIndex
	}
	return catalog.MustLookup(hand[i]), nil
}

// CheckPlayAction validates playing the action at hand index i.
func CheckPlayAction(s *types.State, i int) error {
	if err := checkOpen(s); err != nil {
		return err
	}
	if s.Phase != types.PhaseAction {
		return ErrWrongPhase
	}
	if s.Actions <= 0 {
		return ErrNoActions
	}
	c, err := handCard(s, i)
	if err != nil {
		return err
	}
	if !c.Is(catalog.Action) {
		return ErrNotAction
	}
	return nil
}

// CheckPlayTreasure validates playing the treasure at hand index i. Either
// phase is allowed.
func CheckPlayTreasure(s *types.State, i int) error {
	if err := checkOpen(s); err != nil {
		return err
	}
	c, err := handCard(s, i)
	if err != nil {
		return err
	}
	if !c.Is(catalog.Treasure) {
		return ErrNotTreasure
	}
	return nil
}

// CheckBuyPhase validates moving to the buy phase.
func CheckBuyPhase(s *types.State) error {
	return checkOpen(s)
}

// CheckBuy validates buying card id.
func CheckBuy(s *types.State, id string) error {
	if err := checkOpen(s); err != nil {
		return err
	}
	if s.Phase != types.PhaseBuy {
		return ErrWrongPhase
	}
	if s.Buys <= 0 {
		return ErrNoBuys
	}
	count, ok := s.Supply[id]
	if !ok {
		return ErrNotInSupply
	}
	if count <= 0 {
		return ErrPileEmpty
	}
	if catalog.MustLookup(id).Cost > s.Coins {
		return ErrCannotAfford
	}
	return nil
}

// CheckEndTurn validates ending the turn. An unresolved effect blocks it.
func CheckEndTurn(s *types.State) error {
	return checkOpen(s)
}

// CheckResolve validates that there is an effect to resolve.
func CheckResolve(s *types.State) error {
	if s.GameOver {
		return ErrGameOver
	}
	if s.Pending == nil {
		return ErrNoPendingEffect
	}
	return nil
}

// Check validates any intent.
func Check(s *types.State, in types.Intent) error {
	switch in.Kind {
	case types.IntentPlayAction:
		return CheckPlayAction(s, in.HandIndex)
	case types.IntentPlayTreasure:
		return CheckPlayTreasure(s, in.HandIndex)
	case types.IntentBuyPhase:
		return CheckBuyPhase(s)
	case types.IntentBuy:
		return CheckBuy(s, in.Card)
	case types.IntentEndTurn:
		return CheckEndTurn(s)
	case types.IntentResolve:
		return CheckResolve(s)
	}
	return ErrUnknownIntent
}

// Legal lists the intents the engine would accept now. While an effect is
// pending only resolve intents are listed; multi-select effects contribute a
// representative set of selections rather than every subset.
func Legal(s *types.State) []types.Intent {
	if s.GameOver {
		return nil
	}
	if s.Pending != nil {
		return legalChoices(s)
	}

	var out []types.Intent
	p := &s.Players[s.Current]
	for i, id := range p.Hand {
		c := catalog.MustLookup(id)
		if c.Is(catalog.Action) && s.Phase == types.PhaseAction && s.Actions > 0 {
			out = append(out, types.Intent{Kind: types.IntentPlayAction, HandIndex: i})
		}
		if c.Is(catalog.Treasure) {
			out = append(out, types.Intent{Kind: types.IntentPlayTreasure, HandIndex: i})
		}
	}
	if s.Phase == types.PhaseAction {
		out = append(out, types.Intent{Kind: types.IntentBuyPhase})
	}
	if s.Phase == types.PhaseBuy && s.Buys > 0 {
		for _, id := range state.Gainable(s, s.Coins, nil) {
			out = append(out, types.Intent{Kind: types.IntentBuy, Card: id})
		}
	}
	out = append(out, types.Intent{Kind: types.IntentEndTurn})
	return out
}

func resolve(c types.Choice) types.Intent {
	return types.Intent{Kind: types.IntentResolve, Choice: c}
}

func indexChoices(n int, keep func(int) bool) []types.Intent {
	var out []types.Intent
	for i := 0; i < n; i++ {
		if keep == nil || keep(i) {
			out = append(out, resolve(types.Choice{Kind: types.ChoiceIndex, Index: i}))
		}
	}
	return out
}

func cardChoices(s *types.State, maxCost int, keep func(catalog.Card) bool) []types.Intent {
	var out []types.Intent
	for _, id := range state.Gainable(s, maxCost, keep) {
		out = append(out, resolve(types.Choice{Kind: types.ChoiceCard, Card: id}))
	}
	return out
}

// upTo lists the empty selection and every single index.
func upTo(n int) []types.Intent {
	out := []types.Intent{resolve(types.Choice{Kind: types.ChoiceIndices, Indices: []int{}})}
	for i := 0; i < n; i++ {
		out = append(out, resolve(types.Choice{Kind: types.ChoiceIndices, Indices: []int{i}}))
	}
	return out
}

// exactly lists the first-k and last-k selections.
func exactly(n, k int) []types.Intent {
	first := make([]int, k)
	last := make([]int, k)
	for i := 0; i < k; i++ {
		first[i] = i
		last[i] = n - k + i
	}
	out := []types.Intent{resolve(types.Choice{Kind: types.ChoiceIndices, Indices: first})}
	if k > 0 && n > k {
		out = append(out, resolve(types.Choice{Kind: types.ChoiceIndices, Indices: last}))
	}
	return out
}

func isTreasure(c catalog.Card) bool { return c.Is(catalog.Treasure) }

func legalChoices(s *types.State) []types.Intent {
	owner := s.Pending.Owner()
	hand := s.Players[owner].Hand
	handTag := func(tag catalog.Tag) func(int) bool {
		return func(i int) bool { return catalog.MustLookup(hand[i]).Is(tag) }
	}
	confirm := resolve(types.Choice{Kind: types.ChoiceConfirm})
	decline := resolve(types.Choice{Kind: types.ChoiceDecline})

	switch p := s.Pending.(type) {
	case types.CellarPending:
		return upTo(len(hand))
	case types.ChapelPending:
		return upTo(len(hand))
	case types.MilitiaPending:
		return exactly(len(hand), p.Discard)
	case types.PoacherPending:
		return exactly(len(hand), p.Discard)
	case types.WorkshopPending:
		return cardChoices(s, p.MaxCost, nil)
	case types.RemodelPending:
		if p.Step == types.StepTrash {
			return indexChoices(len(hand), nil)
		}
		return cardChoices(s, p.MaxCost, nil)
	case types.MinePending:
		if p.Step == types.StepTrash {
			return indexChoices(len(hand), handTag(catalog.Treasure))
		}
		return cardChoices(s, p.MaxCost, isTreasure)
	case types.ArtisanPending:
		if p.Step == types.StepGain {
			return cardChoices(s, p.MaxCost, nil)
		}
		return indexChoices(len(hand), nil)
	case types.ThroneRoomPending:
		return indexChoices(len(hand), handTag(catalog.Action))
	case types.VassalPending:
		return []types.Intent{confirm, decline}
	case types.HarbingerPending:
		return append(indexChoices(len(s.Players[owner].Discard), nil), decline)
	case types.SentryPending:
		return upTo(p.Count)
	}
	return nil
}
