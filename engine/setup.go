package engine

import (
	"errors"
	"fmt"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

// Two-player supply sizes.
const (
	KingdomSize     = 10
	KingdomPile     = 10
	VictoryPile     = 8
	CursePile       = 10
	CopperTotal     = 60
	SilverPile      = 40
	GoldPile        = 30
	StartingCoppers = 7
	StartingEstates = 3
)

// ErrBadKingdom is returned by NewGame for an unusable kingdom list.
var ErrBadKingdom = errors.New("bad kingdom")

// DefaultSeats are used when a GameDef leaves seat names empty.
var DefaultSeats = [2]types.SeatDef{
	{Name: "You"},
	{Name: "AI", AI: true},
}

// ValidateKingdom checks that ids are distinct kingdom cards.
func ValidateKingdom(ids []string) error {
	kingdom := map[string]bool{}
	for _, id := range catalog.KingdomCards {
		kingdom[id] = true
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if !catalog.Has(id) {
			return fmt.Errorf("%w: %w: %q", ErrBadKingdom, catalog.ErrUnknownCard, id)
		}
		if !kingdom[id] {
			return fmt.Errorf("%w: %q is not a kingdom card", ErrBadKingdom, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %q listed twice", ErrBadKingdom, id)
		}
		seen[id] = true
	}
	if len(ids) > KingdomSize {
		return fmt.Errorf("%w: %d cards, at most %d", ErrBadKingdom, len(ids), KingdomSize)
	}
	return nil
}

// NewGame builds the opening state: supply, shuffled starting decks and
// first hands. An empty kingdom is chosen at random from the seed, on a
// stream separate from the deck shuffles.
func NewGame(def types.GameDef) (*types.State, error) {
	if err := ValidateKingdom(def.Kingdom); err != nil {
		return nil, err
	}
	// The kingdom is drawn from its own stream so the shuffles are the same
	// whether the kingdom was drawn here or passed back in by a record.
	kingdom := append([]string(nil), def.Kingdom...)
	if len(kingdom) == 0 {
		kingdom = catalog.RandomKingdom(NewRNG(kingdomSeed(def.Seed)), KingdomSize)
	}
	rng := NewRNG(def.Seed)

	s := &types.State{
		Supply: map[string]int{
			"copper":   CopperTotal - StartingCoppers*2,
			"silver":   SilverPile,
			"gold":     GoldPile,
			"estate":   VictoryPile,
			"duchy":    VictoryPile,
			"province": VictoryPile,
			"curse":    CursePile,
		},
		Kingdom: kingdom,
		Phase:   types.PhaseAction,
		Actions: 1,
		Buys:    1,
		Turn:    1,
		Seed:    def.Seed,
	}
	for _, id := range kingdom {
		s.Supply[id] = KingdomPile
		if catalog.MustLookup(id).Is(catalog.Victory) {
			s.Supply[id] = VictoryPile
		}
	}

	for i := range s.Players {
		seat := def.Seats[i]
		if seat.Name == "" {
			seat = DefaultSeats[i]
		}
		p := types.Player{ID: i, Name: seat.Name, IsAI: seat.AI}
		for j := 0; j < StartingCoppers; j++ {
			p.Deck = append(p.Deck, "copper")
		}
		for j := 0; j < StartingEstates; j++ {
			p.Deck = append(p.Deck, "estate")
		}
		rng.Shuffle(p.Deck)
		state.Draw(&p, HandSize, rng)
		s.Players[i] = p
	}

	s.Minted = map[string]int{}
	for id, n := range s.Supply {
		s.Minted[id] = n
	}
	s.Minted["copper"] += StartingCoppers * 2
	s.Minted["estate"] += StartingEstates * 2

	s.RNGPos = rng.Position()
	s.Log = []string{fmt.Sprintf("Game started! %s turn.", possessive(s.Players[0].Name))}
	return s, nil
}

// kingdomSalt separates the kingdom stream from the shuffle stream.
const kingdomSalt = 0x6b696e67646f6d

func kingdomSeed(seed int64) int64 {
	return seed ^ kingdomSalt
}

func possessive(name string) string {
	if name == "You" {
		return "Your"
	}
	return name + "'s"
}
