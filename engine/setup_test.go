package engine

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine/rules"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

func TestNewGame_Setup(t *testing.T) {
	kingdom := []string{"cellar", "chapel", "moat", "village", "workshop", "militia", "remodel", "smithy", "throneRoom", "gardens"}
	s, err := NewGame(types.GameDef{Seed: 7, Kingdom: kingdom})
	if err != nil {
		t.Fatal(err)
	}

	if s.Supply["copper"] != 46 || s.Supply["silver"] != 40 || s.Supply["gold"] != 30 {
		t.Errorf("treasure piles = %d %d %d", s.Supply["copper"], s.Supply["silver"], s.Supply["gold"])
	}
	for _, id := range []string{"estate", "duchy", "province", "gardens"} {
		if s.Supply[id] != 8 {
			t.Errorf("%s pile = %d, want 8", id, s.Supply[id])
		}
	}
	if s.Supply["curse"] != 10 || s.Supply["smithy"] != 10 {
		t.Errorf("curse=%d smithy=%d", s.Supply["curse"], s.Supply["smithy"])
	}
	if len(s.Supply) != 17 {
		t.Errorf("supply has %d piles, want 17", len(s.Supply))
	}

	for i, p := range s.Players {
		if len(p.Hand) != 5 || len(p.Deck) != 5 {
			t.Errorf("player %d hand=%d deck=%d", i, len(p.Hand), len(p.Deck))
		}
		if state.CountOwned(&p, "copper") != 7 || state.CountOwned(&p, "estate") != 3 {
			t.Errorf("player %d starting cards = %v", i, state.OwnedCards(&p))
		}
	}
	if s.Players[0].Name != "You" || s.Players[0].IsAI || !s.Players[1].IsAI {
		t.Errorf("seats = %+v %+v", s.Players[0], s.Players[1])
	}
	if s.Current != 0 || s.Phase != types.PhaseAction || s.Actions != 1 || s.Buys != 1 || s.Turn != 1 {
		t.Errorf("turn state = %+v", s)
	}
	if !reflect.DeepEqual(s.Log, []string{"Game started! Your turn."}) {
		t.Errorf("log = %v", s.Log)
	}
	if err := state.CheckConservation(s); err != nil {
		t.Error(err)
	}
}

func TestNewGame_Deterministic(t *testing.T) {
	a, err := NewGame(types.GameDef{Seed: 99})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewGame(types.GameDef{Seed: 99})
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed gave different games")
	}
	if len(a.Kingdom) != KingdomSize {
		t.Errorf("random kingdom has %d cards", len(a.Kingdom))
	}
}

func TestNewGame_CustomSeats(t *testing.T) {
	s, err := NewGame(types.GameDef{Seats: [2]types.SeatDef{{Name: "Ada", AI: true}, {Name: "Bo"}}})
	if err != nil {
		t.Fatal(err)
	}
	if s.Players[0].Name != "Ada" || !s.Players[0].IsAI || s.Players[1].Name != "Bo" || s.Players[1].IsAI {
		t.Errorf("players = %+v", s.Players)
	}
	if s.Log[0] != "Game started! Ada's turn." {
		t.Errorf("log = %q", s.Log[0])
	}
}

func TestValidateKingdom(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		wantErr error
	}{
		{"empty", nil, nil},
		{"valid", []string{"smithy", "village"}, nil},
		{"unknown", []string{"dragon"}, catalog.ErrUnknownCard},
		{"basic card", []string{"gold"}, ErrBadKingdom},
		{"duplicate", []string{"moat", "moat"}, ErrBadKingdom},
		{"too many", catalog.KingdomCards[:11], ErrBadKingdom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKingdom(tt.ids)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestRandomPlay_Conservation drives whole games through random legal
// intents and checks that no card is created or lost along the way.
func TestRandomPlay_Conservation(t *testing.T) {
	for seed := int64(1); seed <= 6; seed++ {
		s, err := NewGame(types.GameDef{Seed: seed, Kingdom: catalog.KingdomCards[seed : seed+10]})
		if err != nil {
			t.Fatal(err)
		}
		e := New()
		pick := rand.New(rand.NewSource(seed))

		for step := 0; step < 3000 && !s.GameOver; step++ {
			legal := rules.Legal(s)
			if len(legal) == 0 {
				t.Fatalf("seed %d step %d: no legal intents, pending=%#v", seed, step, s.Pending)
			}
			in := legal[pick.Intn(len(legal))]
			next, res := e.Apply(s, in)
			if res.Err != nil {
				t.Fatalf("seed %d step %d: legal intent %+v rejected: %v", seed, step, in, res.Err)
			}
			if err := state.CheckConservation(next); err != nil {
				t.Fatalf("seed %d step %d after %+v: %v", seed, step, in, err)
			}
			if next.Actions < 0 || next.Buys < 0 || next.Coins < 0 {
				t.Fatalf("seed %d step %d: negative counter %d/%d/%d", seed, step, next.Actions, next.Buys, next.Coins)
			}
			s = next
		}
	}
}

func TestNewGame_RandomKingdomKeepsShuffles(t *testing.T) {
	drawn, err := NewGame(types.GameDef{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	given, err := NewGame(types.GameDef{Seed: 1, Kingdom: drawn.Kingdom})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(drawn, given) {
		t.Errorf("drawn kingdom game differs from the same kingdom passed in: RNGPos %d vs %d",
			drawn.RNGPos, given.RNGPos)
	}
}
