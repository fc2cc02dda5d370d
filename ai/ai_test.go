package ai

import (
	"reflect"
	"testing"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

func supply() map[string]int {
	sup := map[string]int{
		"copper": 46, "silver": 40, "gold": 30,
		"estate": 8, "duchy": 8, "province": 8, "curse": 10,
	}
	for _, id := range catalog.KingdomCards {
		sup[id] = 10
	}
	return sup
}

func stateWith(hand []string) *types.State {
	s := &types.State{
		Supply:  supply(),
		Phase:   types.PhaseAction,
		Actions: 1,
		Buys:    1,
		Turn:    1,
	}
	s.Players[0] = types.Player{ID: 0, Name: "AI", IsAI: true, Hand: hand}
	s.Players[1] = types.Player{ID: 1, Name: "You"}
	return s
}

func TestNext_PlaysHighestPriorityAction(t *testing.T) {
	s := stateWith([]string{"copper", "smithy", "village", "estate"})
	got, ok := New(nil).Next(s)
	want := types.Intent{Kind: types.IntentPlayAction, HandIndex: 2}
	if !ok || !reflect.DeepEqual(got, want) {
		t.Errorf("Next = %+v %v, want %+v", got, ok, want)
	}
}

func TestNext_MovesToBuyPhase(t *testing.T) {
	tests := []struct {
		name    string
		hand    []string
		actions int
	}{
		{"no actions in hand", []string{"copper", "estate"}, 1},
		{"no actions left", []string{"smithy", "copper"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stateWith(tt.hand)
			s.Actions = tt.actions
			got, _ := New(nil).Next(s)
			if got.Kind != types.IntentBuyPhase {
				t.Errorf("Next = %+v, want buy-phase", got)
			}
		})
	}
}

func TestNext_BuyPhase(t *testing.T) {
	s := stateWith(nil)
	s.Phase = types.PhaseBuy
	s.Coins = 6
	got, _ := New(nil).Next(s)
	if got.Kind != types.IntentBuy || got.Card != "gold" {
		t.Errorf("Next = %+v, want buy gold", got)
	}

	s.Buys = 0
	got, _ = New(nil).Next(s)
	if got.Kind != types.IntentEndTurn {
		t.Errorf("Next = %+v, want end-turn", got)
	}
}

func TestNext_GameOver(t *testing.T) {
	s := stateWith(nil)
	s.GameOver = true
	if _, ok := New(nil).Next(s); ok {
		t.Error("Next returned an intent after game over")
	}
	if Seat(s) != -1 {
		t.Errorf("Seat = %d, want -1", Seat(s))
	}
}

func TestBuy_Ladder(t *testing.T) {
	tests := []struct {
		name   string
		coins  int
		owned  []string
		setup  func(s *types.State)
		want   string
		wantOK bool
	}{
		{name: "province at 8", coins: 8, want: "province", wantOK: true},
		{name: "gold at 7", coins: 7, want: "gold", wantOK: true},
		{name: "witch first at 5", coins: 5, want: "witch", wantOK: true},
		{name: "second witch skipped", coins: 5, owned: []string{"witch"}, want: "market", wantOK: true},
		{
			name: "duchy late game", coins: 5, want: "duchy", wantOK: true,
			setup: func(s *types.State) { s.Supply["province"] = 4 },
		},
		{name: "smithy at 4", coins: 4, want: "smithy", wantOK: true},
		{name: "village at 3", coins: 3, want: "village", wantOK: true},
		{name: "silver after three villages", coins: 3, owned: []string{"village", "village", "village"}, want: "silver", wantOK: true},
		{name: "chapel at 2 with a small deck", coins: 2, want: "chapel", wantOK: true},
		{
			name: "missing kingdom cards skipped", coins: 5, want: "silver", wantOK: true,
			setup: func(s *types.State) {
				for _, id := range catalog.KingdomCards {
					delete(s.Supply, id)
				}
			},
		},
		{name: "nothing at 1", coins: 1, wantOK: false},
		{
			name: "moneylender needs coppers", coins: 4, owned: []string{"smithy", "smithy", "militia", "remodel"}, want: "throneRoom", wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stateWith(nil)
			s.Players[0].Deck = append([]string{"copper", "copper", "copper", "estate"}, tt.owned...)
			s.Coins = tt.coins
			s.Phase = types.PhaseBuy
			if tt.setup != nil {
				tt.setup(s)
			}
			got, ok := New(nil).Buy(s)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Buy = %q %v, want %q %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBuy_CustomRules(t *testing.T) {
	p := New([]types.BuyRule{{Card: "moat", MinCoins: 2}})
	s := stateWith(nil)
	s.Coins = 8
	if got, _ := p.Buy(s); got != "moat" {
		t.Errorf("Buy = %q, want moat", got)
	}
}

func TestChoose(t *testing.T) {
	tests := []struct {
		name    string
		hand    []string
		deck    []string
		discard []string
		pending types.Pending
		want    types.Choice
	}{
		{
			name:    "cellar discards dead cards",
			hand:    []string{"copper", "estate", "silver", "curse"},
			pending: types.CellarPending{Max: 99},
			want:    types.Choice{Kind: types.ChoiceIndices, Indices: []int{1, 3}},
		},
		{
			name:    "chapel trashes at most four, curses first",
			hand:    []string{"copper", "estate", "copper", "curse", "copper", "copper"},
			pending: types.ChapelPending{Max: 4},
			want:    types.Choice{Kind: types.ChoiceIndices, Indices: []int{3, 1, 0, 2}},
		},
		{
			name:    "militia discards victory then cheapest",
			hand:    []string{"gold", "copper", "estate", "silver", "smithy"},
			pending: types.MilitiaPending{Discard: 2},
			want:    types.Choice{Kind: types.ChoiceIndices, Indices: []int{2, 1}},
		},
		{
			name:    "workshop prefers silver",
			pending: types.WorkshopPending{MaxCost: 4},
			want:    types.Choice{Kind: types.ChoiceCard, Card: "silver"},
		},
		{
			name:    "remodel trashes the cheapest card",
			hand:    []string{"silver", "estate", "gold"},
			pending: types.RemodelPending{Step: types.StepTrash},
			want:    types.Choice{Kind: types.ChoiceIndex, Index: 1},
		},
		{
			name:    "remodel gains the costliest card",
			pending: types.RemodelPending{Step: types.StepGain, MaxCost: 8},
			want:    types.Choice{Kind: types.ChoiceCard, Card: "province"},
		},
		{
			name:    "mine upgrades silver",
			hand:    []string{"copper", "silver"},
			pending: types.MinePending{Step: types.StepTrash},
			want:    types.Choice{Kind: types.ChoiceIndex, Index: 1},
		},
		{
			name:    "mine gains the best treasure",
			pending: types.MinePending{Step: types.StepGain, MaxCost: 3},
			want:    types.Choice{Kind: types.ChoiceCard, Card: "silver"},
		},
		{
			name:    "artisan topdecks the cheapest card",
			hand:    []string{"gold", "laboratory", "copper"},
			pending: types.ArtisanPending{Step: types.StepTopdeck},
			want:    types.Choice{Kind: types.ChoiceIndex, Index: 2},
		},
		{
			name:    "throne room picks the costliest action",
			hand:    []string{"gold", "village", "laboratory"},
			pending: types.ThroneRoomPending{},
			want:    types.Choice{Kind: types.ChoiceIndex, Index: 2},
		},
		{
			name:    "vassal always plays",
			pending: types.VassalPending{Card: "smithy"},
			want:    types.Choice{Kind: types.ChoiceConfirm},
		},
		{
			name:    "harbinger topdecks the costliest discard",
			discard: []string{"copper", "gold", "estate"},
			pending: types.HarbingerPending{},
			want:    types.Choice{Kind: types.ChoiceIndex, Index: 1},
		},
		{
			name:    "sentry trashes junk",
			deck:    []string{"gold", "estate", "silver"},
			pending: types.SentryPending{Count: 2},
			want:    types.Choice{Kind: types.ChoiceIndices, Indices: []int{1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stateWith(tt.hand)
			s.Players[0].Deck = tt.deck
			s.Players[0].Discard = tt.discard
			s.Pending = tt.pending
			got, ok := New(nil).Next(s)
			want := types.Intent{Kind: types.IntentResolve, Choice: tt.want}
			if !ok || !reflect.DeepEqual(got, want) {
				t.Errorf("Next = %+v, want %+v", got, want)
			}
		})
	}
}

func TestSeat_PendingOwner(t *testing.T) {
	s := stateWith(nil)
	s.Pending = types.MilitiaPending{Player: 1, Discard: 2}
	if Seat(s) != 1 {
		t.Errorf("Seat = %d, want 1", Seat(s))
	}
}

// TestSelfPlay plays whole AI-versus-AI games and checks they finish with
// every intent accepted.
func TestSelfPlay(t *testing.T) {
	kingdoms := [][]string{
		nil,
		{"cellar", "chapel", "moat", "village", "workshop", "militia", "remodel", "smithy", "throneRoom", "witch"},
		{"harbinger", "merchant", "vassal", "poacher", "bandit", "sentry", "mine", "artisan", "library", "bureaucrat"},
		{"gardens", "festival", "laboratory", "market", "councilRoom", "moneylender", "cellar", "moat", "village", "workshop"},
	}
	for i, kingdom := range kingdoms {
		for seed := int64(1); seed <= 3; seed++ {
			def := types.GameDef{Seed: seed, Kingdom: kingdom, Seats: [2]types.SeatDef{{Name: "A", AI: true}, {Name: "B", AI: true}}}
			s, err := engine.NewGame(def)
			if err != nil {
				t.Fatal(err)
			}
			e := engine.New()
			p := New(nil)

			for step := 0; !s.GameOver; step++ {
				if step > 5000 || s.Turn > 150 {
					t.Fatalf("kingdom %d seed %d: game did not finish (turn %d)", i, seed, s.Turn)
				}
				in, ok := p.Next(s)
				if !ok {
					t.Fatalf("kingdom %d seed %d: no intent before game over", i, seed)
				}
				next, res := e.Apply(s, in)
				if res.Err != nil {
					t.Fatalf("kingdom %d seed %d step %d: %+v rejected: %v (pending %#v)", i, seed, step, in, res.Err, s.Pending)
				}
				if !res.Applied {
					t.Fatalf("kingdom %d seed %d step %d: %+v was a no-op", i, seed, step, in)
				}
				if err := state.CheckConservation(next); err != nil {
					t.Fatalf("kingdom %d seed %d: %v", i, seed, err)
				}
				s = next
			}
			if s.Winner < -1 || s.Winner > 1 {
				t.Errorf("winner = %d", s.Winner)
			}
		}
	}
}
