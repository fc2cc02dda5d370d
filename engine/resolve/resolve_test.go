package resolve

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nathoo/deckcore/engine/effects"
	"github.com/nathoo/deckcore/engine/events"
	"github.com/nathoo/deckcore/engine/rules"
	"github.com/nathoo/deckcore/engine/state"
	"github.com/nathoo/deckcore/types"
)

func testSetup(p types.Pending, hand ...string) (*types.State, effects.Context) {
	s := &types.State{
		Supply: map[string]int{
			"copper": 46, "silver": 40, "gold": 30, "estate": 8, "duchy": 8,
			"province": 8, "curse": 10, "village": 10, "smithy": 10, "festival": 0,
		},
		Players: [2]types.Player{
			{ID: 0, Name: "You", Hand: hand, Deck: []string{"estate", "copper", "silver"}},
			{ID: 1, Name: "AI", IsAI: true, Hand: []string{"copper", "estate", "estate", "silver", "gold"}},
		},
		Phase:   types.PhaseAction,
		Pending: p,
	}
	return s, effects.Context{Shuffler: state.NoShuffle{}, Sink: events.NewSink(s)}
}

func indices(i ...int) types.Choice { return types.Choice{Kind: types.ChoiceIndices, Indices: i} }
func index(i int) types.Choice      { return types.Choice{Kind: types.ChoiceIndex, Index: i} }
func card(id string) types.Choice   { return types.Choice{Kind: types.ChoiceCard, Card: id} }

func TestResolve_NoPending(t *testing.T) {
	s, ctx := testSetup(nil)
	if err := Resolve(s, indices(), ctx); !errors.Is(err, rules.ErrNoPendingEffect) {
		t.Errorf("err = %v, want ErrNoPendingEffect", err)
	}
}

func TestResolve_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		pending types.Pending
		hand    []string
		choice  types.Choice
	}{
		{"wrong shape", types.CellarPending{Max: 99}, []string{"copper"}, card("silver")},
		{"duplicate indices", types.CellarPending{Max: 99}, []string{"copper", "estate"}, indices(0, 0)},
		{"index out of range", types.ChapelPending{Max: 4}, []string{"copper"}, indices(1)},
		{"chapel over limit", types.ChapelPending{Max: 4}, []string{"a", "b", "c", "d", "e"}, indices(0, 1, 2, 3, 4)},
		{"workshop too expensive", types.WorkshopPending{MaxCost: 4}, nil, card("gold")},
		{"workshop not in supply", types.WorkshopPending{MaxCost: 4}, nil, card("chapel")},
		{"workshop empty pile", types.WorkshopPending{MaxCost: 5}, nil, card("festival")},
		{"mine trashes non-treasure", types.MinePending{Step: types.StepTrash}, []string{"estate"}, index(0)},
		{"mine gains non-treasure", types.MinePending{Step: types.StepGain, MaxCost: 6}, nil, card("smithy")},
		{"throne room non-action", types.ThroneRoomPending{}, []string{"copper"}, index(0)},
		{"vassal wants yes or no", types.VassalPending{Card: "smithy"}, nil, index(0)},
		{"harbinger bad position", types.HarbingerPending{}, nil, index(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ctx := testSetup(tt.pending, tt.hand...)
			before := state.Clone(s)
			err := Resolve(s, tt.choice, ctx)
			if !errors.Is(err, rules.ErrBadChoice) {
				t.Fatalf("err = %v, want ErrBadChoice", err)
			}
			var ce *ChoiceError
			if !errors.As(err, &ce) || ce.Pending != tt.pending.Kind() {
				t.Errorf("err = %#v, want ChoiceError for %s", err, tt.pending.Kind())
			}
			if !reflect.DeepEqual(s, before) {
				t.Error("state changed on a rejected choice")
			}
		})
	}
}

func TestCellar_DiscardAndDraw(t *testing.T) {
	s, ctx := testSetup(types.CellarPending{Max: 99}, "estate", "copper", "estate")
	if err := Resolve(s, indices(0, 2), ctx); err != nil {
		t.Fatal(err)
	}
	p := s.Players[0]
	if !reflect.DeepEqual(p.Hand, []string{"copper", "silver", "copper"}) {
		t.Errorf("hand = %v", p.Hand)
	}
	if !reflect.DeepEqual(p.Discard, []string{"estate", "estate"}) {
		t.Errorf("discard = %v", p.Discard)
	}
	if s.Pending != nil {
		t.Errorf("pending = %#v, want cleared", s.Pending)
	}
}

func TestChapel_TrashNone(t *testing.T) {
	s, ctx := testSetup(types.ChapelPending{Max: 4}, "copper")
	if err := Resolve(s, indices(), ctx); err != nil {
		t.Fatal(err)
	}
	if len(s.Trash) != 0 || len(ctx.Sink.Events) != 0 || s.Pending != nil {
		t.Errorf("trash = %v events = %v pending = %#v", s.Trash, ctx.Sink.Events, s.Pending)
	}
}

func TestMilitia_ExactlyN(t *testing.T) {
	s, ctx := testSetup(types.MilitiaPending{Player: 1, Discard: 2})
	if err := Resolve(s, indices(1), ctx); !errors.Is(err, rules.ErrBadChoice) {
		t.Fatalf("one card: err = %v, want ErrBadChoice", err)
	}
	if err := Resolve(s, indices(1, 2), ctx); err != nil {
		t.Fatal(err)
	}
	op := s.Players[1]
	if !reflect.DeepEqual(op.Hand, []string{"copper", "silver", "gold"}) {
		t.Errorf("hand = %v", op.Hand)
	}
	if !reflect.DeepEqual(op.Discard, []string{"estate", "estate"}) {
		t.Errorf("discard = %v", op.Discard)
	}
}

func TestRemodel_TwoSteps(t *testing.T) {
	s, ctx := testSetup(types.RemodelPending{Step: types.StepTrash}, "estate", "copper")
	if err := Resolve(s, index(0), ctx); err != nil {
		t.Fatal(err)
	}
	next, ok := s.Pending.(types.RemodelPending)
	if !ok || next.Step != types.StepGain || next.MaxCost != 4 {
		t.Fatalf("pending = %#v, want gain step up to 4", s.Pending)
	}
	if err := Resolve(s, card("smithy"), ctx); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Trash, []string{"estate"}) || !reflect.DeepEqual(s.Players[0].Discard, []string{"smithy"}) {
		t.Errorf("trash = %v discard = %v", s.Trash, s.Players[0].Discard)
	}
	if s.Supply["smithy"] != 9 || s.Pending != nil {
		t.Errorf("smithy pile = %d pending = %#v", s.Supply["smithy"], s.Pending)
	}
}

func TestMine_GainsToHand(t *testing.T) {
	s, ctx := testSetup(types.MinePending{Step: types.StepTrash}, "copper", "estate")
	if err := Resolve(s, index(0), ctx); err != nil {
		t.Fatal(err)
	}
	if err := Resolve(s, card("silver"), ctx); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Players[0].Hand, []string{"estate", "silver"}) {
		t.Errorf("hand = %v, want [estate silver]", s.Players[0].Hand)
	}
}

func TestArtisan_GainThenTopdeck(t *testing.T) {
	s, ctx := testSetup(types.ArtisanPending{Step: types.StepGain, MaxCost: 5}, "copper")
	if err := Resolve(s, card("duchy"), ctx); err != nil {
		t.Fatal(err)
	}
	if p, ok := s.Pending.(types.ArtisanPending); !ok || p.Step != types.StepTopdeck {
		t.Fatalf("pending = %#v, want topdeck step", s.Pending)
	}
	if err := Resolve(s, index(0), ctx); err != nil {
		t.Fatal(err)
	}
	p := s.Players[0]
	if p.Deck[len(p.Deck)-1] != "copper" || !reflect.DeepEqual(p.Hand, []string{"duchy"}) {
		t.Errorf("deck = %v hand = %v", p.Deck, p.Hand)
	}
}

func TestThroneRoom_PlaysTwice(t *testing.T) {
	s, ctx := testSetup(types.ThroneRoomPending{}, "copper", "village")
	if err := Resolve(s, index(1), ctx); err != nil {
		t.Fatal(err)
	}
	p := s.Players[0]
	if !reflect.DeepEqual(p.PlayArea, []string{"village"}) {
		t.Errorf("play area = %v", p.PlayArea)
	}
	if s.Actions != 4 || len(p.Hand) != 3 {
		t.Errorf("actions = %d hand = %v", s.Actions, p.Hand)
	}
}

func TestVassal(t *testing.T) {
	t.Run("decline", func(t *testing.T) {
		s, ctx := testSetup(types.VassalPending{Card: "smithy"})
		s.Players[0].Discard = []string{"smithy"}
		if err := Resolve(s, types.Choice{Kind: types.ChoiceDecline}, ctx); err != nil {
			t.Fatal(err)
		}
		if s.Pending != nil || len(s.Players[0].Discard) != 1 {
			t.Errorf("pending = %#v discard = %v", s.Pending, s.Players[0].Discard)
		}
	})
	t.Run("play", func(t *testing.T) {
		s, ctx := testSetup(types.VassalPending{Card: "smithy"})
		s.Players[0].Discard = []string{"smithy"}
		if err := Resolve(s, types.Choice{Kind: types.ChoiceConfirm}, ctx); err != nil {
			t.Fatal(err)
		}
		p := s.Players[0]
		if !reflect.DeepEqual(p.PlayArea, []string{"smithy"}) || len(p.Hand) != 3 {
			t.Errorf("play area = %v hand = %v", p.PlayArea, p.Hand)
		}
	})
	t.Run("card moved", func(t *testing.T) {
		s, ctx := testSetup(types.VassalPending{Card: "smithy"})
		if err := Resolve(s, types.Choice{Kind: types.ChoiceConfirm}, ctx); !errors.Is(err, rules.ErrBadChoice) {
			t.Errorf("err = %v, want ErrBadChoice", err)
		}
	})
}

func TestHarbinger_Topdeck(t *testing.T) {
	s, ctx := testSetup(types.HarbingerPending{})
	s.Players[0].Discard = []string{"estate", "gold"}
	if err := Resolve(s, index(1), ctx); err != nil {
		t.Fatal(err)
	}
	p := s.Players[0]
	if p.Deck[len(p.Deck)-1] != "gold" || !reflect.DeepEqual(p.Discard, []string{"estate"}) {
		t.Errorf("deck = %v discard = %v", p.Deck, p.Discard)
	}
}

func TestSentry_TrashKeepsOrder(t *testing.T) {
	s, ctx := testSetup(types.SentryPending{Count: 2})
	// Top is silver, then copper.
	if err := Resolve(s, indices(1), ctx); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Trash, []string{"copper"}) {
		t.Errorf("trash = %v, want [copper]", s.Trash)
	}
	if !reflect.DeepEqual(s.Players[0].Deck, []string{"estate", "silver"}) {
		t.Errorf("deck = %v, want [estate silver]", s.Players[0].Deck)
	}
}
