package events

import (
	"testing"

	"github.com/nathoo/deckcore/types"
)

func TestSink_EmitMirrorsLog(t *testing.T) {
	s := &types.State{Log: []string{"Game started! Your turn."}}
	k := NewSink(s)

	k.Emitf(CardPlayed, 0, "village", 1, "%s plays %s", "You", Name("village"))
	k.Emitf(CardsDrawn, 0, "", 2, "%s draws %d cards", "You", 2)

	if len(k.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(k.Events))
	}
	if k.Events[0].Type != CardPlayed || k.Events[0].Card != "village" {
		t.Errorf("event 0 = %+v", k.Events[0])
	}
	want := []string{"Game started! Your turn.", "You plays Village", "You draws 2 cards"}
	if len(s.Log) != len(want) {
		t.Fatalf("log = %v", s.Log)
	}
	for i := range want {
		if s.Log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, s.Log[i], want[i])
		}
	}
}

func TestNames(t *testing.T) {
	if got := Names([]string{"throneRoom", "copper"}); got != "Throne Room, Copper" {
		t.Errorf("Names = %q", got)
	}
	if got := Names(nil); got != "" {
		t.Errorf("Names(nil) = %q", got)
	}
}

func TestPlayerName(t *testing.T) {
	s := &types.State{}
	s.Players[1].Name = "AI"
	if got := PlayerName(s, 1); got != "AI" {
		t.Errorf("PlayerName = %q", got)
	}
}
