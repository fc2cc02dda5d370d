package engine

import (
	"testing"

	"github.com/nathoo/deckcore/types"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		p    types.Player
		want int
	}{
		{"starting deck", types.Player{Deck: append(coppers(7), "estate", "estate", "estate")}, 3},
		{
			"gardens count every zone",
			types.Player{
				Deck:     append(coppers(10), "gardens", "gardens"),
				Hand:     coppers(4),
				Discard:  []string{"curse", "province"},
				PlayArea: coppers(2),
			},
			9,
		},
		{"gardens round down", types.Player{Deck: append(coppers(18), "gardens")}, 1},
		{"curses only", types.Player{Hand: []string{"curse", "curse"}}, -2},
		{"empty", types.Player{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(&tt.p); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckGameEnd(t *testing.T) {
	s := testState(nil, nil)
	if end := CheckGameEnd(s); end.Ended || end.Scores != nil {
		t.Fatalf("fresh game ended: %+v", end)
	}

	s.Supply["witch"] = 0
	s.Supply["moat"] = 0
	if CheckGameEnd(s).Ended {
		t.Fatal("two empty piles should not end the game")
	}
	s.Supply["chapel"] = 0
	end := CheckGameEnd(s)
	if !end.Ended || end.Scores == nil {
		t.Fatalf("three empty piles: %+v", end)
	}
	if *end.Scores != [2]int{0, 3} {
		t.Errorf("scores = %v", *end.Scores)
	}
	if s.GameOver {
		t.Error("CheckGameEnd must not set GameOver")
	}
}

func TestEndTurn_Tie(t *testing.T) {
	e := testEngine()
	s := testState([]string{"estate", "estate", "estate"}, nil)
	s.Supply["province"] = 0
	s = mint(s)

	s = mustApply(t, e, s, endTurn)
	if !s.GameOver || s.Winner != -1 {
		t.Fatalf("over=%v winner=%d", s.GameOver, s.Winner)
	}
	if lastLog(s) != "Tie!" {
		t.Errorf("log = %q", lastLog(s))
	}
}

func TestWinnerLine(t *testing.T) {
	s := testState(nil, nil)
	s.Winner = 1
	if got := WinnerLine(s); got != "AI wins!" {
		t.Errorf("WinnerLine = %q", got)
	}
	s.Winner = 0
	if got := WinnerLine(s); got != "You win!" {
		t.Errorf("WinnerLine = %q", got)
	}
}
