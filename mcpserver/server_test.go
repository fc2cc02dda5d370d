package mcpserver

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap/zaptest"

	"github.com/nathoo/deckcore/loader"
	"github.com/nathoo/deckcore/types"
)

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty result")
	}
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", result.Content[0])
	return ""
}

func decodeView(t *testing.T, result *mcp.CallToolResult) StateView {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(t, result))
	}
	var v StateView
	if err := json.Unmarshal([]byte(resultText(t, result)), &v); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	return v
}

func newGame(t *testing.T, srv *Server, args map[string]any) StateView {
	t.Helper()
	result, err := srv.handleNewGame(context.Background(), newCallToolRequest("new_game", args))
	if err != nil {
		t.Fatal(err)
	}
	return decodeView(t, result)
}

func act(t *testing.T, srv *Server, command string) *mcp.CallToolResult {
	t.Helper()
	result, err := srv.handleAct(context.Background(), newCallToolRequest("act", map[string]any{"command": command}))
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestRegister(t *testing.T) {
	s := server.NewMCPServer("deckcore", "test")
	New(types.GameDef{}, zaptest.NewLogger(t)).Register(s)
}

func TestNoGame(t *testing.T) {
	srv := New(types.GameDef{}, zaptest.NewLogger(t))
	ctx := context.Background()

	for name, call := range map[string]func() (*mcp.CallToolResult, error){
		"get_state": func() (*mcp.CallToolResult, error) {
			return srv.handleGetState(ctx, newCallToolRequest("get_state", nil))
		},
		"legal_moves": func() (*mcp.CallToolResult, error) {
			return srv.handleLegalMoves(ctx, newCallToolRequest("legal_moves", nil))
		},
		"act": func() (*mcp.CallToolResult, error) {
			return srv.handleAct(ctx, newCallToolRequest("act", map[string]any{"command": "end"}))
		},
	} {
		result, err := call()
		if err != nil || result == nil || !result.IsError {
			t.Errorf("%s: expected a tool error, got %v %v", name, result, err)
		}
	}
}

func TestNewGame(t *testing.T) {
	srv := New(types.GameDef{}, zaptest.NewLogger(t))
	v := newGame(t, srv, map[string]any{"seed": 5, "kingdom": "first game"})

	if v.GameID == "" || v.YourSeat != 0 || v.Current != "You" || v.Turn != 1 {
		t.Errorf("view = %+v", v)
	}
	if len(v.Hand) != 5 || v.Deck != 5 || v.Opponent.Hand != 5 {
		t.Errorf("hand=%v deck=%d opponent=%+v", v.Hand, v.Deck, v.Opponent)
	}
	if v.Supply["market"] != 10 || v.Supply["province"] != 8 {
		t.Errorf("supply = %v", v.Supply)
	}
	if !reflect.DeepEqual(v.Events, []string{"Game started! Your turn."}) {
		t.Errorf("events = %v", v.Events)
	}
	if len(v.Legal) == 0 || v.Legal[0] == "" {
		t.Errorf("legal = %v", v.Legal)
	}

	// Events are only reported once.
	result, _ := srv.handleGetState(context.Background(), newCallToolRequest("get_state", nil))
	if again := decodeView(t, result); len(again.Events) != 0 {
		t.Errorf("events repeated: %v", again.Events)
	}
}

func TestNewGame_SecondSeat(t *testing.T) {
	srv := New(types.GameDef{Seed: 9}, zaptest.NewLogger(t))
	v := newGame(t, srv, map[string]any{"seat": 1})
	if v.YourSeat != 1 || v.Current != "You" {
		t.Errorf("view = %+v", v)
	}
	if len(v.Events) < 2 || v.Events[len(v.Events)-1] != "--- Turn 1: You's turn ---" {
		t.Errorf("expected the AI's opening turn in events: %v", v.Events)
	}
}

func TestNewGame_BadArguments(t *testing.T) {
	srv := New(types.GameDef{}, zaptest.NewLogger(t))
	for _, args := range []map[string]any{
		{"seat": 2},
		{"kingdom": "Dragon, Village"},
		{"kingdom": "village, village"},
	} {
		result, err := srv.handleNewGame(context.Background(), newCallToolRequest("new_game", args))
		if err != nil || !result.IsError {
			t.Errorf("%v: expected a tool error", args)
		}
	}
}

func TestAct(t *testing.T) {
	srv := New(types.GameDef{Seed: 13}, zaptest.NewLogger(t))
	newGame(t, srv, nil)

	result := act(t, srv, "buy province")
	if !result.IsError || !strings.Contains(resultText(t, result), "not allowed in this phase") {
		t.Errorf("expected a rejection, got %s", resultText(t, result))
	}

	v := decodeView(t, act(t, srv, "treasures"))
	if v.Phase != string(types.PhaseBuy) || v.Coins == 0 {
		t.Errorf("view = %+v", v)
	}

	v = decodeView(t, act(t, srv, "end"))
	if v.Current != "You" || v.Turn != 2 {
		t.Errorf("expected the AI to have played its turn: %+v", v)
	}
	found := false
	for _, e := range v.Events {
		if e == "--- Turn 1: AI's turn ---" {
			found = true
		}
	}
	if !found {
		t.Errorf("events = %v", v.Events)
	}

	if result := act(t, srv, "  "); !result.IsError {
		t.Error("expected an error for an empty command")
	}
}

func TestLegalMoves(t *testing.T) {
	srv := New(types.GameDef{Seed: 2}, zaptest.NewLogger(t))
	newGame(t, srv, nil)

	result, err := srv.handleLegalMoves(context.Background(), newCallToolRequest("legal_moves", nil))
	if err != nil || result.IsError {
		t.Fatalf("legal_moves failed: %v", err)
	}
	var moves []string
	if err := json.Unmarshal([]byte(resultText(t, result)), &moves); err != nil {
		t.Fatal(err)
	}
	for _, m := range moves {
		if r := act(t, New(types.GameDef{Seed: 2}, nil).withGame(t), m); r.IsError {
			t.Errorf("legal move %q rejected: %s", m, resultText(t, r))
		}
	}
}

// withGame starts a game for tests that need a fresh server per move.
func (srv *Server) withGame(t *testing.T) *Server {
	t.Helper()
	newGame(t, srv, nil)
	return srv
}

func TestPlayToGameOver(t *testing.T) {
	srv := New(types.GameDef{Seed: 4, Kingdom: loader.BuiltinPresets["First Game"]}, zaptest.NewLogger(t))
	v := newGame(t, srv, nil)

	for i := 0; !v.GameOver; i++ {
		if i > 5000 {
			t.Fatal("game did not finish")
		}
		if len(v.Legal) == 0 {
			t.Fatalf("no legal moves: %+v", v)
		}
		// Prefer buying the costliest listed card, then ending.
		move := v.Legal[0]
		for _, m := range v.Legal {
			if m == "buy province" || m == "buy gold" && move != "buy province" {
				move = m
			}
		}
		if v.Phase == string(types.PhaseAction) && v.Pending == "" {
			move = "treasures"
		}
		if v.Phase == string(types.PhaseBuy) && !strings.HasPrefix(move, "buy") && v.Pending == "" {
			move = "end"
		}
		v = decodeView(t, act(t, srv, move))
	}
	if v.Scores == nil || v.Result == "" || len(v.Legal) != 0 {
		t.Errorf("final view = %+v", v)
	}
	if result := act(t, srv, "end"); !result.IsError {
		t.Error("expected act to fail after game over")
	}
}

func TestParseKingdom(t *testing.T) {
	got, err := ParseKingdom("Throne Room, moat ,Village")
	if err != nil || !reflect.DeepEqual(got, []string{"throneRoom", "moat", "village"}) {
		t.Errorf("ParseKingdom = %v, %v", got, err)
	}
	got, err = ParseKingdom("size_distortion")
	if err != nil || len(got) != 10 {
		t.Errorf("preset = %v, %v", got, err)
	}
	if _, err := ParseKingdom("moat, unicorn"); err == nil {
		t.Error("expected an error for an unknown card")
	}
}
