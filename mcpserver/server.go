// Package mcpserver exposes a deckcore game as MCP tools so an agent can
// play one seat against the built-in policy.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/nathoo/deckcore/console"
	"github.com/nathoo/deckcore/driver"
	"github.com/nathoo/deckcore/engine/events"
	"github.com/nathoo/deckcore/engine/parser"
	"github.com/nathoo/deckcore/engine/rules"
	"github.com/nathoo/deckcore/loader"
	"github.com/nathoo/deckcore/types"
)

// Server holds the one game an MCP process plays. Tool calls may arrive
// concurrently, so every handler takes mu.
type Server struct {
	mu      sync.Mutex
	base    types.GameDef
	sess    *driver.Session
	seat    int
	logger  *zap.Logger
	lastLog int // State.Log length already reported
}

// New returns a server whose games start from base. Tool arguments
// override its seed, kingdom and seats.
func New(base types.GameDef, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{base: base, logger: logger}
}

// StateView is the JSON document every tool returns.
type StateView struct {
	GameID   string         `json:"game_id"`
	YourSeat int            `json:"your_seat"`
	Turn     int            `json:"turn"`
	Current  string         `json:"current_player"`
	Phase    string         `json:"phase"`
	Actions  int            `json:"actions"`
	Buys     int            `json:"buys"`
	Coins    int            `json:"coins"`
	Hand     []string       `json:"hand"`
	Deck     int            `json:"deck_size"`
	Discard  int            `json:"discard_size"`
	InPlay   []string       `json:"in_play,omitempty"`
	Opponent OpponentView   `json:"opponent"`
	Supply   map[string]int `json:"supply"`
	Pending  string         `json:"pending,omitempty"`
	Events   []string       `json:"events,omitempty"`
	Legal    []string       `json:"legal_moves,omitempty"`
	GameOver bool           `json:"game_over"`
	Scores   *[2]int        `json:"scores,omitempty"`
	Result   string         `json:"result,omitempty"`
}

// OpponentView shows only what is public about the other seat.
type OpponentView struct {
	Name    string `json:"name"`
	Hand    int    `json:"hand_size"`
	Deck    int    `json:"deck_size"`
	Discard int    `json:"discard_size"`
}

// Register adds the game tools to s.
func (srv *Server) Register(s *server.MCPServer) {
	s.AddTool(newGameTool(), srv.handleNewGame)
	s.AddTool(getStateTool(), srv.handleGetState)
	s.AddTool(legalMovesTool(), srv.handleLegalMoves)
	s.AddTool(actTool(), srv.handleAct)
}

// --- Tool definitions ---

func newGameTool() mcp.Tool {
	return mcp.NewTool("new_game",
		mcp.WithDescription("Start a new two-player deck-building game against the built-in AI. "+
			"Returns the game state; if the AI moves first its turn has already been played."),
		mcp.WithNumber("seat", mcp.Description("Your seat: 0 goes first, 1 goes second (default 0)")),
		mcp.WithNumber("seed", mcp.Description("Shuffle seed; 0 picks one from the clock")),
		mcp.WithString("kingdom", mcp.Description("A preset name such as 'First Game', or ten comma-separated card names. Empty picks at random.")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current game state and the log lines since the last call. Read-only."),
	)
}

func legalMovesTool() mcp.Tool {
	return mcp.NewTool("legal_moves",
		mcp.WithDescription("List commands that are legal right now. Each can be passed to act unchanged. "+
			"The list is representative: every valid single card is listed, larger selections are sampled."),
	)
}

func actTool() mcp.Tool {
	return mcp.NewTool("act",
		mcp.WithDescription("Submit one command, e.g. 'play 2', 'treasures', 'buy silver', 'end', "+
			"'choose 1 3', 'pick 1', 'gain smithy', 'none', 'yes', 'no'. Hand positions start at 1. "+
			"After your command the AI plays until you have to act again."),
		mcp.WithString("command", mcp.Required(), mcp.Description("The command text")),
	)
}

// --- Tool handlers ---

func (srv *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seat := request.GetInt("seat", 0)
	if seat != 0 && seat != 1 {
		return mcp.NewToolResultError("seat must be 0 or 1"), nil
	}
	def := srv.base
	if seed := request.GetInt("seed", 0); seed != 0 {
		def.Seed = int64(seed)
	}
	if k := request.GetString("kingdom", ""); k != "" {
		kingdom, err := ParseKingdom(k)
		if err != nil {
			return mcp.NewToolResultErrorf("Bad kingdom: %v", err), nil
		}
		def.Kingdom = kingdom
	}
	def.Seats[seat] = types.SeatDef{Name: "You"}
	def.Seats[1-seat] = types.SeatDef{Name: "AI", AI: true}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	sess, err := driver.New(def, srv.logger)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	srv.sess = sess
	srv.seat = seat
	srv.lastLog = 0
	if _, err := sess.RunAutomated(ctx); err != nil {
		return mcp.NewToolResultErrorf("AI failed: %v", err), nil
	}
	srv.logger.Info("mcp game started", zap.String("id", sess.Record.ID), zap.Int("seat", seat))
	return srv.respond(), nil
}

func (srv *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.sess == nil {
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	}
	return srv.respond(), nil
}

func (srv *Server) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.sess == nil {
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	}
	moves := legalCommands(srv.sess.State)
	if len(moves) == 0 {
		return mcp.NewToolResultText("[]"), nil
	}
	data, err := json.Marshal(moves)
	if err != nil {
		return mcp.NewToolResultErrorf("marshal error: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (srv *Server) handleAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := strings.TrimSpace(request.GetString("command", ""))
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.sess == nil {
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	}
	if srv.sess.State.GameOver {
		return mcp.NewToolResultError("The game is over. Use new_game to play again."), nil
	}

	out := srv.sess.Step(command)
	if out.Err != nil {
		return mcp.NewToolResultErrorf("Rejected %q: %v. Call legal_moves for valid commands.", command, out.Err), nil
	}
	if !out.Applied {
		return mcp.NewToolResultErrorf("%q changed nothing.", command), nil
	}
	if _, err := srv.sess.RunAutomated(ctx); err != nil {
		return mcp.NewToolResultErrorf("AI failed: %v", err), nil
	}
	return srv.respond(), nil
}

// respond renders the state for the agent's seat. mu must be held.
func (srv *Server) respond() *mcp.CallToolResult {
	view := srv.view()
	data, err := json.Marshal(view)
	if err != nil {
		return mcp.NewToolResultErrorf("marshal error: %v", err)
	}
	return mcp.NewToolResultText(string(data))
}

func (srv *Server) view() StateView {
	s := srv.sess.State
	me := &s.Players[srv.seat]
	opp := &s.Players[1-srv.seat]

	v := StateView{
		GameID:   srv.sess.Record.ID,
		YourSeat: srv.seat,
		Turn:     s.Turn,
		Current:  s.Players[s.Current].Name,
		Phase:    string(s.Phase),
		Actions:  s.Actions,
		Buys:     s.Buys,
		Coins:    s.Coins,
		Hand:     names(me.Hand),
		Deck:     len(me.Deck),
		Discard:  len(me.Discard),
		InPlay:   names(s.Players[s.Current].PlayArea),
		Opponent: OpponentView{
			Name:    opp.Name,
			Hand:    len(opp.Hand),
			Deck:    len(opp.Deck),
			Discard: len(opp.Discard),
		},
		Supply:   make(map[string]int, len(s.Supply)),
		Pending:  console.Prompt(s),
		GameOver: s.GameOver,
	}
	for id, n := range s.Supply {
		v.Supply[id] = n
	}
	if srv.lastLog < len(s.Log) {
		v.Events = append([]string(nil), s.Log[srv.lastLog:]...)
		srv.lastLog = len(s.Log)
	}
	if s.GameOver {
		scores := s.Scores
		v.Scores = &scores
		v.Result = console.Status(s)
	} else {
		v.Legal = legalCommands(s)
	}
	return v
}

// legalCommands formats rules.Legal as act commands.
func legalCommands(s *types.State) []string {
	legal := rules.Legal(s)
	out := make([]string, 0, len(legal))
	for _, in := range legal {
		out = append(out, parser.Format(in))
	}
	return out
}

func names(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = events.Name(id)
	}
	return out
}

// ParseKingdom reads a preset name or a comma-separated list of card names.
func ParseKingdom(text string) ([]string, error) {
	if ids, ok := loader.FindPreset(loader.BuiltinPresets, text); ok {
		return append([]string(nil), ids...), nil
	}
	var kingdom []string
	for _, name := range strings.Split(text, ",") {
		id, err := parser.CardID(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		kingdom = append(kingdom, id)
	}
	return kingdom, nil
}
