package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/deckcore/driver"
	"github.com/nathoo/deckcore/engine/parser"
	"github.com/nathoo/deckcore/engine/rules"
	"github.com/nathoo/deckcore/types"
)

// DefaultSaveName is used by /save and /load without an argument.
const DefaultSaveName = "quicksave"

// Meta runs the slash commands against a session.
type Meta struct {
	Session *driver.Session
	SaveDir string
	Trace   bool
}

// IsMeta reports whether input is a slash command.
func IsMeta(input string) bool {
	return strings.HasPrefix(input, "/")
}

// Handle runs one slash command and returns its output lines. quit is true
// for /quit.
func (m *Meta) Handle(input string) (lines []string, quit bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, false
	}
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/undo":
		if err := m.Session.Undo(); err != nil {
			return []string{fmt.Sprintf("Undo failed: %v", err)}, false
		}
		return append([]string{"Undid your last move."}, m.board()...), false

	case "/help":
		return Help(m.Session.State), false

	case "/state", "/board":
		return m.board(), false

	case "/log":
		return m.cmdLog(arg), false

	case "/trace":
		m.Trace = !m.Trace
		if m.Trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

// SavePath maps a save name to its file.
func (m *Meta) SavePath(name string) string {
	if name == "" {
		name = DefaultSaveName
	}
	return filepath.Join(m.SaveDir, name+".yaml")
}

func (m *Meta) cmdSave(name string) []string {
	if err := os.MkdirAll(m.SaveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := m.Session.Save(m.SavePath(name)); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if name == "" {
		name = DefaultSaveName
	}
	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Meta) cmdLoad(name string) []string {
	if err := m.Session.Load(m.SavePath(name)); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	if name == "" {
		name = DefaultSaveName
	}
	out := []string{fmt.Sprintf("Game loaded from %s (turn %d).", name, m.Session.State.Turn)}
	return append(out, m.board()...)
}

func (m *Meta) cmdLog(arg string) []string {
	n := 20
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			return []string{fmt.Sprintf("Usage: /log [n], got %q", arg)}
		}
		n = v
	}
	log := m.Session.State.Log
	if len(log) > n {
		log = log[len(log)-n:]
	}
	return append([]string(nil), log...)
}

func (m *Meta) board() []string {
	return Board(m.Session.State, m.BoardSeat())
}

// BoardSeat is the seat whose hand the board shows: the human seat, or seat
// 0 when both seats are automated.
func (m *Meta) BoardSeat() int {
	if m.Session.Controllers[0] != nil && m.Session.Controllers[1] == nil {
		return 1
	}
	return 0
}

// Help lists the commands, then the moves legal right now.
func Help(s *types.State) []string {
	lines := []string{
		"System:",
		"  /save [name]  Save game (default: quicksave)",
		"  /load [name]  Load game (default: quicksave)",
		"  /undo         Take back your last move",
		"  /log [n]      Show the last n log lines (default: 20)",
		"  /state        Show the board",
		"  /trace        Toggle event trace output",
		"  /help         Show this help",
		"  /quit         Exit game",
		"",
		"Game commands:",
		"  play <n> (p)          Play the card at hand position n",
		"  treasures             Play every treasure and go to the buy phase",
		"  buy <card> (b)        Buy a card",
		"  end (done, pass)      End your turn",
		"  choose <n> [<m>...]   Answer a card with hand positions",
		"  pick <n>              Answer a card with one position",
		"  gain <card>           Answer a card with a supply card",
		"  none                  Choose nothing",
		"  yes / no              Answer a yes/no question",
		"  again                 Repeat your last command",
	}
	legal := rules.Legal(s)
	if len(legal) == 0 {
		return lines
	}
	lines = append(lines, "", "Legal now:")
	for _, in := range legal {
		lines = append(lines, "  "+parser.Format(in))
	}
	return lines
}

// TraceLines renders the events of one step.
func TraceLines(out driver.Output) []string {
	if len(out.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(out.Events))}
	for _, e := range out.Events {
		line := fmt.Sprintf("[trace]   %s p%d", e.Type, e.Player)
		if e.Card != "" {
			line += " " + e.Card
		}
		if e.Count != 0 {
			line += fmt.Sprintf(" x%d", e.Count)
		}
		lines = append(lines, line)
	}
	return lines
}
