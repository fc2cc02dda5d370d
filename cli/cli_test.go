package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/nathoo/deckcore/driver"
	"github.com/nathoo/deckcore/types"
)

var testDef = types.GameDef{
	Seed:    8,
	Kingdom: []string{"cellar", "chapel", "moat", "village", "workshop", "militia", "remodel", "smithy", "throneRoom", "witch"},
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	return newTestCLIWith(t, testDef, input)
}

func newTestCLIWith(t *testing.T, def types.GameDef, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	sess, err := driver.New(def, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("driver.New failed: %v", err)
	}
	var out bytes.Buffer
	c := New(sess, t.TempDir())
	c.In = strings.NewReader(input)
	c.Out = &out
	return c, &out
}

func run(t *testing.T, c *CLI) {
	t.Helper()
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestCLI_StartShowsBoard(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	run(t, c)

	output := out.String()
	for _, want := range []string{"Game started! Your turn.", "Turn 1 | You | Action phase", "Hand: 1 ", "[Goodbye.]"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestCLI_TurnPassesToAIAndBack(t *testing.T) {
	c, out := newTestCLI(t, "treasures\nend\n/quit\n")
	run(t, c)

	output := out.String()
	for _, want := range []string{"--- Turn 1: AI's turn ---", "--- Turn 2: You's turn ---", "Turn 2 | You | Action phase"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if c.Session.State.Current != 0 || c.Session.State.Turn != 2 {
		t.Errorf("current=%d turn=%d", c.Session.State.Current, c.Session.State.Turn)
	}
}

func TestCLI_Errors(t *testing.T) {
	c, out := newTestCLI(t, "dance\nbuy province\nplay 9\n/quit\n")
	run(t, c)

	output := out.String()
	for _, want := range []string{"[unknown command", "[not allowed in this phase]", "[no card at that position]"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	run(t, c)

	output := out.String()
	for _, want := range []string{"/save", "/load", "/undo", "/quit", "Legal now:", "[  buyphase]"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	c, out := newTestCLI(t, "treasures\n/save test\n/quit\n")
	c.Meta.SaveDir = dir
	run(t, c)
	if !strings.Contains(out.String(), "[Game saved to test.]") {
		t.Fatalf("expected save confirmation:\n%s", out.String())
	}
	want := c.Session.State

	c2, out2 := newTestCLI(t, "/load test\n/quit\n")
	c2.Meta.SaveDir = dir
	run(t, c2)
	if !strings.Contains(out2.String(), "[Game loaded from test (turn 1).]") {
		t.Errorf("expected load confirmation:\n%s", out2.String())
	}
	if c2.Session.State.Phase != want.Phase || c2.Session.State.Coins != want.Coins {
		t.Errorf("loaded phase=%s coins=%d, want %s %d",
			c2.Session.State.Phase, c2.Session.State.Coins, want.Phase, want.Coins)
	}
}

func TestCLI_LoadNonexistent(t *testing.T) {
	c, out := newTestCLI(t, "/load nonexistent\n/quit\n")
	run(t, c)
	if !strings.Contains(out.String(), "[Load failed") {
		t.Error("expected load failure message")
	}
}

func TestCLI_Undo(t *testing.T) {
	c, out := newTestCLI(t, "treasures\n/undo\n/quit\n")
	run(t, c)
	if !strings.Contains(out.String(), "[Undid your last move.]") {
		t.Errorf("expected undo confirmation:\n%s", out.String())
	}
	if c.Session.State.Phase != types.PhaseAction || len(c.Session.Record.Intents) != 0 {
		t.Errorf("phase=%s intents=%v", c.Session.State.Phase, c.Session.Record.Intents)
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	run(t, c)
	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\ntreasures\n/trace\n/quit\n")
	run(t, c)

	output := out.String()
	for _, want := range []string{"Trace output enabled", "[trace] Events:", "Trace output disabled"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestCLI_Again(t *testing.T) {
	c, out := newTestCLI(t, "again\ntreasures\nagain\n/quit\n")
	run(t, c)

	output := out.String()
	if !strings.Contains(output, "Nothing to repeat.") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
	// The repeat finds no treasures left to play.
	if !strings.Contains(output, "[Nothing to do.]") {
		t.Errorf("expected repeated treasures to be a no-op:\n%s", output)
	}
}

func TestCLI_ScriptEchoAndComments(t *testing.T) {
	c, out := newTestCLI(t, "# opening\n\ntreasures\n/quit\n")
	c.EchoInput = true
	run(t, c)

	output := out.String()
	if strings.Contains(output, "# opening") {
		t.Error("comment lines should be skipped")
	}
	if !strings.Contains(output, "> treasures\n") {
		t.Errorf("expected echoed input:\n%s", output)
	}
}

func TestCLI_AIOpensTheGame(t *testing.T) {
	def := testDef
	def.Seats = [2]types.SeatDef{{Name: "Bot", AI: true}, {Name: "Ada"}}
	c, out := newTestCLIWith(t, def, "/quit\n")
	run(t, c)

	output := out.String()
	if !strings.Contains(output, "--- Turn 1: Ada's turn ---") {
		t.Errorf("expected the AI to finish its opening turn:\n%s", output)
	}
	if !strings.Contains(output, "Turn 1 | Ada | Action phase") {
		t.Errorf("expected Ada's board:\n%s", output)
	}
}

func TestCLI_EOF(t *testing.T) {
	c, _ := newTestCLI(t, "treasures\n")
	run(t, c)
}
