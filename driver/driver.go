// Package driver runs a game session: it owns the current state and the
// game record, feeds human commands and automated intents to the engine one
// at a time, and reports the log lines each step produced.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nathoo/deckcore/ai"
	"github.com/nathoo/deckcore/engine"
	"github.com/nathoo/deckcore/engine/parser"
	"github.com/nathoo/deckcore/engine/rules"
	"github.com/nathoo/deckcore/engine/save"
	"github.com/nathoo/deckcore/types"
)

// MaxAutomatedSteps bounds one RunAutomated call.
const MaxAutomatedSteps = 10000

var (
	// ErrNotYourTurn is returned when a command arrives while an automated
	// seat has to act.
	ErrNotYourTurn = errors.New("waiting for an automated player")
	// ErrNothingToUndo is returned by Undo before any human intent.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Controller produces intents for one seat. A nil Controller is a human
// seat, driven through Step.
type Controller interface {
	Next(s *types.State) (types.Intent, bool)
}

// Output is what one step produced.
type Output struct {
	Intent  types.Intent
	Applied bool
	Err     error
	Lines   []string
	Events  []types.Event
}

// Session is one running game.
type Session struct {
	Engine      *engine.Engine
	State       *types.State
	Record      *save.Record
	Controllers [2]Controller
	Policy      *ai.Policy
	Logger      *zap.Logger
	Delay       time.Duration
}

// New starts a game from def. Seats marked AI are driven by a policy built
// from def.BuyRules. A zero seed is replaced by one taken from the clock.
func New(def types.GameDef, logger *zap.Logger) (*Session, error) {
	if def.Seed == 0 {
		def.Seed = time.Now().UnixNano()
	}
	s, err := engine.NewGame(def)
	if err != nil {
		return nil, err
	}
	sess := newSession(s, save.NewRecord(def, s), ai.New(def.BuyRules), logger)
	sess.Logger.Info("game started",
		zap.String("id", sess.Record.ID),
		zap.Int64("seed", s.Seed),
		zap.Strings("kingdom", s.Kingdom),
	)
	return sess, nil
}

// Resume rebuilds a session from a record. buyRules replace the default
// ladder when non-empty.
func Resume(rec *save.Record, buyRules []types.BuyRule, logger *zap.Logger) (*Session, error) {
	s, err := save.Replay(rec, engine.New())
	if err != nil {
		return nil, err
	}
	sess := newSession(s, rec, ai.New(buyRules), logger)
	sess.Logger.Info("game resumed",
		zap.String("id", rec.ID),
		zap.Int("intents", len(rec.Intents)),
	)
	return sess, nil
}

func newSession(s *types.State, rec *save.Record, policy *ai.Policy, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	sess := &Session{
		Engine: engine.New(),
		State:  s,
		Record: rec,
		Policy: policy,
		Logger: logger,
	}
	for i, p := range s.Players {
		if p.IsAI {
			sess.Controllers[i] = policy
		}
	}
	return sess
}

// Seat returns the seat that has to act next, or -1 once the game is over.
func (s *Session) Seat() int {
	return ai.Seat(s.State)
}

// Automated reports whether the seat that has to act is automated.
func (s *Session) Automated() bool {
	seat := s.Seat()
	return seat >= 0 && s.Controllers[seat] != nil
}

// Step parses a human command and submits it for the seat that has to act.
func (s *Session) Step(input string) Output {
	if s.Automated() {
		return Output{Err: ErrNotYourTurn}
	}
	in, err := parser.Parse(input, s.State)
	if err != nil {
		return Output{Err: err}
	}
	return s.Submit(in)
}

// Submit applies an intent and records it if the engine accepts it.
func (s *Session) Submit(in types.Intent) Output {
	seat := s.Seat()
	before := len(s.State.Log)
	next, res := s.Engine.Apply(s.State, in)
	out := Output{Intent: in, Applied: res.Applied, Err: res.Err, Events: res.Events}
	if !res.Applied {
		if res.Err != nil {
			s.Logger.Debug("intent rejected",
				zap.Int("seat", seat),
				zap.String("intent", parser.Format(in)),
				zap.Error(res.Err),
			)
		}
		return out
	}

	s.State = next
	s.Record.Append(in)
	out.Lines = append([]string(nil), next.Log[before:]...)
	s.Logger.Debug("intent applied",
		zap.Int("seat", seat),
		zap.String("intent", parser.Format(in)),
		zap.Int("turn", next.Turn),
	)
	if in.Kind == types.IntentEndTurn {
		if next.GameOver {
			s.Logger.Info("game over",
				zap.String("id", s.Record.ID),
				zap.Int("winner", next.Winner),
				zap.Int("score0", next.Scores[0]),
				zap.Int("score1", next.Scores[1]),
			)
		} else {
			s.Logger.Info("turn started",
				zap.Int("turn", next.Turn),
				zap.String("player", next.Players[next.Current].Name),
			)
		}
	}
	return out
}

// StepAutomated asks the acting seat's controller for one intent and
// applies it. A rejected intent falls back to the first legal one. It
// returns false when no automated seat has to act.
func (s *Session) StepAutomated() (Output, bool) {
	if !s.Automated() {
		return Output{}, false
	}
	seat := s.Seat()
	in, ok := s.Controllers[seat].Next(s.State)
	if !ok {
		return Output{}, false
	}
	out := s.Submit(in)
	if out.Applied {
		return out, true
	}

	s.Logger.Warn("automated intent rejected",
		zap.Int("seat", seat),
		zap.String("intent", parser.Format(in)),
		zap.Error(out.Err),
	)
	for _, alt := range rules.Legal(s.State) {
		if out = s.Submit(alt); out.Applied {
			return out, true
		}
	}
	return out, false
}

// RunAutomated steps automated seats until a human seat has to act, the
// game ends or ctx is cancelled. Delay is waited between steps. It returns
// the log lines produced.
func (s *Session) RunAutomated(ctx context.Context) ([]string, error) {
	var lines []string
	for step := 0; s.Automated(); step++ {
		if step >= MaxAutomatedSteps {
			return lines, fmt.Errorf("automated play did not yield after %d steps", step)
		}
		if step > 0 && s.Delay > 0 {
			select {
			case <-ctx.Done():
				return lines, ctx.Err()
			case <-time.After(s.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return lines, err
		}
		out, ok := s.StepAutomated()
		if !ok {
			break
		}
		lines = append(lines, out.Lines...)
	}
	return lines, nil
}

// Undo takes back the last human intent and everything automated seats did
// after it, by replaying the record up to that point.
func (s *Session) Undo() error {
	e := engine.New()
	st, err := engine.NewGame(s.Record.Def())
	if err != nil {
		return err
	}
	last := -1
	for i, text := range s.Record.Intents {
		if seat := ai.Seat(st); seat >= 0 && s.Controllers[seat] == nil {
			last = i
		}
		in, err := parser.Parse(text, st)
		if err != nil {
			return fmt.Errorf("replaying intent %d: %w", i+1, err)
		}
		next, res := e.Apply(st, in)
		if res.Err != nil {
			return fmt.Errorf("replaying intent %d: %w", i+1, res.Err)
		}
		st = next
	}
	if last < 0 {
		return ErrNothingToUndo
	}

	rec := s.Record.Truncate(last)
	st, err = save.Replay(rec, e)
	if err != nil {
		return err
	}
	s.Record = rec
	s.State = st
	s.Logger.Info("undo", zap.Int("intents", len(rec.Intents)))
	return nil
}

// Save writes the game record to path.
func (s *Session) Save(path string) error {
	if err := save.WriteFile(path, s.Record); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	s.Logger.Info("game saved", zap.String("path", path), zap.String("id", s.Record.ID))
	return nil
}

// Load replaces the session's game with the record at path. Seat
// controllers follow the record's seats.
func (s *Session) Load(path string) error {
	rec, err := save.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	st, err := save.Replay(rec, s.Engine)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	s.State = st
	s.Record = rec
	for i, p := range st.Players {
		s.Controllers[i] = nil
		if p.IsAI {
			s.Controllers[i] = s.Policy
		}
	}
	s.Logger.Info("game loaded", zap.String("path", path), zap.String("id", rec.ID))
	return nil
}
