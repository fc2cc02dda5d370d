// Package save implements YAML game records. A record keeps the setup and
// every applied intent; replaying it rebuilds the exact state, shuffles
// included, because the engine draws all randomness from the recorded seed.
package save

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/deckcore/engine"
	"github.com/nathoo/deckcore/engine/parser"
	"github.com/nathoo/deckcore/types"
)

// Version is written into every record.
const Version = "1"

// ErrBadRecord is returned for records that cannot be loaded or replayed.
var ErrBadRecord = errors.New("bad game record")

// Seat is one player's setup in a record.
type Seat struct {
	Name string `yaml:"name"`
	AI   bool   `yaml:"ai"`
}

// Record is the YAML-serializable game transcript.
type Record struct {
	Version string   `yaml:"version"`
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title,omitempty"`
	Seed    int64    `yaml:"seed"`
	Kingdom []string `yaml:"kingdom"`
	Seats   []Seat   `yaml:"seats"`
	Intents []string `yaml:"intents"`
}

// NewRecord starts a record for a game created from def. s is the opening
// state, whose kingdom is stored so the record does not depend on how a
// random kingdom was drawn.
func NewRecord(def types.GameDef, s *types.State) *Record {
	r := &Record{
		Version: Version,
		ID:      uuid.NewString(),
		Title:   def.Title,
		Seed:    s.Seed,
		Kingdom: append([]string(nil), s.Kingdom...),
		Intents: []string{},
	}
	for _, p := range s.Players {
		r.Seats = append(r.Seats, Seat{Name: p.Name, AI: p.IsAI})
	}
	return r
}

// Append records an applied intent.
func (r *Record) Append(in types.Intent) {
	r.Intents = append(r.Intents, parser.Format(in))
}

// Def returns the game definition the record was started from.
func (r *Record) Def() types.GameDef {
	def := types.GameDef{
		Title:   r.Title,
		Seed:    r.Seed,
		Kingdom: append([]string(nil), r.Kingdom...),
	}
	for i := 0; i < len(def.Seats) && i < len(r.Seats); i++ {
		def.Seats[i] = types.SeatDef{Name: r.Seats[i].Name, AI: r.Seats[i].AI}
	}
	return def
}

// Truncate returns a copy of the record holding only the first n intents.
func (r *Record) Truncate(n int) *Record {
	c := *r
	c.Kingdom = append([]string(nil), r.Kingdom...)
	c.Seats = append([]Seat(nil), r.Seats...)
	c.Intents = append([]string{}, r.Intents[:n]...)
	return &c
}

// Save serializes a record to YAML bytes.
func Save(r *Record) ([]byte, error) {
	return yaml.Marshal(r)
}

// Load deserializes YAML bytes into a Record.
func Load(data []byte) (*Record, error) {
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
	}
	if len(r.Seats) != 2 {
		return nil, fmt.Errorf("%w: %d seats, want 2", ErrBadRecord, len(r.Seats))
	}
	if err := engine.ValidateKingdom(r.Kingdom); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
	}
	// Ensure slices are never nil after load.
	if r.Intents == nil {
		r.Intents = []string{}
	}
	return &r, nil
}

// WriteFile saves a record to path.
func WriteFile(path string, r *Record) error {
	data, err := Save(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a record from path.
func ReadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Replay rebuilds the state a record ends in. e must shuffle from the state
// seed, as engine.New does, for the result to match the recorded game.
func Replay(r *Record, e *engine.Engine) (*types.State, error) {
	s, err := engine.NewGame(r.Def())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
	}
	for i, text := range r.Intents {
		in, err := parser.Parse(text, s)
		if err != nil {
			return nil, fmt.Errorf("%w: intent %d %q: %w", ErrBadRecord, i+1, text, err)
		}
		next, res := e.Apply(s, in)
		if res.Err != nil {
			return nil, fmt.Errorf("%w: intent %d %q: %w", ErrBadRecord, i+1, text, res.Err)
		}
		s = next
	}
	return s, nil
}
