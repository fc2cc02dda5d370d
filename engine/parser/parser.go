// Package parser converts command strings into Intent structs and back.
// Intentionally dumb: no NLP, just verbs, numbers and card names.
//
// Hand and discard positions are 1-based in text and 0-based in intents.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/types"
)

// Parse errors. Callers compare with errors.Is.
var (
	ErrEmptyInput     = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgument    = errors.New("bad argument")
)

var verbAliases = map[string]string{
	// Play
	"p":    "play",
	"use":  "play",
	"t":    "treasure",
	"cash": "treasure",

	// Buy phase
	"buyphase":  "buyphase",
	"treasures": "buyphase",
	"coins":     "buyphase",
	"money":     "buyphase",

	// Buy
	"b":        "buy",
	"purchase": "buy",

	// End turn
	"end":     "end",
	"done":    "end",
	"pass":    "end",
	"cleanup": "end",

	// Resolve
	"choose":  "choose",
	"c":       "choose",
	"discard": "choose",
	"trash":   "choose",
	"pick":    "pick",
	"gain":    "gain",
	"g":       "gain",
	"take":    "gain",
	"none":    "none",
	"skip":    "none",
	"yes":     "yes",
	"y":       "yes",
	"no":      "no",
	"n":       "no",
}

// multiWordVerbs handles "end turn", "buy phase", "play treasures" etc.
var multiWordVerbs = map[string]string{
	"end turn":       "end",
	"buy phase":      "buyphase",
	"play treasures": "buyphase",
	"play all":       "buyphase",
}

// Parse converts a raw command string into an Intent. s may be nil; when
// given, it decides whether "play" means an action or a treasure and which
// shape a pending effect's choice takes.
func Parse(input string, s *types.State) (types.Intent, error) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return types.Intent{}, ErrEmptyInput
	}

	if len(words) >= 2 {
		if verb, ok := multiWordVerbs[words[0]+" "+words[1]]; ok {
			words = append([]string{verb}, words[2:]...)
		}
	}
	verb, ok := verbAliases[words[0]]
	if !ok {
		verb = words[0]
	}
	args := words[1:]

	switch verb {
	case "play":
		i, err := position(args)
		if err != nil {
			return types.Intent{}, err
		}
		kind := types.IntentPlayAction
		if isTreasureAt(s, i) {
			kind = types.IntentPlayTreasure
		}
		return types.Intent{Kind: kind, HandIndex: i}, nil

	case "treasure":
		i, err := position(args)
		if err != nil {
			return types.Intent{}, err
		}
		return types.Intent{Kind: types.IntentPlayTreasure, HandIndex: i}, nil

	case "buyphase":
		return types.Intent{Kind: types.IntentBuyPhase}, nil

	case "buy":
		id, err := CardID(strings.Join(args, ""))
		if err != nil {
			return types.Intent{}, err
		}
		return types.Intent{Kind: types.IntentBuy, Card: id}, nil

	case "end":
		return types.Intent{Kind: types.IntentEndTurn}, nil

	case "yes":
		return resolve(types.Choice{Kind: types.ChoiceConfirm}), nil

	case "no":
		return resolve(types.Choice{Kind: types.ChoiceDecline}), nil

	case "none":
		if wantsDecline(s) {
			return resolve(types.Choice{Kind: types.ChoiceDecline}), nil
		}
		return resolve(types.Choice{Kind: types.ChoiceIndices, Indices: []int{}}), nil

	case "gain":
		id, err := CardID(strings.Join(args, ""))
		if err != nil {
			return types.Intent{}, err
		}
		return resolve(types.Choice{Kind: types.ChoiceCard, Card: id}), nil

	case "choose", "pick":
		return parseChoice(verb, args, s)
	}
	return types.Intent{}, fmt.Errorf("%w: %q", ErrUnknownCommand, words[0])
}

func resolve(c types.Choice) types.Intent {
	return types.Intent{Kind: types.IntentResolve, Choice: c}
}

// parseChoice reads positions, or a card name when the argument is not a
// number. The pending effect picks between a single index and a set.
func parseChoice(verb string, args []string, s *types.State) (types.Intent, error) {
	if len(args) == 0 {
		return types.Intent{}, fmt.Errorf("%w: %s needs at least one position", ErrBadArgument, verb)
	}
	if _, err := strconv.Atoi(args[0]); err != nil {
		id, err := CardID(strings.Join(args, ""))
		if err != nil {
			return types.Intent{}, err
		}
		return resolve(types.Choice{Kind: types.ChoiceCard, Card: id}), nil
	}

	idx := make([]int, 0, len(args))
	for _, a := range args {
		i, err := position([]string{a})
		if err != nil {
			return types.Intent{}, err
		}
		idx = append(idx, i)
	}

	single := verb == "pick"
	if s != nil && s.Pending != nil {
		single = wantsIndex(s.Pending)
	}
	if !single {
		return resolve(types.Choice{Kind: types.ChoiceIndices, Indices: idx}), nil
	}
	if len(idx) != 1 {
		return types.Intent{}, fmt.Errorf("%w: choose a single position", ErrBadArgument)
	}
	return resolve(types.Choice{Kind: types.ChoiceIndex, Index: idx[0]}), nil
}

// position reads one 1-based position and returns it 0-based.
func position(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected one card position", ErrBadArgument)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a card position", ErrBadArgument, args[0])
	}
	return n - 1, nil
}

func isTreasureAt(s *types.State, i int) bool {
	if s == nil {
		return false
	}
	hand := s.Players[s.Current].Hand
	if i < 0 || i >= len(hand) {
		return false
	}
	return catalog.MustLookup(hand[i]).Is(catalog.Treasure)
}

// wantsIndex reports whether p is answered with a single position.
func wantsIndex(p types.Pending) bool {
	switch p := p.(type) {
	case types.ThroneRoomPending, types.HarbingerPending:
		return true
	case types.RemodelPending:
		return p.Step == types.StepTrash
	case types.MinePending:
		return p.Step == types.StepTrash
	case types.ArtisanPending:
		return p.Step == types.StepTopdeck
	}
	return false
}

func wantsDecline(s *types.State) bool {
	if s == nil {
		return false
	}
	switch s.Pending.(type) {
	case types.VassalPending, types.HarbingerPending:
		return true
	}
	return false
}

// CardID matches a card name case-insensitively with spaces removed, so
// "Throne Room", "throne room" and "throneroom" all give "throneRoom".
func CardID(name string) (string, error) {
	key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if key == "" {
		return "", fmt.Errorf("%w: missing card name", ErrBadArgument)
	}
	for _, id := range catalog.IDs() {
		if strings.ToLower(id) == key {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", catalog.ErrUnknownCard, name)
}

// Format renders an intent as a command Parse reads back to the same intent
// against the same state.
func Format(in types.Intent) string {
	switch in.Kind {
	case types.IntentPlayAction:
		return fmt.Sprintf("play %d", in.HandIndex+1)
	case types.IntentPlayTreasure:
		return fmt.Sprintf("treasure %d", in.HandIndex+1)
	case types.IntentBuyPhase:
		return "buyphase"
	case types.IntentBuy:
		return "buy " + in.Card
	case types.IntentEndTurn:
		return "end"
	case types.IntentResolve:
		return formatChoice(in.Choice)
	}
	return string(in.Kind)
}

func formatChoice(c types.Choice) string {
	switch c.Kind {
	case types.ChoiceIndex:
		return fmt.Sprintf("pick %d", c.Index+1)
	case types.ChoiceIndices:
		if len(c.Indices) == 0 {
			return "none"
		}
		parts := make([]string, len(c.Indices))
		for i, n := range c.Indices {
			parts[i] = strconv.Itoa(n + 1)
		}
		return "choose " + strings.Join(parts, " ")
	case types.ChoiceCard:
		return "gain " + c.Card
	case types.ChoiceConfirm:
		return "yes"
	case types.ChoiceDecline:
		return "no"
	}
	return string(c.Kind)
}
