package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/engine"
)

// ValidationError collects every problem found in a script.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks cards, presets, seats and buy rules. Errors fail the
// load; warnings are kept on the Script.
func validate(c *compiled) error {
	ve := &ValidationError{}

	if c.games > 1 {
		ve.Warnings = append(ve.Warnings,
			fmt.Sprintf("Game{} defined %d times; the last one wins", c.games))
	}

	// Presets, in name order so messages are stable.
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ids := c.Presets[name]
		if err := engine.ValidateKingdom(ids); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("preset %q: %v", name, err))
		} else if len(ids) != engine.KingdomSize {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"preset %q has %d cards, want %d", name, len(ids), engine.KingdomSize))
		}
	}

	// Kingdom.
	if c.preset != "" {
		if _, ok := FindPreset(c.Presets, c.preset); !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("unknown preset %q", c.preset))
		} else if c.kingdomSet {
			ve.Errors = append(ve.Errors, "Game{} sets both preset and kingdom")
		}
	}
	if err := engine.ValidateKingdom(c.Game.Kingdom); err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf("kingdom: %v", err))
	} else if n := len(c.Game.Kingdom); n > 0 && n < engine.KingdomSize {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"kingdom has %d cards; the supply will have %d kingdom piles", n, n))
	}

	// Seats.
	if c.players != 0 && c.players != len(c.Game.Seats) {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"players lists %d seats, want %d", c.players, len(c.Game.Seats)))
	}
	if c.players > 0 {
		for i, seat := range c.Game.Seats {
			if seat.Name == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf("players[%d] has no name", i+1))
			}
		}
		if c.Game.Seats[0].Name != "" && c.Game.Seats[0].Name == c.Game.Seats[1].Name {
			ve.Warnings = append(ve.Warnings,
				fmt.Sprintf("both seats are named %q", c.Game.Seats[0].Name))
		}
	}

	// Buy rules.
	inKingdom := map[string]bool{}
	for _, id := range c.Game.Kingdom {
		inKingdom[id] = true
	}
	for _, id := range catalog.BasicCards {
		inKingdom[id] = true
	}
	for i, rule := range c.Game.BuyRules {
		where := fmt.Sprintf("buy rule %d (%s)", i+1, rule.Card)
		if !catalog.Has(rule.Card) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: unknown card", where))
			continue
		}
		if rule.MinCoins < 0 || rule.MaxOwned < 0 || rule.MinCards < 0 || rule.MaxCards < 0 || rule.CopperOver < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: negative threshold", where))
		}
		if rule.MaxCards > 0 && rule.MaxCards < rule.MinCards {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s: max_cards %d below min_cards %d", where, rule.MaxCards, rule.MinCards))
		}
		// A random kingdom may contain any card, so only a fixed one can
		// rule a card out.
		if len(c.Game.Kingdom) > 0 && !inKingdom[rule.Card] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s: card is not in the supply", where))
		}
	}

	c.Warnings = ve.Warnings
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
