package loader

import "strings"

// BuiltinPresets are the recommended kingdoms from the base set rulebook.
var BuiltinPresets = map[string][]string{
	"First Game": {
		"cellar", "market", "merchant", "militia", "mine",
		"moat", "remodel", "smithy", "village", "workshop",
	},
	"Size Distortion": {
		"artisan", "bandit", "bureaucrat", "chapel", "festival",
		"gardens", "sentry", "throneRoom", "witch", "workshop",
	},
	"Deck Top": {
		"artisan", "bureaucrat", "councilRoom", "festival", "harbinger",
		"laboratory", "moneylender", "sentry", "vassal", "village",
	},
	"Sleight of Hand": {
		"cellar", "councilRoom", "festival", "gardens", "library",
		"harbinger", "militia", "poacher", "smithy", "throneRoom",
	},
	"Improvements": {
		"artisan", "cellar", "market", "merchant", "mine",
		"moat", "moneylender", "poacher", "remodel", "witch",
	},
	"Silver & Gold": {
		"bandit", "bureaucrat", "chapel", "harbinger", "laboratory",
		"merchant", "mine", "moneylender", "throneRoom", "vassal",
	},
}

// presetKey folds case and separators so "first_game" finds "First Game".
func presetKey(name string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(name))
}

// FindPreset looks a preset up by name, ignoring case and separators.
func FindPreset(presets map[string][]string, name string) ([]string, bool) {
	key := presetKey(name)
	for n, ids := range presets {
		if presetKey(n) == key {
			return ids, true
		}
	}
	return nil, false
}
