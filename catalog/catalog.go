// Package catalog is the static base-set card catalog. Cards are immutable
// reference data looked up by identifier.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCard is returned by Lookup for an identifier not in the catalog.
var ErrUnknownCard = errors.New("unknown card")

// Tag is a card category.
type Tag string

const (
	Treasure Tag = "treasure"
	Victory  Tag = "victory"
	Action   Tag = "action"
	Attack   Tag = "attack"
	Reaction Tag = "reaction"
	Curse    Tag = "curse"
)

// AttackKind selects the attack applied to the opponent.
type AttackKind string

const (
	AttackNone       AttackKind = ""
	AttackDiscardTo3 AttackKind = "discardTo3"
	AttackCurse      AttackKind = "curse"
	AttackBureaucrat AttackKind = "bureaucrat"
	AttackBandit     AttackKind = "bandit"
)

// Special selects the card-specific part of an action's effect.
type Special string

const (
	SpecialNone        Special = ""
	SpecialCellar      Special = "cellar"
	SpecialChapel      Special = "chapel"
	SpecialHarbinger   Special = "harbinger"
	SpecialMerchant    Special = "merchant"
	SpecialVassal      Special = "vassal"
	SpecialWorkshop    Special = "workshop"
	SpecialBureaucrat  Special = "bureaucrat"
	SpecialMoneylender Special = "moneylender"
	SpecialPoacher     Special = "poacher"
	SpecialRemodel     Special = "remodel"
	SpecialThroneRoom  Special = "throneRoom"
	SpecialBandit      Special = "bandit"
	SpecialCouncilRoom Special = "councilRoom"
	SpecialLibrary     Special = "library"
	SpecialMine        Special = "mine"
	SpecialSentry      Special = "sentry"
	SpecialArtisan     Special = "artisan"
)

// Effect is the descriptor applied when an action card is played: flat
// bonuses first, then the attack, then the special.
type Effect struct {
	Draw    int
	Actions int
	Buys    int
	Coins   int
	Attack  AttackKind
	Special Special
}

// Card is a catalog entry.
type Card struct {
	ID        string
	Name      string
	Tags      []Tag
	Cost      int
	Coins     int // treasure value
	VP        int
	DynamicVP bool // worth one point per ten cards owned
	Effect    Effect
}

// Is reports whether the card carries the tag.
func (c Card) Is(t Tag) bool {
	for _, tag := range c.Tags {
		if tag == t {
			return true
		}
	}
	return false
}

// Points returns the card's victory value for an owner of total cards.
func (c Card) Points(total int) int {
	if c.DynamicVP {
		return total / 10
	}
	return c.VP
}

func card(id, name string, cost int, tags ...Tag) Card {
	return Card{ID: id, Name: name, Cost: cost, Tags: tags}
}

func action(id, name string, cost int, eff Effect, tags ...Tag) Card {
	c := card(id, name, cost, append([]Tag{Action}, tags...)...)
	c.Effect = eff
	return c
}

var cards = map[string]Card{}

func register(c Card) {
	cards[c.ID] = c
}

func init() {
	copper := card("copper", "Copper", 0, Treasure)
	copper.Coins = 1
	silver := card("silver", "Silver", 3, Treasure)
	silver.Coins = 2
	gold := card("gold", "Gold", 6, Treasure)
	gold.Coins = 3
	estate := card("estate", "Estate", 2, Victory)
	estate.VP = 1
	duchy := card("duchy", "Duchy", 5, Victory)
	duchy.VP = 3
	province := card("province", "Province", 8, Victory)
	province.VP = 6
	curse := card("curse", "Curse", 0, Curse)
	curse.VP = -1
	gardens := card("gardens", "Gardens", 4, Victory)
	gardens.DynamicVP = true

	for _, c := range []Card{copper, silver, gold, estate, duchy, province, curse, gardens} {
		register(c)
	}

	for _, c := range []Card{
		action("cellar", "Cellar", 2, Effect{Actions: 1, Special: SpecialCellar}),
		action("chapel", "Chapel", 2, Effect{Special: SpecialChapel}),
		action("moat", "Moat", 2, Effect{Draw: 2}, Reaction),
		action("harbinger", "Harbinger", 3, Effect{Draw: 1, Actions: 1, Special: SpecialHarbinger}),
		action("merchant", "Merchant", 3, Effect{Draw: 1, Actions: 1, Special: SpecialMerchant}),
		action("vassal", "Vassal", 3, Effect{Coins: 2, Special: SpecialVassal}),
		action("village", "Village", 3, Effect{Draw: 1, Actions: 2}),
		action("workshop", "Workshop", 3, Effect{Special: SpecialWorkshop}),
		action("bureaucrat", "Bureaucrat", 4, Effect{Attack: AttackBureaucrat, Special: SpecialBureaucrat}, Attack),
		action("militia", "Militia", 4, Effect{Coins: 2, Attack: AttackDiscardTo3}, Attack),
		action("moneylender", "Moneylender", 4, Effect{Special: SpecialMoneylender}),
		action("poacher", "Poacher", 4, Effect{Draw: 1, Actions: 1, Coins: 1, Special: SpecialPoacher}),
		action("remodel", "Remodel", 4, Effect{Special: SpecialRemodel}),
		action("smithy", "Smithy", 4, Effect{Draw: 3}),
		action("throneRoom", "Throne Room", 4, Effect{Special: SpecialThroneRoom}),
		action("bandit", "Bandit", 5, Effect{Attack: AttackBandit, Special: SpecialBandit}, Attack),
		action("councilRoom", "Council Room", 5, Effect{Draw: 4, Buys: 1, Special: SpecialCouncilRoom}),
		action("festival", "Festival", 5, Effect{Actions: 2, Buys: 1, Coins: 2}),
		action("laboratory", "Laboratory", 5, Effect{Draw: 2, Actions: 1}),
		action("library", "Library", 5, Effect{Special: SpecialLibrary}),
		action("market", "Market", 5, Effect{Draw: 1, Actions: 1, Buys: 1, Coins: 1}),
		action("mine", "Mine", 5, Effect{Special: SpecialMine}),
		action("sentry", "Sentry", 5, Effect{Draw: 1, Actions: 1, Special: SpecialSentry}),
		action("witch", "Witch", 5, Effect{Draw: 2, Attack: AttackCurse}, Attack),
		action("artisan", "Artisan", 6, Effect{Special: SpecialArtisan}),
	} {
		register(c)
	}
}

// BasicCards are in every game's supply.
var BasicCards = []string{"copper", "silver", "gold", "estate", "duchy", "province", "curse"}

// KingdomCards are the candidates for the ten variable supply piles.
var KingdomCards = []string{
	"cellar", "chapel", "moat", "harbinger", "merchant", "vassal", "village",
	"workshop", "bureaucrat", "gardens", "militia", "moneylender", "poacher",
	"remodel", "smithy", "throneRoom", "bandit", "councilRoom", "festival",
	"laboratory", "library", "market", "mine", "sentry", "witch", "artisan",
}

// Lookup returns the card with the given identifier.
func Lookup(id string) (Card, error) {
	c, ok := cards[id]
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	return c, nil
}

// MustLookup is Lookup for identifiers that came from game state. An unknown
// identifier there means the catalog and the caller disagree, so it panics.
func MustLookup(id string) Card {
	c, err := Lookup(id)
	if err != nil {
		panic(err)
	}
	return c
}

// Has reports whether id is a catalog identifier.
func Has(id string) bool {
	_, ok := cards[id]
	return ok
}

// IDs returns every catalog identifier in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(cards))
	for id := range cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Source is the randomness RandomKingdom needs.
type Source interface {
	Intn(n int) int
}

// RandomKingdom picks n distinct kingdom cards, sorted by cost then name.
func RandomKingdom(src Source, n int) []string {
	pool := append([]string(nil), KingdomCards...)
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + src.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	picked := pool[:n]
	SortByCost(picked)
	return picked
}

// SortByCost orders ids by ascending cost, then name.
func SortByCost(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := MustLookup(ids[i]), MustLookup(ids[j])
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		return a.Name < b.Name
	})
}
