// Package state holds the helpers that read and rearrange a game state:
// cloning, zone moves, drawing and supply queries. Callers mutate only
// states they cloned themselves.
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/deckcore/catalog"
	"github.com/nathoo/deckcore/types"
)

// Shuffler permutes a pile in place.
type Shuffler interface {
	Shuffle(cards []string)
}

// NoShuffle leaves piles in their current order. Tests use it for exact
// draw sequences.
type NoShuffle struct{}

func (NoShuffle) Shuffle([]string) {}

// Zone names a destination for gained or moved cards.
type Zone string

const (
	ZoneDeck    Zone = "deck"
	ZoneHand    Zone = "hand"
	ZoneDiscard Zone = "discard"
)

// Clone returns a deep copy of s sharing no mutable storage with it.
func Clone(s *types.State) *types.State {
	c := *s
	c.Supply = cloneMap(s.Supply)
	c.Minted = cloneMap(s.Minted)
	c.Kingdom = cloneSlice(s.Kingdom)
	c.Trash = cloneSlice(s.Trash)
	c.Deferred = cloneSlice(s.Deferred)
	c.Log = cloneSlice(s.Log)
	for i := range s.Players {
		p := s.Players[i]
		p.Deck = cloneSlice(p.Deck)
		p.Hand = cloneSlice(p.Hand)
		p.Discard = cloneSlice(p.Discard)
		p.PlayArea = cloneSlice(p.PlayArea)
		c.Players[i] = p
	}
	return &c
}

func cloneSlice(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Opponent returns the other seat index.
func Opponent(i int) int {
	return 1 - i
}

// CurrentPlayer returns the player whose turn it is.
func CurrentPlayer(s *types.State) *types.Player {
	return &s.Players[s.Current]
}

// RemoveAt removes the card at index i, returning the new slice and the card.
func RemoveAt(zone []string, i int) ([]string, string) {
	card := zone[i]
	out := make([]string, 0, len(zone)-1)
	out = append(out, zone[:i]...)
	out = append(out, zone[i+1:]...)
	return out, card
}

// RemoveIndices removes the given distinct indices, returning the remaining
// cards and the removed cards in index order.
func RemoveIndices(zone []string, indices []int) (rest, removed []string) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)
	for _, i := range sorted {
		removed = append(removed, zone[i])
	}
	for i, c := range zone {
		if !drop[i] {
			rest = append(rest, c)
		}
	}
	return rest, removed
}

// ValidIndices reports whether indices are distinct and within [0, n).
func ValidIndices(indices []int, n int) bool {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

// Reshuffle moves the discard pile into the deck in shuffled order.
func Reshuffle(p *types.Player, sh Shuffler) {
	deck := p.Discard
	sh.Shuffle(deck)
	p.Deck = deck
	p.Discard = nil
}

// Draw moves up to n cards from the top of the deck to the hand, reshuffling
// the discard pile when the deck runs out. It returns how many were drawn.
func Draw(p *types.Player, n int, sh Shuffler) int {
	drawn := 0
	for drawn < n {
		if len(p.Deck) == 0 {
			if len(p.Discard) == 0 {
				break
			}
			Reshuffle(p, sh)
		}
		top := p.Deck[len(p.Deck)-1]
		p.Deck = p.Deck[:len(p.Deck)-1]
		p.Hand = append(p.Hand, top)
		drawn++
	}
	return drawn
}

// EnsureDeck guarantees at least n deck cards where possible by shuffling the
// discard pile underneath the existing deck.
func EnsureDeck(p *types.Player, n int, sh Shuffler) {
	if len(p.Deck) >= n || len(p.Discard) == 0 {
		return
	}
	under := p.Discard
	sh.Shuffle(under)
	p.Deck = append(under, p.Deck...)
	p.Discard = nil
}

// PopDeck removes and returns the top deck card.
func PopDeck(p *types.Player) (string, bool) {
	if len(p.Deck) == 0 {
		return "", false
	}
	top := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	return top, true
}

// Gain takes one card from the supply into the player's zone. It returns
// false, changing nothing, when the pile is empty or absent.
func Gain(s *types.State, player int, id string, to Zone) bool {
	if s.Supply[id] <= 0 {
		return false
	}
	s.Supply[id]--
	p := &s.Players[player]
	switch to {
	case ZoneHand:
		p.Hand = append(p.Hand, id)
	case ZoneDeck:
		p.Deck = append(p.Deck, id)
	default:
		p.Discard = append(p.Discard, id)
	}
	return true
}

// EmptyPiles counts supply piles at zero.
func EmptyPiles(s *types.State) int {
	n := 0
	for _, count := range s.Supply {
		if count == 0 {
			n++
		}
	}
	return n
}

// OwnedCards returns every card in the player's four zones.
func OwnedCards(p *types.Player) []string {
	all := make([]string, 0, len(p.Deck)+len(p.Hand)+len(p.Discard)+len(p.PlayArea))
	all = append(all, p.Deck...)
	all = append(all, p.Hand...)
	all = append(all, p.Discard...)
	all = append(all, p.PlayArea...)
	return all
}

// CountOwned returns how many copies of id the player owns.
func CountOwned(p *types.Player, id string) int {
	n := 0
	for _, c := range OwnedCards(p) {
		if c == id {
			n++
		}
	}
	return n
}

// IndexOfTag returns the first hand index holding a card with the tag, or -1.
func IndexOfTag(hand []string, tag catalog.Tag) int {
	for i, id := range hand {
		if catalog.MustLookup(id).Is(tag) {
			return i
		}
	}
	return -1
}

// Gainable returns supply cards in stock costing at most maxCost that pass
// keep (nil keeps everything), costliest first.
func Gainable(s *types.State, maxCost int, keep func(catalog.Card) bool) []string {
	var out []string
	for id, count := range s.Supply {
		if count <= 0 {
			continue
		}
		c := catalog.MustLookup(id)
		if c.Cost > maxCost || (keep != nil && !keep(c)) {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := catalog.MustLookup(out[i]), catalog.MustLookup(out[j])
		if a.Cost != b.Cost {
			return a.Cost > b.Cost
		}
		return a.ID < b.ID
	})
	return out
}

// CheckConservation verifies that every minted copy of every card is in
// exactly one place: a player zone, the trash, or the supply.
func CheckConservation(s *types.State) error {
	counts := map[string]int{}
	for i := range s.Players {
		for _, c := range OwnedCards(&s.Players[i]) {
			counts[c]++
		}
	}
	for _, c := range s.Trash {
		counts[c]++
	}
	for id, n := range s.Supply {
		if n < 0 {
			return fmt.Errorf("supply %s is negative (%d)", id, n)
		}
		counts[id] += n
	}
	for id, want := range s.Minted {
		if counts[id] != want {
			return fmt.Errorf("card %s: found %d copies, minted %d", id, counts[id], want)
		}
	}
	for id := range counts {
		if _, ok := s.Minted[id]; !ok {
			return fmt.Errorf("card %s was never minted", id)
		}
	}
	return nil
}
