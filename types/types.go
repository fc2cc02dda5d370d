// Package types defines the shared data structures for the deckcore engine.
// This package contains only type definitions and the marker methods that
// seal the Pending variants. No game logic lives here.
package types

// Phase is the turn phase of the current player.
type Phase string

const (
	PhaseAction Phase = "action"
	PhaseBuy    Phase = "buy"
)

// Player holds one seat's zones. Deck top is the last element.
type Player struct {
	ID       int
	Name     string
	IsAI     bool
	Deck     []string
	Hand     []string
	Discard  []string
	PlayArea []string
}

// State is the complete game state. Transitions never mutate a State they
// were given; they return a new one.
type State struct {
	Supply        map[string]int
	Kingdom       []string
	Trash         []string
	Players       [2]Player
	Current       int
	Phase         Phase
	Actions       int
	Buys          int
	Coins         int
	Turn          int
	Pending       Pending
	Deferred      []string // action cards awaiting their second Throne Room play
	MerchantBonus bool
	Log           []string
	GameOver      bool
	Winner        int // -1 on a tie
	Scores        [2]int
	Seed          int64
	RNGPos        int64
	Minted        map[string]int // copies in existence at setup
}

// IntentKind identifies the operation an Intent requests.
type IntentKind string

const (
	IntentPlayAction   IntentKind = "play-action"
	IntentPlayTreasure IntentKind = "play-treasure"
	IntentBuyPhase     IntentKind = "buy-phase"
	IntentBuy          IntentKind = "buy"
	IntentEndTurn      IntentKind = "end-turn"
	IntentResolve      IntentKind = "resolve"
)

// Intent is a single player request submitted to the engine.
type Intent struct {
	Kind      IntentKind
	HandIndex int    // play-action, play-treasure
	Card      string // buy
	Choice    Choice // resolve
}

// ChoiceKind identifies the shape of a pending-effect answer.
type ChoiceKind string

const (
	ChoiceIndex   ChoiceKind = "index"
	ChoiceIndices ChoiceKind = "indices"
	ChoiceCard    ChoiceKind = "card"
	ChoiceConfirm ChoiceKind = "confirm"
	ChoiceDecline ChoiceKind = "decline"
)

// Choice answers the active pending effect.
type Choice struct {
	Kind    ChoiceKind
	Index   int
	Indices []int
	Card    string
}

// Step is the sub-state of a two-step pending effect.
type Step string

const (
	StepTrash   Step = "trash"
	StepGain    Step = "gain"
	StepTopdeck Step = "topdeck"
)

// PendingKind tags a Pending variant.
type PendingKind string

const (
	PendingCellar     PendingKind = "cellar"
	PendingChapel     PendingKind = "chapel"
	PendingMilitia    PendingKind = "militia"
	PendingPoacher    PendingKind = "poacher"
	PendingWorkshop   PendingKind = "workshop"
	PendingRemodel    PendingKind = "remodel"
	PendingMine       PendingKind = "mine"
	PendingArtisan    PendingKind = "artisan"
	PendingThroneRoom PendingKind = "throneRoom"
	PendingVassal     PendingKind = "vassal"
	PendingHarbinger  PendingKind = "harbinger"
	PendingSentry     PendingKind = "sentry"
)

// Pending is an interactive card effect waiting on a choice. Variants are
// plain values so copying the interface copies the variant.
type Pending interface {
	Kind() PendingKind
	Owner() int
}

type CellarPending struct {
	Player int
	Max    int
}

type ChapelPending struct {
	Player int
	Max    int
}

// MilitiaPending is owned by the attacked player, not the current one.
type MilitiaPending struct {
	Player  int
	Discard int
}

type PoacherPending struct {
	Player  int
	Discard int
}

type WorkshopPending struct {
	Player  int
	MaxCost int
}

type RemodelPending struct {
	Player  int
	Step    Step
	MaxCost int
}

type MinePending struct {
	Player  int
	Step    Step
	MaxCost int
}

type ArtisanPending struct {
	Player  int
	Step    Step
	MaxCost int
}

type ThroneRoomPending struct {
	Player int
}

// VassalPending offers to play Card, which is on top of the discard pile.
type VassalPending struct {
	Player int
	Card   string
}

type HarbingerPending struct {
	Player int
}

// SentryPending covers the top Count cards of the owner's deck.
type SentryPending struct {
	Player int
	Count  int
}

func (p CellarPending) Kind() PendingKind     { return PendingCellar }
func (p ChapelPending) Kind() PendingKind     { return PendingChapel }
func (p MilitiaPending) Kind() PendingKind    { return PendingMilitia }
func (p PoacherPending) Kind() PendingKind    { return PendingPoacher }
func (p WorkshopPending) Kind() PendingKind   { return PendingWorkshop }
func (p RemodelPending) Kind() PendingKind    { return PendingRemodel }
func (p MinePending) Kind() PendingKind       { return PendingMine }
func (p ArtisanPending) Kind() PendingKind    { return PendingArtisan }
func (p ThroneRoomPending) Kind() PendingKind { return PendingThroneRoom }
func (p VassalPending) Kind() PendingKind     { return PendingVassal }
func (p HarbingerPending) Kind() PendingKind  { return PendingHarbinger }
func (p SentryPending) Kind() PendingKind     { return PendingSentry }

func (p CellarPending) Owner() int     { return p.Player }
func (p ChapelPending) Owner() int     { return p.Player }
func (p MilitiaPending) Owner() int    { return p.Player }
func (p PoacherPending) Owner() int    { return p.Player }
func (p WorkshopPending) Owner() int   { return p.Player }
func (p RemodelPending) Owner() int    { return p.Player }
func (p MinePending) Owner() int       { return p.Player }
func (p ArtisanPending) Owner() int    { return p.Player }
func (p ThroneRoomPending) Owner() int { return p.Player }
func (p VassalPending) Owner() int     { return p.Player }
func (p HarbingerPending) Owner() int  { return p.Player }
func (p SentryPending) Owner() int     { return p.Player }

// Event is emitted by a transition. Text is the rendered log line.
type Event struct {
	Type   string
	Player int
	Card   string
	Count  int
	Text   string
}

// Result is the outcome of a single transition.
type Result struct {
	Applied bool
	Err     error
	Events  []Event
}

// GameEnd is the derived end-of-game check. Scores is nil until the game ends.
type GameEnd struct {
	Ended  bool
	Scores *[2]int
}

// SeatDef configures one player seat.
type SeatDef struct {
	Name string
	AI   bool
}

// BuyRule is one rung of an automated buy ladder. The first rule whose
// conditions hold and whose card is affordable and in stock is bought.
type BuyRule struct {
	Card       string
	MinCoins   int
	MaxOwned   int  // 0 means unlimited
	LateGame   bool // only when the Province pile is low
	MinCards   int  // only when the buyer owns at least this many cards
	MaxCards   int  // 0 means unlimited
	CopperOver int  // only when the buyer owns more than this many Coppers
}

// GameDef describes how to set up a game.
type GameDef struct {
	Title    string
	Seed     int64
	Kingdom  []string // empty means random
	Seats    [2]SeatDef
	BuyRules []BuyRule
}
