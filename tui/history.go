package tui

import "github.com/nathoo/deckcore/console"

// History holds submitted commands for Up/Down recall. Browsing keeps the
// line being typed as a draft, restored when the user steps past the newest
// entry.
type History struct {
	entries []string
	limit   int
	pos     int // len(entries) when not browsing
	draft   string
	move    string // newest game command, for "again"
}

// NewHistory returns an empty history keeping at most limit entries.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records cmd and ends browsing. A repeat of the newest entry is not
// stored twice. Meta commands are recalled but never become the move that
// "again" repeats.
func (h *History) Push(cmd string) {
	if !console.IsMeta(cmd) {
		h.move = cmd
	}
	if n := len(h.entries); n == 0 || h.entries[n-1] != cmd {
		h.entries = append(h.entries, cmd)
		if over := len(h.entries) - h.limit; over > 0 {
			h.entries = append(h.entries[:0], h.entries[over:]...)
		}
	}
	h.ResetCursor()
}

// Prev steps to the older entry. current is saved as the draft when
// browsing starts. It stops at the oldest entry.
func (h *History) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos == len(h.entries) {
		h.draft = current
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next steps to the newer entry. Past the newest it returns the draft and
// ends browsing; ok is false only when not browsing at all.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

// ResetCursor ends browsing and drops the draft.
func (h *History) ResetCursor() {
	h.pos = len(h.entries)
	h.draft = ""
}

// LastMove returns the newest game command, skipping meta commands.
func (h *History) LastMove() (string, bool) {
	return h.move, h.move != ""
}
