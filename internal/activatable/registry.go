package activatable

import (
	"fmt"
	"log/slog"

	"github.com/mattn/go-runewidth"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// Registry tracks the interactive elements of the displayed post and which
// one has focus. Ids are indexes into positions and are handed out again
// from 0 on every rebuild. Collapse state is keyed by source line and
// survives rebuilds until ResetForPost.
type Registry struct {
	positions []Position
	focused   int
	hasFocus  bool

	collapsed    map[int]bool
	pollSnapshot *orgsocial.PollResult

	opener    Opener
	clipboard Clipboard
	logger    *slog.Logger
}

type Option func(*Registry)

func WithOpener(o Opener) Option {
	return func(r *Registry) {
		r.opener = o
	}
}

// WithClipboard sets the fallback for URLs that fail to open. nil disables it.
func WithClipboard(c Clipboard) Option {
	return func(r *Registry) {
		r.clipboard = c
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		collapsed: make(map[int]bool),
		opener:    SystemOpener{},
		clipboard: SystemClipboard{},
		logger:    slog.Default().With("subsystem", "activatable"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) add(p Position) int {
	r.positions = append(r.positions, p)
	return len(r.positions) - 1
}

func (r *Registry) AddHyperlink(url, displayText string, line, startCol, endCol int) int {
	return r.add(Position{
		Element:     Hyperlink{URL: url, DisplayText: displayText},
		DisplayLine: line,
		StartCol:    startCol,
		EndCol:      endCol,
		SourceLine:  line,
	})
}

func (r *Registry) AddMention(url, username string, line, startCol, endCol int) int {
	return r.add(Position{
		Element:     Mention{URL: url, Username: username},
		DisplayLine: line,
		StartCol:    startCol,
		EndCol:      endCol,
		SourceLine:  line,
	})
}

// AddBlock registers a block. A collapsed block spans its summary line;
// an expanded one spans its begin marker.
func (r *Registry) AddBlock(sourceLine, displayLine, startCol int, kind string, collapsed bool) int {
	width := runewidth.StringWidth("#+BEGIN_"+kind) + 2
	if collapsed {
		width = runewidth.StringWidth(CollapsedSummary(kind))
	}
	return r.add(Position{
		Element:     Block{Kind: kind, Collapsed: collapsed},
		DisplayLine: displayLine,
		StartCol:    startCol,
		EndCol:      startCol + width,
		SourceLine:  sourceLine,
	})
}

func (r *Registry) AddPoll(poll Poll, sourceLine, displayLine, startCol, endCol int) int {
	return r.add(Position{
		Element:     poll,
		DisplayLine: displayLine,
		StartCol:    startCol,
		EndCol:      endCol,
		SourceLine:  sourceLine,
	})
}

func (r *Registry) Len() int { return len(r.positions) }

// Positions returns the elements in id order
func (r *Registry) Positions() []Position {
	return append([]Position(nil), r.positions...)
}

// Focused returns the focused element
func (r *Registry) Focused() (Position, bool) {
	if !r.hasFocus {
		return Position{}, false
	}
	return r.positions[r.focused], true
}

// FocusedID returns the id of the focused element, -1 when unset
func (r *Registry) FocusedID() int {
	if !r.hasFocus {
		return -1
	}
	return r.focused
}

// FocusedKey returns the derived key of the focused element
func (r *Registry) FocusedKey() string {
	p, ok := r.Focused()
	if !ok {
		return ""
	}
	return p.Key()
}

func (r *Registry) ClearFocus() {
	r.hasFocus = false
	r.focused = 0
}

// FocusNext moves to the next id, wrapping to the first. Without focus the
// first element is selected.
func (r *Registry) FocusNext() bool {
	if len(r.positions) == 0 {
		return false
	}
	if !r.hasFocus || r.focused+1 >= len(r.positions) {
		r.setFocus(0)
		return true
	}
	r.setFocus(r.focused + 1)
	return true
}

// FocusPrev moves to the previous id, wrapping to the last. Without focus
// the last element is selected.
func (r *Registry) FocusPrev() bool {
	if len(r.positions) == 0 {
		return false
	}
	if !r.hasFocus || r.focused == 0 {
		r.setFocus(len(r.positions) - 1)
		return true
	}
	r.setFocus(r.focused - 1)
	return true
}

func (r *Registry) setFocus(id int) {
	r.focused = id
	r.hasFocus = true
}

// RestoreFocus focuses the lowest id whose key matches. Focus is left
// untouched when nothing matches.
func (r *Registry) RestoreFocus(key string) bool {
	if key == "" {
		return false
	}
	for id, p := range r.positions {
		if p.Key() == key {
			r.setFocus(id)
			return true
		}
	}
	return false
}

// Rebuild replaces the elements with those gathered by the collector and
// carries focus over by key. The focused id is kept while its key still
// matches, so repeated URLs stay distinct. Focus is unset when the focused
// element is gone.
func (r *Registry) Rebuild(c *Collector) {
	key := r.FocusedKey()
	prev := r.FocusedID()

	r.positions = r.positions[:0]
	r.ClearFocus()
	for _, p := range c.items {
		if poll, ok := p.Element.(Poll); ok && r.pollSnapshot != nil {
			p.Element = applySnapshot(poll, *r.pollSnapshot)
		}
		r.add(p)
	}

	if prev >= 0 && prev < len(r.positions) && r.positions[prev].Key() == key {
		r.setFocus(prev)
		return
	}
	r.RestoreFocus(key)
}

// ResetForPost forgets collapse state, poll results and elements of the
// previously displayed post
func (r *Registry) ResetForPost() {
	r.positions = r.positions[:0]
	r.ClearFocus()
	r.collapsed = make(map[int]bool)
	r.pollSnapshot = nil
}

func (r *Registry) ToggleBlock(sourceLine int) {
	r.collapsed[sourceLine] = !r.collapsed[sourceLine]
}

func (r *Registry) IsCollapsed(sourceLine int) bool {
	return r.collapsed[sourceLine]
}

// SetCollapsed forces the collapse state of a block
func (r *Registry) SetCollapsed(sourceLine int, collapsed bool) {
	r.collapsed[sourceLine] = collapsed
}

func (r *Registry) IsURLFocused(url string) bool {
	p, ok := r.Focused()
	if !ok {
		return false
	}
	h, ok := p.Element.(Hyperlink)
	return ok && h.URL == url
}

func (r *Registry) IsMentionFocused(url string) bool {
	p, ok := r.Focused()
	if !ok {
		return false
	}
	m, ok := p.Element.(Mention)
	return ok && m.URL == url
}

func (r *Registry) IsBlockFocused(sourceLine int) bool {
	p, ok := r.Focused()
	if !ok {
		return false
	}
	_, isBlock := p.Element.(Block)
	return isBlock && p.SourceLine == sourceLine
}

func (r *Registry) IsPollFocused(sourceLine int) bool {
	p, ok := r.Focused()
	if !ok {
		return false
	}
	_, isPoll := p.Element.(Poll)
	return isPoll && p.SourceLine == sourceLine
}

// UpdatePollResults stores a vote tally and applies it to the tracked polls.
// Every poll of the post receives the same tally; polls are not matched by
// identity.
func (r *Registry) UpdatePollResults(result orgsocial.PollResult) {
	snapshot := result
	r.pollSnapshot = &snapshot
	for i, p := range r.positions {
		if poll, ok := p.Element.(Poll); ok {
			r.positions[i].Element = applySnapshot(poll, snapshot)
		}
	}
}

// PollSnapshot returns the last tally given to UpdatePollResults
func (r *Registry) PollSnapshot() (orgsocial.PollResult, bool) {
	if r.pollSnapshot == nil {
		return orgsocial.PollResult{}, false
	}
	return *r.pollSnapshot, true
}

func applySnapshot(p Poll, result orgsocial.PollResult) Poll {
	p.VoteCounts = append([]orgsocial.OptionCount{}, result.Counts...)
	p.TotalVotes = result.Total
	p.Status = result.Status
	return p
}

// Outcome reports what activating the focused element did
type Outcome struct {
	OK     bool
	Status string
	// Rerender is set when collapse state changed
	Rerender bool
	// StartPollVote asks the caller to open the vote selection
	StartPollVote bool
}

// ActivateFocused opens links and mentions, toggles blocks and requests
// vote selection for polls.
func (r *Registry) ActivateFocused() Outcome {
	p, ok := r.Focused()
	if !ok {
		return Outcome{Status: "No element currently focused"}
	}

	switch e := p.Element.(type) {
	case Hyperlink:
		return Outcome{OK: true, Status: r.openURL(e.URL)}
	case Mention:
		return Outcome{OK: true, Status: r.openURL(e.URL)}
	case Block:
		r.ToggleBlock(p.SourceLine)
		return Outcome{
			OK:       true,
			Status:   fmt.Sprintf("Toggled block at line %d", p.SourceLine+1),
			Rerender: true,
		}
	case Poll:
		return Outcome{OK: true, StartPollVote: true}
	default:
		return Outcome{Status: "No element currently focused"}
	}
}

func (r *Registry) openURL(url string) string {
	err := r.opener.Open(url)
	if err == nil {
		return "Opened link: " + url
	}
	r.logger.Warn("Failed to open link", "url", url, "error", err)

	if r.clipboard != nil {
		if cerr := r.clipboard.WriteAll(url); cerr == nil {
			return fmt.Sprintf("Failed to open link: %s (copied to clipboard)", url)
		}
	}
	return "Failed to open link: " + url
}

// DebugInfo summarizes the registry state for the debug log
func (r *Registry) DebugInfo() string {
	return fmt.Sprintf("Elements: %d, Focused: %d, Collapsed blocks: %d",
		len(r.positions), r.FocusedID(), len(r.collapsed))
}
