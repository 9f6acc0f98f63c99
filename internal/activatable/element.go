package activatable

import (
	"fmt"
	"strings"

	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// Element is one of Hyperlink, Mention, Block or Poll
type Element interface {
	// key identifies the element across rebuilds
	key(sourceLine int) string
	element()
}

type Hyperlink struct {
	URL         string
	DisplayText string
}

type Mention struct {
	URL      string
	Username string
}

// Block is a #+BEGIN_/#+END_ region that can be collapsed to one line
type Block struct {
	Kind      string
	Collapsed bool
}

// Poll is the option list of a poll post. VoteCounts is nil until votes
// have been counted.
type Poll struct {
	Summary    string
	VoteCounts []orgsocial.OptionCount
	TotalVotes int
	Status     string
}

func (Hyperlink) element() {}
func (Mention) element()   {}
func (Block) element()     {}
func (Poll) element()      {}

func (h Hyperlink) key(int) string { return "hyperlink:" + h.URL }
func (m Mention) key(int) string   { return "mention:" + m.URL }

func (b Block) key(sourceLine int) string {
	return fmt.Sprintf("block:%s:%d", b.Kind, sourceLine)
}

func (Poll) key(sourceLine int) string {
	return fmt.Sprintf("poll:%d", sourceLine)
}

// Position places an element in the rendered content. SourceLine indexes
// the raw post content, DisplayLine the rendered lines; they differ after a
// collapsed block. Columns are terminal cells.
type Position struct {
	Element     Element
	DisplayLine int
	StartCol    int
	EndCol      int
	SourceLine  int
}

// Key is the derived identity used to find the element again after a rebuild
func (p Position) Key() string {
	if p.Element == nil {
		return ""
	}
	return p.Element.key(p.SourceLine)
}

// CollapsedSummary is the line shown in place of a collapsed block
func CollapsedSummary(kind string) string {
	return fmt.Sprintf("[+] %s [...]", orgsocial.BlockLabel(kind))
}

// Describe is the status line for a focused element
func Describe(p Position) string {
	switch e := p.Element.(type) {
	case Hyperlink:
		return "Link: " + e.URL
	case Mention:
		return fmt.Sprintf("Mention: %s (%s)", e.Username, e.URL)
	case Block:
		state := "expanded"
		if e.Collapsed {
			state = "collapsed"
		}
		return fmt.Sprintf("Block: %s (%s)", e.Kind, state)
	case Poll:
		return describePoll(e)
	default:
		return ""
	}
}

func describePoll(p Poll) string {
	if p.VoteCounts == nil {
		return "Poll: Press 'v' to count votes"
	}
	var summary string
	if len(p.VoteCounts) <= 3 {
		parts := make([]string, 0, len(p.VoteCounts))
		for _, c := range p.VoteCounts {
			parts = append(parts, fmt.Sprintf("%s: %d", c.Option, c.Votes))
		}
		summary = strings.Join(parts, ", ")
	} else {
		summary = fmt.Sprintf("%d options", len(p.VoteCounts))
	}
	return fmt.Sprintf("Poll: %d votes (%s), Status: %s", p.TotalVotes, summary, p.Status)
}
