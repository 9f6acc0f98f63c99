package tui

import (
	"fmt"
	"strings"

	"github.com/studiowebux/orgsocial/internal/activatable"
	"github.com/studiowebux/orgsocial/internal/editor"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// PollVoteState is the option picker opened from a focused poll
type PollVoteState struct {
	postID   string
	context  string
	options  []string
	selected int
}

// NewPollVoteState creates a picker for the poll of post postID
func NewPollVoteState(postID, context string, options []string) *PollVoteState {
	return &PollVoteState{
		postID:  postID,
		context: context,
		options: options,
	}
}

func (s *PollVoteState) MoveUp() {
	if s != nil && s.selected > 0 {
		s.selected--
	}
}

func (s *PollVoteState) MoveDown() {
	if s != nil && s.selected+1 < len(s.options) {
		s.selected++
	}
}

// Selected returns the highlighted option
func (s *PollVoteState) Selected() (string, bool) {
	if s == nil || len(s.options) == 0 {
		return "", false
	}
	return s.options[s.selected], true
}

func (s *PollVoteState) PostID() string    { return s.postID }
func (s *PollVoteState) Context() string   { return s.context }
func (s *PollVoteState) Options() []string { return s.options }
func (s *PollVoteState) Index() int        { return s.selected }

// pollSummaryLen is the number of runes of post content quoted in poll summaries
const pollSummaryLen = 30

// pollSummary quotes the start of a post on one line for poll headers
func pollSummary(content string) string {
	runes := []rune(strings.Join(strings.Fields(content), " "))
	if len(runes) <= pollSummaryLen {
		return string(runes)
	}
	return string(runes[:pollSummaryLen]) + "..."
}

// startPollVote opens the option picker for the focused poll
func (m *Model) startPollVote() {
	p, ok := m.registry.Focused()
	if !ok {
		return
	}
	poll, ok := p.Element.(activatable.Poll)
	if !ok {
		return
	}
	post, ok := m.feed.Current()
	if !ok {
		m.statusMsg = "No post selected"
		return
	}

	var options []string
	for _, c := range poll.VoteCounts {
		options = append(options, c.Option)
	}
	if len(options) == 0 {
		options = orgsocial.PollOptions(post)
	}

	m.pollVote = NewPollVoteState(post.FullID(), "Poll in: "+poll.Summary, options)
	m.mode = ModePollVote
	m.statusMsg = "Select a poll option to vote for"
}

// submitPollVote turns the chosen option into a reply draft so the vote can
// carry a comment
func (m *Model) submitPollVote() {
	option, ok := m.pollVote.Selected()
	if !ok {
		m.pollVote = nil
		m.mode = ModeBrowsing
		m.statusMsg = "No option selected"
		return
	}

	d := editor.NewReplyDraft(m.pollVote.PostID())
	d.SetPollOption(option)

	m.replySlot = nil
	m.draft = d
	m.pollVote = nil
	m.mode = ModeReply
	m.statusMsg = fmt.Sprintf("Vote for '%s' set in poll option field. Add content or press Ctrl+S to submit.", option)
}

// countPollVotes tallies the votes among the replies of the selected thread
// node and shows them on the poll
func (m *Model) countPollVotes() {
	if m.feed.View() != ViewThreaded {
		m.statusMsg = "Vote counting only available in threaded view (press 't' to switch)"
		return
	}
	node, ok := m.feed.CurrentNode()
	if !ok {
		m.statusMsg = "No post selected"
		return
	}
	if !node.Post.HasPoll() {
		m.statusMsg = "Current post does not contain a poll"
		return
	}

	result, err := orgsocial.CountPollVotes(node.Post, node.Descendants(), m.now())
	if err != nil {
		m.logger.Debug("Poll vote count failed", "post", node.Post.FullID(), "error", err)
		m.statusMsg = "Failed to count poll votes - invalid poll format"
		return
	}

	m.registry.UpdatePollResults(result)
	m.statusMsg = formatPollResult(result)
}

func formatPollResult(result orgsocial.PollResult) string {
	parts := []string{fmt.Sprintf("Poll Results: %d total votes, Status: %s", result.Total, result.Status)}
	for _, c := range result.Counts {
		parts = append(parts, fmt.Sprintf("  • %s: %d votes", c.Option, c.Votes))
	}
	return strings.Join(parts, " | ")
}
