package orgsocial

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotAPoll is returned when counting votes on a post without POLL_END
	ErrNotAPoll = errors.New("post does not contain a poll")
	// ErrMalformedPoll is returned when a poll post has no options
	ErrMalformedPoll = errors.New("invalid poll format")
)

// Poll status labels
const (
	PollActive  = "active"
	PollEnded   = "ended"
	PollUnknown = "unknown"
)

// OptionCount is the number of votes for one option
type OptionCount struct {
	Option string `json:"option"`
	Votes  int    `json:"votes"`
}

// PollResult is a vote tally, options in declaration order
type PollResult struct {
	Counts []OptionCount `json:"counts"`
	Total  int           `json:"total"`
	Status string        `json:"status"`
}

// CountPollVotes tallies the POLL_OPTION of replies to poll. Only the latest
// vote of each voter counts; votes for unknown options are ignored.
func CountPollVotes(poll Post, replies []Post, now time.Time) (PollResult, error) {
	if !poll.HasPoll() {
		return PollResult{}, ErrNotAPoll
	}
	options := PollOptions(poll)
	if len(options) == 0 {
		return PollResult{}, ErrMalformedPoll
	}

	index := make(map[string]int, len(options))
	for i, opt := range options {
		index[normalizeOption(opt)] = i
	}

	latest := make(map[string]Post)
	for _, r := range replies {
		if r.PollOption == "" || !RepliesTo(r, poll) {
			continue
		}
		voter := voterKey(r)
		if prev, ok := latest[voter]; ok && !r.Time.After(prev.Time) {
			continue
		}
		latest[voter] = r
	}

	result := PollResult{
		Counts: make([]OptionCount, len(options)),
		Status: pollStatus(poll, now),
	}
	for i, opt := range options {
		result.Counts[i].Option = opt
	}
	for _, vote := range latest {
		i, ok := index[normalizeOption(vote.PollOption)]
		if !ok {
			continue
		}
		result.Counts[i].Votes++
		result.Total++
	}

	return result, nil
}

func voterKey(p Post) string {
	if p.Source != "" {
		return p.Source
	}
	return "local:" + p.Author
}

func normalizeOption(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func pollStatus(p Post, now time.Time) string {
	end, err := ParseTime(p.PollEnd)
	if err != nil {
		return PollUnknown
	}
	if now.After(end) {
		return PollEnded
	}
	return PollActive
}
