package orgsocial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseElements_Blocks(t *testing.T) {
	post := Post{Content: "intro\n#+BEGIN_SRC go\nfmt.Println(1)\n#+END_SRC\nmiddle\n#+begin_quote\nsaid\n#+end_quote\n#+BEGIN_VERSE\nnever closed"}

	elements := ParseElements(post)
	require.Len(t, elements, 2)

	src := elements[0]
	assert.Equal(t, ElementBlock, src.Kind)
	assert.Equal(t, "src", src.BlockKind)
	assert.Equal(t, "go", src.Lang)
	assert.Equal(t, 1, src.StartLine)
	assert.Equal(t, 3, src.EndLine)
	assert.Equal(t, "[+] Code [...]", src.Summary())

	quote := elements[1]
	assert.Equal(t, "quote", quote.BlockKind)
	assert.Equal(t, 5, quote.StartLine)
	assert.Equal(t, 7, quote.EndLine)
}

func TestBlockLabel(t *testing.T) {
	tests := map[string]string{
		"src":     "Code",
		"QUOTE":   "Quote",
		"example": "Example",
		"verse":   "Verse",
		"export":  "Block",
	}
	for kind, want := range tests {
		assert.Equal(t, want, BlockLabel(kind), kind)
	}
}

func TestElementBody(t *testing.T) {
	lines := []string{"#+BEGIN_SRC", "a", "b", "#+END_SRC"}
	e := Element{Kind: ElementBlock, StartLine: 0, EndLine: 3}
	assert.Equal(t, []string{"a", "b"}, e.Body(lines))
}

func pollPost() Post {
	return Post{
		ID:      "2025-04-28T12:00:00+0100",
		Source:  "https://bob.example/social.org",
		PollEnd: "2025-05-01T12:00:00+0100",
		Content: "Which editor?\n\n- [ ] Emacs\n- [ ] Vim\n- [ ] Other",
	}
}

func TestParseElements_Poll(t *testing.T) {
	elements := ParseElements(pollPost())
	require.Len(t, elements, 1)

	poll := elements[0]
	assert.Equal(t, ElementPoll, poll.Kind)
	assert.Equal(t, 2, poll.StartLine)
	assert.Equal(t, 4, poll.EndLine)
	assert.Equal(t, []string{"Emacs", "Vim", "Other"}, poll.Options)
}

func TestParseElements_ChecklistWithoutPollEnd(t *testing.T) {
	p := pollPost()
	p.PollEnd = ""
	assert.Empty(t, ParseElements(p))
}

func TestCountPollVotes(t *testing.T) {
	poll := pollPost()
	target := poll.FullID()
	t0 := time.Date(2025, 4, 29, 0, 0, 0, 0, time.UTC)

	replies := []Post{
		{Source: "https://a.example/social.org", ReplyTo: target, PollOption: "Vim", Time: t0},
		// a later vote from the same voter replaces the first
		{Source: "https://a.example/social.org", ReplyTo: target, PollOption: "emacs", Time: t0.Add(time.Hour)},
		{Source: "https://c.example/social.org", ReplyTo: target, PollOption: "Emacs", Time: t0},
		{Source: "https://d.example/social.org", ReplyTo: target, PollOption: "Nano", Time: t0},
		{Source: "https://e.example/social.org", ReplyTo: "elsewhere#1", PollOption: "Vim", Time: t0},
	}

	result, err := CountPollVotes(poll, replies, t0)
	require.NoError(t, err)

	assert.Equal(t, []OptionCount{{"Emacs", 2}, {"Vim", 0}, {"Other", 0}}, result.Counts)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, PollActive, result.Status)

	ended, err := CountPollVotes(poll, nil, t0.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, PollEnded, ended.Status)
}

func TestCountPollVotes_Errors(t *testing.T) {
	_, err := CountPollVotes(Post{Content: "- [ ] a"}, nil, time.Now())
	assert.ErrorIs(t, err, ErrNotAPoll)

	_, err = CountPollVotes(Post{PollEnd: "2025-01-01T00:00:00+0000", Content: "no options"}, nil, time.Now())
	assert.ErrorIs(t, err, ErrMalformedPoll)
}
