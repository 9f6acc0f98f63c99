package activatable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func newTestRegistry() (*Registry, *fakeOpener, *fakeClipboard) {
	o := &fakeOpener{}
	c := &fakeClipboard{}
	return NewRegistry(WithOpener(o), WithClipboard(c)), o, c
}

func populated(n int) *Registry {
	r, _, _ := newTestRegistry()
	for i := 0; i < n; i++ {
		r.AddHyperlink("https://example.com/"+string(rune('a'+i)), "x", i, 0, 1)
	}
	return r
}

func TestFocusNext_Cycles(t *testing.T) {
	for n := 1; n <= 5; n++ {
		r := populated(n)
		require.True(t, r.FocusNext())
		start := r.FocusedID()

		for i := 0; i < n; i++ {
			r.FocusNext()
		}
		assert.Equal(t, start, r.FocusedID(), "n=%d", n)
	}
}

func TestFocusPrev_UndoesFocusNext(t *testing.T) {
	for n := 2; n <= 5; n++ {
		r := populated(n)
		for start := 0; start < n; start++ {
			r.setFocus(start)
			r.FocusNext()
			r.FocusPrev()
			assert.Equal(t, start, r.FocusedID(), "n=%d start=%d", n, start)
		}
	}
}

func TestFocus_Unfocused(t *testing.T) {
	r := populated(3)
	require.True(t, r.FocusPrev())
	assert.Equal(t, 2, r.FocusedID(), "prev without focus selects the last")

	r.ClearFocus()
	require.True(t, r.FocusNext())
	assert.Equal(t, 0, r.FocusedID(), "next without focus selects the first")
}

func TestFocus_EmptyRegistry(t *testing.T) {
	r, _, _ := newTestRegistry()
	assert.False(t, r.FocusNext())
	assert.False(t, r.FocusPrev())
	_, ok := r.Focused()
	assert.False(t, ok)
}

func TestLinkAndCollapsedBlockScenario(t *testing.T) {
	r, _, _ := newTestRegistry()
	link := r.AddHyperlink("https://x", "x", 0, 0, 1)
	block := r.AddBlock(2, 2, 0, "src", true)

	r.FocusNext()
	assert.Equal(t, link, r.FocusedID())
	r.FocusNext()
	assert.Equal(t, block, r.FocusedID())
	r.FocusNext()
	assert.Equal(t, link, r.FocusedID())

	p, _ := r.Focused()
	assert.Equal(t, "hyperlink:https://x", p.Key())
	assert.True(t, r.IsURLFocused("https://x"))
	assert.False(t, r.IsBlockFocused(2))
}

func TestRebuild_RestoresFocusByKey(t *testing.T) {
	r, _, _ := newTestRegistry()
	var c Collector
	c.CollectHyperlink("https://a", "a", 0, 0, 0, 1)
	c.CollectBlock("src", false, 2, 2, 0, 12)
	c.CollectMention("https://m", "m", 6, 6, 0, 2)
	r.Rebuild(&c)

	r.FocusNext()
	r.FocusNext()
	require.Equal(t, "block:src:2", r.FocusedKey())

	// The block is now preceded by another link and gets a new id
	c.Reset()
	c.CollectHyperlink("https://new", "new", 0, 0, 0, 3)
	c.CollectHyperlink("https://a", "a", 0, 0, 4, 5)
	c.CollectBlock("src", true, 2, 2, 0, 14)
	r.Rebuild(&c)

	assert.Equal(t, 2, r.FocusedID())
	assert.True(t, r.IsBlockFocused(2))

	// Key gone: focus unset
	c.Reset()
	c.CollectHyperlink("https://a", "a", 0, 0, 0, 1)
	r.Rebuild(&c)

	_, ok := r.Focused()
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRestoreFocus_PicksLowestID(t *testing.T) {
	r, _, _ := newTestRegistry()
	r.AddHyperlink("https://dup", "one", 0, 0, 3)
	r.AddHyperlink("https://dup", "two", 1, 0, 3)

	assert.True(t, r.RestoreFocus("hyperlink:https://dup"))
	assert.Equal(t, 0, r.FocusedID())
	assert.False(t, r.RestoreFocus("hyperlink:https://missing"))
}

func TestRebuild_KeepsDuplicateURLFocus(t *testing.T) {
	r, _, _ := newTestRegistry()
	var c Collector
	collect := func() {
		c.Reset()
		c.CollectHyperlink("https://dup", "one", 0, 0, 0, 3)
		c.CollectHyperlink("https://dup", "two", 0, 0, 8, 11)
		c.CollectHyperlink("https://b", "b", 0, 0, 17, 18)
		r.Rebuild(&c)
	}
	collect()

	for _, want := range []int{0, 1, 2, 0} {
		r.FocusNext()
		collect()
		assert.Equal(t, want, r.FocusedID())
	}

	// The second copy moved away: fall back to the lowest matching id
	r.FocusNext()
	require.Equal(t, 1, r.FocusedID())
	c.Reset()
	c.CollectHyperlink("https://dup", "one", 0, 0, 0, 3)
	c.CollectHyperlink("https://b", "b", 0, 0, 8, 9)
	r.Rebuild(&c)
	assert.Equal(t, 0, r.FocusedID())
}

func TestAddBlock_CellColumns(t *testing.T) {
	r, _, _ := newTestRegistry()
	r.AddBlock(0, 0, 2, "src", false)
	r.AddBlock(3, 3, 0, "引用", false)
	r.AddBlock(6, 4, 0, "src", true)

	pos := r.Positions()
	assert.Equal(t, 2+len("#+BEGIN_src")+2, pos[0].EndCol)
	assert.Equal(t, len("#+BEGIN_")+4+2, pos[1].EndCol, "wide runes take two cells")
	assert.Equal(t, len(CollapsedSummary("src")), pos[2].EndCol)
}

func TestToggleBlock_Involution(t *testing.T) {
	r, _, _ := newTestRegistry()
	for _, initial := range []bool{false, true} {
		r.SetCollapsed(4, initial)
		r.ToggleBlock(4)
		r.ToggleBlock(4)
		assert.Equal(t, initial, r.IsCollapsed(4))
	}

	assert.False(t, r.IsCollapsed(99), "absent means expanded")
	r.ToggleBlock(99)
	assert.True(t, r.IsCollapsed(99))
}

func TestCollapseStateSurvivesRebuild(t *testing.T) {
	r, _, _ := newTestRegistry()
	r.ToggleBlock(3)

	var c Collector
	r.Rebuild(&c)
	assert.True(t, r.IsCollapsed(3))

	r.ResetForPost()
	assert.False(t, r.IsCollapsed(3))
}

func TestActivateFocused(t *testing.T) {
	t.Run("nothing focused", func(t *testing.T) {
		r, o, _ := newTestRegistry()
		r.AddHyperlink("https://x", "x", 0, 0, 1)

		out := r.ActivateFocused()
		assert.False(t, out.OK)
		assert.Equal(t, "No element currently focused", out.Status)
		assert.Empty(t, o.opened)
	})

	t.Run("link opens", func(t *testing.T) {
		r, o, _ := newTestRegistry()
		r.AddMention("https://a/social.org", "alice", 0, 0, 6)
		r.FocusNext()

		out := r.ActivateFocused()
		assert.True(t, out.OK)
		assert.Equal(t, "Opened link: https://a/social.org", out.Status)
		assert.Equal(t, []string{"https://a/social.org"}, o.opened)
	})

	t.Run("open failure copies to clipboard", func(t *testing.T) {
		r, o, c := newTestRegistry()
		o.err = ErrUnsupportedPlatform
		r.AddHyperlink("https://x", "x", 0, 0, 1)
		r.FocusNext()

		out := r.ActivateFocused()
		assert.Equal(t, "Failed to open link: https://x (copied to clipboard)", out.Status)
		assert.Equal(t, "https://x", c.text)
		assert.Equal(t, 0, r.FocusedID(), "registry unchanged")
	})

	t.Run("open and clipboard failure", func(t *testing.T) {
		r, o, c := newTestRegistry()
		o.err = errors.New("spawn failed")
		c.err = errors.New("no clipboard")
		r.AddHyperlink("https://x", "x", 0, 0, 1)
		r.FocusNext()

		assert.Equal(t, "Failed to open link: https://x", r.ActivateFocused().Status)
	})

	t.Run("block toggles", func(t *testing.T) {
		r, _, _ := newTestRegistry()
		r.AddBlock(4, 4, 0, "quote", false)
		r.FocusNext()

		out := r.ActivateFocused()
		assert.True(t, out.Rerender)
		assert.Equal(t, "Toggled block at line 5", out.Status)
		assert.True(t, r.IsCollapsed(4))
	})

	t.Run("poll starts vote", func(t *testing.T) {
		r, _, _ := newTestRegistry()
		r.AddPoll(Poll{Summary: "Which editor?"}, 2, 2, 0, 10)
		r.FocusNext()

		out := r.ActivateFocused()
		assert.True(t, out.StartPollVote)
	})
}

func TestUpdatePollResults_AppliesToEveryPoll(t *testing.T) {
	r, _, _ := newTestRegistry()
	r.AddPoll(Poll{Summary: "first"}, 1, 1, 0, 5)
	r.AddHyperlink("https://x", "x", 3, 0, 1)
	r.AddPoll(Poll{Summary: "second"}, 5, 5, 0, 5)

	result := orgsocial.PollResult{
		Counts: []orgsocial.OptionCount{{Option: "a", Votes: 2}, {Option: "b", Votes: 1}},
		Total:  3,
		Status: orgsocial.PollActive,
	}
	r.UpdatePollResults(result)

	for _, id := range []int{0, 2} {
		poll := r.Positions()[id].Element.(Poll)
		assert.Equal(t, result.Counts, poll.VoteCounts)
		assert.Equal(t, 3, poll.TotalVotes)
	}

	// Later passes see the same tally
	var c Collector
	c.CollectPoll(Poll{Summary: "first"}, 1, 1, 0, 5)
	r.Rebuild(&c)
	assert.Equal(t, 3, r.Positions()[0].Element.(Poll).TotalVotes)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want string
	}{
		{"link", Hyperlink{URL: "https://x"}, "Link: https://x"},
		{"mention", Mention{URL: "https://a", Username: "alice"}, "Mention: alice (https://a)"},
		{"collapsed block", Block{Kind: "src", Collapsed: true}, "Block: src (collapsed)"},
		{"expanded block", Block{Kind: "quote"}, "Block: quote (expanded)"},
		{"uncounted poll", Poll{}, "Poll: Press 'v' to count votes"},
		{
			"counted poll",
			Poll{VoteCounts: []orgsocial.OptionCount{{Option: "a", Votes: 1}, {Option: "b", Votes: 0}}, TotalVotes: 1, Status: "active"},
			"Poll: 1 votes (a: 1, b: 0), Status: active",
		},
		{
			"many options",
			Poll{VoteCounts: make([]orgsocial.OptionCount, 4), TotalVotes: 0, Status: "ended"},
			"Poll: 0 votes (4 options), Status: ended",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(Position{Element: tt.el}))
		})
	}
}

func TestSystemOpener_UnsupportedPlatform(t *testing.T) {
	err := SystemOpener{GOOS: "plan9"}.Open("https://x")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestSystemOpener_Commands(t *testing.T) {
	tests := map[string][]string{
		"linux":   {"xdg-open", "https://x"},
		"darwin":  {"open", "https://x"},
		"windows": {"rundll32", "url.dll,FileProtocolHandler", "https://x"},
	}
	for goos, want := range tests {
		cmd, err := SystemOpener{GOOS: goos}.command("https://x")
		require.NoError(t, err)
		assert.Equal(t, want, cmd.Args, goos)
	}
}
