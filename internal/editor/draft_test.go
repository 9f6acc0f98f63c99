package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(d *Draft, s string) {
	for _, r := range s {
		d.HandleChar(r)
	}
}

func TestDraft_FieldRings(t *testing.T) {
	tests := []struct {
		name  string
		draft *Draft
		want  []Field
	}{
		{"new post", NewPostDraft(), []Field{FieldContent, FieldTags, FieldMood, FieldLang, FieldPollEnd, FieldPollOption}},
		{"reply", NewReplyDraft("abc123"), []Field{FieldContent, FieldTags, FieldMood, FieldPollOption}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.draft.Fields())

			var forward []Field
			for range tt.want {
				forward = append(forward, tt.draft.Current())
				tt.draft.NextField()
			}
			assert.Equal(t, tt.want, forward)
			assert.Equal(t, FieldContent, tt.draft.Current(), "ring wraps to content")

			tt.draft.PrevField()
			assert.Equal(t, tt.want[len(tt.want)-1], tt.draft.Current())
		})
	}
}

func TestDraft_FinalizeTagsInput(t *testing.T) {
	d := NewPostDraft()
	d.NextField()
	require.Equal(t, FieldTags, d.Current())

	typeText(d, "#a b #a  c")
	d.FinalizeTagsInput()

	assert.Equal(t, []string{"a", "b", "c"}, d.Tags())
	assert.Equal(t, "", d.TagsInput())
	assert.Equal(t, 0, d.Buffer(FieldTags).Cursor())

	typeText(d, "c # d")
	d.FinalizeTagsInput()
	assert.Equal(t, []string{"a", "b", "c", "d"}, d.Tags())
}

func TestDraft_RemoveLastTag(t *testing.T) {
	d := NewPostDraft()
	d.NextField()
	typeText(d, "x y")
	d.FinalizeTagsInput()
	typeText(d, "pending")

	d.RemoveLastTag()
	assert.Equal(t, []string{"x"}, d.Tags())
	assert.Equal(t, "pending", d.TagsInput())

	d.RemoveLastTag()
	d.RemoveLastTag()
	assert.Empty(t, d.Tags())
}

func TestDraft_OptionalPollFieldsAreLazy(t *testing.T) {
	d := NewPostDraft()
	for d.Current() != FieldPollEnd {
		d.NextField()
	}

	_, present := d.PollEnd()
	assert.False(t, present)

	d.HandleBackspace()
	_, present = d.PollEnd()
	assert.False(t, present, "editing keys other than input do not create the field")

	d.HandleChar('2')
	v, present := d.PollEnd()
	assert.True(t, present)
	assert.Equal(t, "2", v)

	d.HandleBackspace()
	_, present = d.PollEnd()
	assert.False(t, present, "emptied field is discarded")
}

func TestDraft_ReplyPollOptionIsInert(t *testing.T) {
	d := NewReplyDraft("abc123")
	d.SetPollOption("Emacs")
	for d.Current() != FieldPollOption {
		d.NextField()
	}

	typeText(d, "zz")
	d.HandleBackspace()
	d.HandleDelete()

	v, present := d.PollOption()
	assert.True(t, present)
	assert.Equal(t, "Emacs", v)
}

func TestDraft_NewlineOnlyInContent(t *testing.T) {
	d := NewPostDraft()
	typeText(d, "a")
	d.HandleNewline()
	typeText(d, "b")
	assert.Equal(t, "a\nb", d.Content())

	d.NextField()
	d.NextField()
	d.HandleNewline()
	assert.Equal(t, "", d.Mood())
}

func TestDraft_IsReadyToSubmit(t *testing.T) {
	d := NewPostDraft()
	assert.False(t, d.IsReadyToSubmit())
	d.NextField()
	d.NextField()
	typeText(d, "🙂")
	assert.True(t, d.IsReadyToSubmit(), "mood alone is enough for a new post")

	r := NewReplyDraft("abc123")
	r.SetPollOption("Vim")
	assert.False(t, r.IsReadyToSubmit(), "reply needs content")
	typeText(r, "   ")
	assert.False(t, r.IsReadyToSubmit())
	typeText(r, "ok")
	assert.True(t, r.IsReadyToSubmit())
}

func TestDraft_CreatePost(t *testing.T) {
	now := time.Date(2025, 4, 28, 12, 0, 0, 0, time.UTC)

	d := NewReplyDraft("https://a.example/social.org#1")
	typeText(d, "hi")
	d.NextField()
	typeText(d, "#go unfinished")
	d.SetPollOption("Emacs")

	p := d.CreatePost(now)
	assert.Equal(t, "hi", p.Content)
	assert.Equal(t, []string{"go", "unfinished"}, p.Tags)
	assert.Equal(t, "https://a.example/social.org#1", p.ReplyTo)
	assert.Equal(t, "Emacs", p.PollOption)
	assert.Equal(t, "2025-04-28T12:00:00+0000", p.ID)
}

func TestDraft_ResetAndClone(t *testing.T) {
	d := NewReplyDraft("abc123")
	typeText(d, "hello")
	d.NextField()

	c := d.Clone()
	d.Reset()

	assert.Equal(t, "", d.Content())
	assert.Equal(t, FieldContent, d.Current())
	assert.Equal(t, "abc123", d.ReplyTo())
	assert.Equal(t, KindReply, d.Kind())

	assert.Equal(t, "hello", c.Content())
	assert.Equal(t, FieldTags, c.Current())
}
