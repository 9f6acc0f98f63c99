package editor

import (
	"strings"
	"time"

	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// Kind selects the field set of a draft
type Kind int

const (
	KindNewPost Kind = iota
	KindReply
)

func (k Kind) String() string {
	if k == KindReply {
		return "reply"
	}
	return "new post"
}

// Field names one input of a draft
type Field int

const (
	FieldContent Field = iota
	FieldTags
	FieldMood
	FieldLang
	FieldPollEnd
	FieldPollOption
)

func (f Field) String() string {
	switch f {
	case FieldContent:
		return "Content"
	case FieldTags:
		return "Tags"
	case FieldMood:
		return "Mood"
	case FieldLang:
		return "Language"
	case FieldPollEnd:
		return "Poll end"
	case FieldPollOption:
		return "Poll option"
	default:
		return "Unknown"
	}
}

var (
	newPostRing = []Field{FieldContent, FieldTags, FieldMood, FieldLang, FieldPollEnd, FieldPollOption}
	replyRing   = []Field{FieldContent, FieldTags, FieldMood, FieldPollOption}
)

// Draft is an in-progress post or reply. Content is multi-line, every other
// field is single-line. Poll end and poll option are optional: a nil
// buffer means the field is absent.
type Draft struct {
	kind    Kind
	replyTo string

	content   *FieldBuffer
	tagsInput *FieldBuffer
	mood      *FieldBuffer
	lang      *FieldBuffer
	pollEnd   *FieldBuffer
	poll      *FieldBuffer

	tags    []string
	current Field
}

// NewPostDraft starts an empty top-level post
func NewPostDraft() *Draft {
	return newDraft(KindNewPost, "")
}

// NewReplyDraft starts an empty reply to the post with the given full id
func NewReplyDraft(replyTo string) *Draft {
	return newDraft(KindReply, replyTo)
}

func newDraft(kind Kind, replyTo string) *Draft {
	return &Draft{
		kind:      kind,
		replyTo:   replyTo,
		content:   &FieldBuffer{},
		tagsInput: &FieldBuffer{},
		mood:      &FieldBuffer{},
		lang:      &FieldBuffer{},
		current:   FieldContent,
	}
}

func (d *Draft) Kind() Kind        { return d.kind }
func (d *Draft) ReplyTo() string   { return d.replyTo }
func (d *Draft) Current() Field    { return d.current }
func (d *Draft) Content() string   { return d.content.Text() }
func (d *Draft) TagsInput() string { return d.tagsInput.Text() }
func (d *Draft) Mood() string      { return d.mood.Text() }
func (d *Draft) Lang() string      { return d.lang.Text() }

// Tags returns the committed tags
func (d *Draft) Tags() []string {
	return append([]string(nil), d.tags...)
}

// PollEnd returns the poll end value and whether the field is present
func (d *Draft) PollEnd() (string, bool) {
	if d.pollEnd == nil {
		return "", false
	}
	return d.pollEnd.Text(), true
}

// PollOption returns the poll option value and whether the field is present
func (d *Draft) PollOption() (string, bool) {
	if d.poll == nil {
		return "", false
	}
	return d.poll.Text(), true
}

// SetPollOption seeds the vote of a reply
func (d *Draft) SetPollOption(option string) {
	d.poll = NewFieldBuffer(option)
}

// Fields lists the field ring of the draft kind in cycling order
func (d *Draft) Fields() []Field {
	return append([]Field(nil), d.ring()...)
}

func (d *Draft) ring() []Field {
	if d.kind == KindReply {
		return replyRing
	}
	return newPostRing
}

// Buffer exposes the buffer behind a field for rendering. Absent optional
// fields return nil.
func (d *Draft) Buffer(f Field) *FieldBuffer {
	switch f {
	case FieldContent:
		return d.content
	case FieldTags:
		return d.tagsInput
	case FieldMood:
		return d.mood
	case FieldLang:
		return d.lang
	case FieldPollEnd:
		return d.pollEnd
	case FieldPollOption:
		return d.poll
	}
	return nil
}

// editable returns the buffer that receives edits for the current field.
// Optional fields are created on demand when create is set. The reply poll
// option is never editable.
func (d *Draft) editable(create bool) *FieldBuffer {
	switch d.current {
	case FieldPollEnd:
		if d.pollEnd == nil && create {
			d.pollEnd = &FieldBuffer{}
		}
		return d.pollEnd
	case FieldPollOption:
		if d.kind == KindReply {
			return nil
		}
		if d.poll == nil && create {
			d.poll = &FieldBuffer{}
		}
		return d.poll
	default:
		return d.Buffer(d.current)
	}
}

// dropEmptyOptional discards an optional buffer left empty by an edit
func (d *Draft) dropEmptyOptional() {
	switch d.current {
	case FieldPollEnd:
		if d.pollEnd != nil && d.pollEnd.IsEmpty() {
			d.pollEnd = nil
		}
	case FieldPollOption:
		if d.kind == KindNewPost && d.poll != nil && d.poll.IsEmpty() {
			d.poll = nil
		}
	}
}

func (d *Draft) HandleChar(r rune) {
	if r == '\n' {
		d.HandleNewline()
		return
	}
	if buf := d.editable(true); buf != nil {
		buf.Insert(r)
		d.dropEmptyOptional()
	}
}

// HandleNewline only affects the content field
func (d *Draft) HandleNewline() {
	if d.current == FieldContent {
		d.content.InsertNewline()
	}
}

func (d *Draft) HandleBackspace() {
	if buf := d.editable(false); buf != nil {
		buf.Backspace()
		d.dropEmptyOptional()
	}
}

func (d *Draft) HandleDelete() {
	if buf := d.editable(false); buf != nil {
		buf.DeleteForward()
		d.dropEmptyOptional()
	}
}

func (d *Draft) MoveLeft() {
	if buf := d.editable(false); buf != nil {
		buf.MoveLeft()
	}
}

func (d *Draft) MoveRight() {
	if buf := d.editable(false); buf != nil {
		buf.MoveRight()
	}
}

func (d *Draft) MoveToStart() {
	if buf := d.editable(false); buf != nil {
		buf.MoveToStart()
	}
}

func (d *Draft) MoveToEnd() {
	if buf := d.editable(false); buf != nil {
		buf.MoveToEnd()
	}
}

// MoveUp and MoveDown only act on the content field
func (d *Draft) MoveUp() {
	if d.current == FieldContent {
		d.content.MoveUp()
	}
}

func (d *Draft) MoveDown() {
	if d.current == FieldContent {
		d.content.MoveDown()
	}
}

func (d *Draft) NextField() { d.stepField(1) }
func (d *Draft) PrevField() { d.stepField(-1) }

func (d *Draft) stepField(delta int) {
	ring := d.ring()
	idx := 0
	for i, f := range ring {
		if f == d.current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(ring)) % len(ring)
	d.current = ring[idx]
}

// FinalizeTagsInput commits the words typed in the tags field. A leading
// '#' is stripped and tags already committed are skipped.
func (d *Draft) FinalizeTagsInput() {
	for _, word := range strings.Fields(d.tagsInput.Text()) {
		tag := strings.TrimPrefix(word, "#")
		if tag == "" || d.hasTag(tag) {
			continue
		}
		d.tags = append(d.tags, tag)
	}
	d.tagsInput.Clear()
}

func (d *Draft) hasTag(tag string) bool {
	for _, t := range d.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RemoveLastTag pops the most recently committed tag
func (d *Draft) RemoveLastTag() {
	if len(d.tags) > 0 {
		d.tags = d.tags[:len(d.tags)-1]
	}
}

// IsReadyToSubmit reports whether submitting makes sense: a reply needs
// content, a new post needs any value at all.
func (d *Draft) IsReadyToSubmit() bool {
	if d.kind == KindReply {
		return strings.TrimSpace(d.content.Text()) != ""
	}

	pollEnd, _ := d.PollEnd()
	pollOption, _ := d.PollOption()
	values := []string{
		d.content.Text(),
		d.tagsInput.Text(),
		d.mood.Text(),
		d.lang.Text(),
		pollEnd,
		pollOption,
	}
	if len(d.tags) > 0 {
		return true
	}
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// CreatePost commits pending tags and builds the post to save
func (d *Draft) CreatePost(now time.Time) orgsocial.Post {
	d.FinalizeTagsInput()

	pollEnd, _ := d.PollEnd()
	pollOption, _ := d.PollOption()
	draft := orgsocial.PostDraft{
		Content:    d.content.Text(),
		Tags:       d.Tags(),
		Mood:       d.mood.Text(),
		PollOption: pollOption,
		ReplyTo:    d.replyTo,
	}
	if d.kind == KindNewPost {
		draft.Lang = d.lang.Text()
		draft.PollEnd = pollEnd
	}
	return orgsocial.BuildPost(draft, now)
}

// Reset returns the draft to its freshly created state, keeping kind and target
func (d *Draft) Reset() {
	*d = *newDraft(d.kind, d.replyTo)
}

// Clone returns an independent copy of the draft
func (d *Draft) Clone() *Draft {
	return &Draft{
		kind:      d.kind,
		replyTo:   d.replyTo,
		content:   d.content.Clone(),
		tagsInput: d.tagsInput.Clone(),
		mood:      d.mood.Clone(),
		lang:      d.lang.Clone(),
		pollEnd:   d.pollEnd.Clone(),
		poll:      d.poll.Clone(),
		tags:      d.Tags(),
		current:   d.current,
	}
}
