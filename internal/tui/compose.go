package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/orgsocial/internal/editor"
	"github.com/studiowebux/orgsocial/internal/history"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// startReply opens the reply editor for the selected post. A draft parked
// for the same post is resumed; one for another post is discarded.
func (m *Model) startReply() {
	post, ok := m.feed.Current()
	if !ok {
		m.statusMsg = "No post selected"
		return
	}

	target := post.FullID()
	if m.replySlot != nil && m.replySlot.ReplyTo() == target {
		m.draft = m.replySlot
	} else {
		m.draft = editor.NewReplyDraft(target)
	}
	m.replySlot = nil

	m.mode = ModeReply
	m.statusMsg = "Replying to post " + target
}

// startNewPost resumes the parked new post or starts an empty one
func (m *Model) startNewPost() {
	if m.newPostSlot != nil {
		m.draft = m.newPostSlot
	} else {
		m.draft = editor.NewPostDraft()
	}
	m.newPostSlot = nil

	m.mode = ModeNewPost
	m.statusMsg = "Creating new post"
}

// cancelCompose parks the active draft in its slot and returns to browsing
func (m *Model) cancelCompose() {
	m.parkDraft()
	m.mode = ModeBrowsing
	m.statusMsg = ""
}

func (m *Model) parkDraft() {
	if m.draft == nil {
		return
	}
	if m.draft.Kind() == editor.KindReply {
		m.replySlot = m.draft
	} else {
		m.newPostSlot = m.draft
	}
	m.draft = nil
}

func (m *Model) clearSlot(kind editor.Kind) {
	if kind == editor.KindReply {
		m.replySlot = nil
	} else {
		m.newPostSlot = nil
	}
}

// resetDraft empties every field of the active draft and forgets its slot
func (m *Model) resetDraft() {
	m.draft.Reset()
	m.clearSlot(m.draft.Kind())
	if m.draft.Kind() == editor.KindReply {
		m.statusMsg = "Reply fields reset"
	} else {
		m.statusMsg = "New post fields reset"
	}
}

// submitDraft saves the active draft. On failure the draft stays open so
// nothing typed is lost.
func (m *Model) submitDraft() tea.Cmd {
	d := m.draft
	if !d.IsReadyToSubmit() {
		m.statusMsg = "Nothing to submit"
		return nil
	}

	noun := "new post"
	if d.Kind() == editor.KindReply {
		noun = "reply"
	}

	post := d.CreatePost(m.now())
	if err := m.saver.Save(post); err != nil {
		m.logger.Error("Failed to save post", "kind", noun, "error", err)
		m.statusMsg = fmt.Sprintf("Error saving %s: %v", noun, err)
		return nil
	}
	m.logger.Info("Post saved", "kind", noun, "id", post.ID)

	m.recordHistory(post)
	m.clearSlot(d.Kind())
	m.draft = nil
	m.mode = ModeBrowsing
	if d.Kind() == editor.KindReply {
		m.statusMsg = "Reply saved successfully!"
	} else {
		m.statusMsg = "New post saved successfully!"
	}

	return m.loadFeedCmd(false)
}

// recordHistory keeps a copy of a submitted post. Errors are logged only;
// the post is already in the social file.
func (m *Model) recordHistory(post orgsocial.Post) {
	if m.historyMgr == nil {
		return
	}
	entry := history.FromPost(post, m.socialPath)
	if err := m.historyMgr.Save(&entry); err != nil {
		m.logger.Warn("Failed to record post history", "error", err)
	}
}
