package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/orgsocial/internal/activatable"
	"github.com/studiowebux/orgsocial/internal/editor"
	"github.com/studiowebux/orgsocial/internal/keybinds"
)

// handleKeyPress translates the key for the current mode and dispatches it
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Any key restarts the blink with a visible cursor
	m.cursorVisible = true
	m.blinkTag++
	blink := blinkCmd(m.blinkTag)

	action, ok := m.translateKey(msg)
	if !ok {
		return blink
	}

	cmd := m.dispatch(action, msg.Runes)
	return tea.Batch(cmd, blink)
}

// translateKey maps a key to an action of the current mode. In compose
// modes printable keys without a binding insert text.
func (m *Model) translateKey(msg tea.KeyMsg) (keybinds.Action, bool) {
	if action, ok := m.keybinds.Match(m.mode.context(), msg.String()); ok {
		return action, true
	}

	if m.mode.isCompose() && !msg.Alt {
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace:
			return keybinds.ActionTextInsertChar, true
		}
	}

	return "", false
}

// dispatch routes an action to the handler of the current mode
func (m *Model) dispatch(action keybinds.Action, runes []rune) tea.Cmd {
	if action == keybinds.ActionQuitForce {
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeBrowsing:
		return m.handleBrowsingAction(action)
	case ModeReply, ModeNewPost:
		return m.handleComposeAction(action, runes)
	case ModeHelp:
		m.handleHelpAction(action)
	case ModePollVote:
		m.handlePollVoteAction(action)
	}
	return nil
}

func (m *Model) handleBrowsingAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionQuit:
		m.Cleanup()
		return tea.Quit

	case keybinds.ActionNextPost:
		if m.feed.Next() {
			m.contentView.GotoTop()
		}
	case keybinds.ActionPrevPost:
		if m.feed.Prev() {
			m.contentView.GotoTop()
		}
	case keybinds.ActionGoToTop:
		m.feed.First()
		m.contentView.GotoTop()
	case keybinds.ActionGoToBottom:
		m.feed.Last()
		m.contentView.GotoTop()
	case keybinds.ActionScrollDown:
		m.contentView.ScrollDown(1)
	case keybinds.ActionScrollUp:
		m.contentView.ScrollUp(1)

	case keybinds.ActionToggleView:
		view := m.feed.ToggleView()
		m.contentView.GotoTop()
		m.statusMsg = "Switched to " + strings.ToLower(view.DisplayName())

	case keybinds.ActionNextElement:
		m.focusElement(m.registry.FocusNext())
	case keybinds.ActionPrevElement:
		m.focusElement(m.registry.FocusPrev())
	case keybinds.ActionActivateElement:
		m.activateFocused()
	case keybinds.ActionCountVotes:
		m.countPollVotes()

	case keybinds.ActionStartReply:
		m.startReply()
	case keybinds.ActionStartNewPost:
		m.startNewPost()
	case keybinds.ActionToggleHelp:
		m.mode = ModeHelp
		m.updateHelpView()
		m.helpView.GotoTop()

	case keybinds.ActionCancel:
		m.statusMsg = ""
	}
	return nil
}

func (m *Model) focusElement(moved bool) {
	if !moved {
		m.statusMsg = "No activatable elements found in current view"
		return
	}
	if p, ok := m.registry.Focused(); ok {
		m.statusMsg = activatable.Describe(p)
	}
}

func (m *Model) activateFocused() {
	outcome := m.registry.ActivateFocused()
	if outcome.StartPollVote {
		m.startPollVote()
		return
	}
	m.statusMsg = outcome.Status
}

// resolveEnter decides what Enter means for the focused field
func resolveEnter(kind editor.Kind, field editor.Field) keybinds.Action {
	switch field {
	case editor.FieldTags:
		return keybinds.ActionFinalizeTags
	case editor.FieldContent:
		return keybinds.ActionTextNewline
	case editor.FieldPollOption:
		if kind == editor.KindReply {
			return keybinds.ActionSubmit
		}
	}
	return keybinds.ActionNextField
}

func (m *Model) handleComposeAction(action keybinds.Action, runes []rune) tea.Cmd {
	d := m.draft
	if d == nil {
		m.mode = ModeBrowsing
		return nil
	}

	if action == keybinds.ActionTextEnter {
		action = resolveEnter(d.Kind(), d.Current())
	}

	switch action {
	case keybinds.ActionCancel:
		m.cancelCompose()
	case keybinds.ActionSubmit:
		return m.submitDraft()
	case keybinds.ActionResetFields:
		m.resetDraft()

	case keybinds.ActionTextInsertChar:
		for _, r := range runes {
			d.HandleChar(r)
		}
	case keybinds.ActionTextNewline:
		d.HandleNewline()
	case keybinds.ActionTextBackspace:
		d.HandleBackspace()
	case keybinds.ActionTextDelete:
		d.HandleDelete()
	case keybinds.ActionTextMoveLeft:
		d.MoveLeft()
	case keybinds.ActionTextMoveRight:
		d.MoveRight()
	case keybinds.ActionTextMoveUp:
		d.MoveUp()
	case keybinds.ActionTextMoveDown:
		d.MoveDown()
	case keybinds.ActionTextMoveHome:
		d.MoveToStart()
	case keybinds.ActionTextMoveEnd:
		d.MoveToEnd()

	case keybinds.ActionNextField:
		d.NextField()
	case keybinds.ActionPrevField:
		d.PrevField()
	case keybinds.ActionFinalizeTags:
		d.FinalizeTagsInput()
	case keybinds.ActionRemoveLastTag:
		d.RemoveLastTag()
	}
	return nil
}

func (m *Model) handleHelpAction(action keybinds.Action) {
	switch action {
	case keybinds.ActionToggleHelp, keybinds.ActionCancel:
		m.mode = ModeBrowsing
	case keybinds.ActionScrollDown:
		m.helpView.ScrollDown(1)
	case keybinds.ActionScrollUp:
		m.helpView.ScrollUp(1)
	case keybinds.ActionGoToTop:
		m.helpView.GotoTop()
	case keybinds.ActionGoToBottom:
		m.helpView.GotoBottom()
	}
}

func (m *Model) handlePollVoteAction(action keybinds.Action) {
	switch action {
	case keybinds.ActionPollOptionUp:
		m.pollVote.MoveUp()
	case keybinds.ActionPollOptionDown:
		m.pollVote.MoveDown()
	case keybinds.ActionPollSelect:
		m.submitPollVote()
	case keybinds.ActionCancel:
		m.pollVote = nil
		m.mode = ModeBrowsing
		m.statusMsg = ""
	}
}
