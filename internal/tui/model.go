package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/studiowebux/orgsocial/internal/activatable"
	"github.com/studiowebux/orgsocial/internal/config"
	"github.com/studiowebux/orgsocial/internal/editor"
	"github.com/studiowebux/orgsocial/internal/history"
	"github.com/studiowebux/orgsocial/internal/keybinds"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeReply
	ModeNewPost
	ModeHelp
	ModePollVote
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModeReply:
		return "reply"
	case ModeNewPost:
		return "new post"
	case ModeHelp:
		return "help"
	case ModePollVote:
		return "poll vote"
	default:
		return "unknown"
	}
}

// context is the keybinding context consulted for the mode
func (m Mode) context() keybinds.Context {
	switch m {
	case ModeReply, ModeNewPost:
		return keybinds.ContextCompose
	case ModeHelp:
		return keybinds.ContextHelp
	case ModePollVote:
		return keybinds.ContextPollVote
	default:
		return keybinds.ContextBrowsing
	}
}

// isCompose reports whether the mode edits a draft
func (m Mode) isCompose() bool {
	return m == ModeReply || m == ModeNewPost
}

// ViewMode selects how the feed is listed
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewThreaded
	ViewNotifications
)

// Next cycles list -> threaded -> notifications
func (v ViewMode) Next() ViewMode {
	switch v {
	case ViewList:
		return ViewThreaded
	case ViewThreaded:
		return ViewNotifications
	default:
		return ViewList
	}
}

func (v ViewMode) DisplayName() string {
	switch v {
	case ViewThreaded:
		return "Threaded View"
	case ViewNotifications:
		return "Notifications"
	default:
		return "List View"
	}
}

// Saver persists a submitted post
type Saver interface {
	Save(p orgsocial.Post) error
}

// fileSaver appends posts to the user's social.org
type fileSaver struct {
	path string
}

func (s fileSaver) Save(p orgsocial.Post) error {
	return orgsocial.AppendPost(s.path, p)
}

// Model represents the TUI state
type Model struct {
	// Dependencies
	cfg        *config.Config
	socialPath string
	keybinds   *keybinds.Registry
	saver      Saver
	historyMgr *history.Manager
	fetcher    *orgsocial.Fetcher
	watcher    *fileWatcher
	timeline   orgsocial.TimelineOptions
	logger     *slog.Logger
	now        func() time.Time

	// UI state
	mode      Mode
	width     int
	height    int
	statusMsg string

	// Feed
	feed    *FeedState
	fetched []orgsocial.FetchResult
	loading bool

	// Compose. draft is the active editor; the slots keep cancelled drafts.
	draft       *editor.Draft
	replySlot   *editor.Draft
	newPostSlot *editor.Draft

	pollVote *PollVoteState

	// Interactive elements of the displayed post. The collector is filled
	// while laying out the content and read back by registry.Rebuild.
	registry     *activatable.Registry
	collector    activatable.Collector
	contentKey   string
	contentLines []string
	tokenCache   *lru.Cache[string, [][]orgsocial.Token]

	contentView viewport.Model
	helpView    viewport.Model

	cursorVisible bool
	blinkTag      int
}

// Init starts the feed load, the cursor blink and the file watch
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadFeedCmd(m.fetcher != nil && !m.timeline.UserOnly),
		blinkCmd(m.blinkTag),
	}
	if m.watcher != nil {
		cmds = append(cmds, watchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Cleanup closes the history database and the file watcher. Safe to call twice.
func (m *Model) Cleanup() {
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.logger.Warn("Failed to close file watcher", "error", err)
		}
		m.watcher = nil
	}
	if m.historyMgr != nil {
		if err := m.historyMgr.Close(); err != nil {
			m.logger.Warn("Failed to close history database", "error", err)
		}
		m.historyMgr = nil
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewports()

	case blinkMsg:
		if msg.tag != m.blinkTag {
			return m, nil
		}
		m.cursorVisible = !m.cursorVisible
		return m, blinkCmd(m.blinkTag)

	case feedLoadedMsg:
		m.loading = false
		m.applyFeed(msg)

	case socialFileChangedMsg:
		m.logger.Debug("Social file changed on disk", "path", m.socialPath)
		cmd = tea.Batch(m.loadFeedCmd(false), watchFileCmd(m.watcher))
	}

	m.refreshContent()
	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeReply, ModeNewPost:
		return m.renderCompose()
	case ModePollVote:
		return m.renderPollVote()
	default:
		return m.renderMain()
	}
}

// Mode returns the current UI mode
func (m *Model) Mode() Mode { return m.mode }

// StatusMessage returns the status line text
func (m *Model) StatusMessage() string { return m.statusMsg }

// Custom message types
type blinkMsg struct {
	tag int
}

type feedLoadedMsg struct {
	local *orgsocial.Feed
	// fetched is only meaningful when remote is set; otherwise the previous
	// fetch results are reused.
	fetched []orgsocial.FetchResult
	remote  bool
	err     error
}

type socialFileChangedMsg struct{}
