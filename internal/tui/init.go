package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/studiowebux/orgsocial/internal/activatable"
	"github.com/studiowebux/orgsocial/internal/config"
	"github.com/studiowebux/orgsocial/internal/history"
	"github.com/studiowebux/orgsocial/internal/keybinds"
	"github.com/studiowebux/orgsocial/internal/logging"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// Options wires the TUI to its collaborators. Zero values get defaults.
type Options struct {
	Config     *config.Config
	SocialPath string
	Keybinds   *keybinds.Registry
	History    *history.Manager
	Fetcher    *orgsocial.Fetcher
	Timeline   orgsocial.TimelineOptions

	// Saver defaults to appending to SocialPath
	Saver Saver
	// Registry defaults to one opening links with the system browser
	Registry *activatable.Registry
	// Watch reloads the feed when SocialPath changes on disk
	Watch bool
	Now   func() time.Time
}

// New creates a new TUI model
func New(opts Options) (Model, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.SocialPath == "" {
		path, err := opts.Config.SocialPath()
		if err != nil {
			return Model{}, err
		}
		opts.SocialPath = path
	}
	if opts.Keybinds == nil {
		opts.Keybinds = keybinds.NewDefaultRegistry()
	}
	if opts.Saver == nil {
		opts.Saver = fileSaver{path: opts.SocialPath}
	}
	if opts.Registry == nil {
		opts.Registry = activatable.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cache, err := lru.New[string, [][]orgsocial.Token](tokenCacheSize)
	if err != nil {
		return Model{}, fmt.Errorf("failed to create token cache: %w", err)
	}

	logger := logging.For("tui")

	m := Model{
		cfg:         opts.Config,
		socialPath:  opts.SocialPath,
		keybinds:    opts.Keybinds,
		saver:       opts.Saver,
		historyMgr:  opts.History,
		fetcher:     opts.Fetcher,
		timeline:    opts.Timeline,
		logger:      logger,
		now:         opts.Now,
		mode:        ModeBrowsing,
		feed:        NewFeedState(),
		registry:    opts.Registry,
		tokenCache:  cache,
		contentView: viewport.New(80, 20),
		helpView:    viewport.New(80, 20),

		cursorVisible: true,
	}

	if opts.Watch {
		w, err := newFileWatcher(opts.SocialPath, logger)
		if err != nil {
			// Editing still works, the feed just won't follow outside edits
			logger.Warn("File watch disabled", "path", opts.SocialPath, "error", err)
		} else {
			m.watcher = w
		}
	}

	return m, nil
}

// Run starts the TUI
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Cleanup()

	slog.Debug("Starting TUI", "social_file", m.socialPath)

	// Start TUI (pass pointer since Update uses pointer receiver)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
