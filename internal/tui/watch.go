package tui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// fileWatcher reports changes of a single file. The parent directory is
// watched so editors that replace the file by rename are noticed too.
type fileWatcher struct {
	w       *fsnotify.Watcher
	path    string
	changed chan struct{}
	done    chan struct{}
	once    sync.Once
	logger  *slog.Logger
}

func newFileWatcher(path string, logger *slog.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fw := &fileWatcher{
		w:       w,
		path:    abs,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go fw.run()
	return fw, nil
}

func (fw *fileWatcher) run() {
	var timer *time.Timer
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			// Saves often arrive as several events
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, fw.notify)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("File watcher error", "path", fw.path, "error", err)
		}
	}
}

func (fw *fileWatcher) notify() {
	select {
	case fw.changed <- struct{}{}:
	default:
	}
}

// Changed fires once per burst of changes
func (fw *fileWatcher) Changed() <-chan struct{} { return fw.changed }

func (fw *fileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	return err
}

// watchFileCmd waits for the next change of the watched file
func watchFileCmd(w *fileWatcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return socialFileChangedMsg{}
		case <-w.done:
			return nil
		}
	}
}

func blinkCmd(tag int) tea.Cmd {
	return tea.Tick(cursorBlinkInterval, func(time.Time) tea.Msg {
		return blinkMsg{tag: tag}
	})
}

// loadLocalFeed parses the user's social file. A missing file is an empty feed.
func loadLocalFeed(path string) (*orgsocial.Feed, error) {
	feed, err := orgsocial.ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &orgsocial.Feed{}, nil
	}
	return feed, err
}

// loadFeedCmd re-reads the social file and, when remote is set, fetches the
// followed feeds
func (m *Model) loadFeedCmd(remote bool) tea.Cmd {
	path := m.socialPath
	fetcher := m.fetcher
	timeout := m.cfg.FetchTimeout
	m.loading = true

	return func() tea.Msg {
		local, err := loadLocalFeed(path)
		if err != nil {
			return feedLoadedMsg{err: err}
		}

		msg := feedLoadedMsg{local: local, remote: remote}
		if remote && fetcher != nil && len(local.Profile.Follows) > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			msg.fetched = fetcher.FetchAll(ctx, local.Profile.Follows)
		}
		return msg
	}
}

// applyFeed rebuilds the timeline from a load result. Unreachable feeds
// are skipped and the rest is shown.
func (m *Model) applyFeed(msg feedLoadedMsg) {
	if msg.err != nil {
		m.logger.Error("Failed to load social file", "path", m.socialPath, "error", msg.err)
		m.statusMsg = fmt.Sprintf("Error loading feed: %v", msg.err)
		return
	}

	if msg.remote {
		m.fetched = msg.fetched
		failed := 0
		var firstErr error
		for _, r := range msg.fetched {
			if r.Err != nil {
				if firstErr == nil {
					firstErr = r.Err
				}
				failed++
				m.logger.Warn("Followed feed unavailable", "url", r.Follow.URL, "error", r.Err)
			}
		}
		switch {
		case failed == 1:
			m.statusMsg = fmt.Sprintf("Could not fetch 1 of %d followed feeds: %s", len(msg.fetched), orgsocial.DescribeFetchError(firstErr))
		case failed > 1:
			m.statusMsg = fmt.Sprintf("Could not fetch %d of %d followed feeds", failed, len(msg.fetched))
		}
	}

	opts := m.timeline
	opts.Now = m.now()
	posts := orgsocial.BuildTimeline(msg.local, m.fetched, opts)

	var remote []orgsocial.Post
	for _, r := range m.fetched {
		if r.Err == nil && r.Feed != nil {
			remote = append(remote, r.Feed.Posts...)
		}
	}
	notifications := orgsocial.Notifications(m.cfg.FeedURL, msg.local.Posts, remote)

	m.feed.SetPosts(msg.local.Profile, posts, notifications)
	m.logger.Debug("Feed loaded", "posts", len(posts), "notifications", len(notifications), "feeds", len(m.fetched))
}
