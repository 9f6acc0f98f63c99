package tui

import (
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// threadRow is one line of the threaded view
type threadRow struct {
	node   *orgsocial.ThreadNode
	depth  int
	thread int
}

// FeedState holds the loaded timeline and the selection of each view.
// Only Update touches it.
type FeedState struct {
	view ViewMode

	profile       orgsocial.Profile
	posts         []orgsocial.Post
	threads       []*orgsocial.ThreadNode
	rows          []threadRow
	notifications []orgsocial.Notification

	selectedPost         int
	selectedRow          int
	selectedNotification int
}

// NewFeedState creates an empty feed in list view
func NewFeedState() *FeedState {
	return &FeedState{view: ViewList}
}

// SetPosts replaces the timeline. Selections are kept by index and clamped.
func (s *FeedState) SetPosts(profile orgsocial.Profile, posts []orgsocial.Post, notifications []orgsocial.Notification) {
	s.profile = profile
	s.posts = posts
	s.threads = orgsocial.BuildThreads(posts)
	s.rows = s.rows[:0]
	for i, root := range s.threads {
		for _, entry := range flattenNodes(root, 0) {
			entry.thread = i
			s.rows = append(s.rows, entry)
		}
	}
	s.notifications = notifications

	s.selectedPost = clamp(s.selectedPost, len(s.posts))
	s.selectedRow = clamp(s.selectedRow, len(s.rows))
	s.selectedNotification = clamp(s.selectedNotification, len(s.notifications))
}

func flattenNodes(n *orgsocial.ThreadNode, depth int) []threadRow {
	out := []threadRow{{node: n, depth: depth}}
	for _, r := range n.Replies {
		out = append(out, flattenNodes(r, depth+1)...)
	}
	return out
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// View returns the active view mode
func (s *FeedState) View() ViewMode { return s.view }

// ToggleView switches to the next view mode
func (s *FeedState) ToggleView() ViewMode {
	s.view = s.view.Next()
	return s.view
}

// Len is the number of entries in the active view
func (s *FeedState) Len() int {
	switch s.view {
	case ViewThreaded:
		return len(s.rows)
	case ViewNotifications:
		return len(s.notifications)
	default:
		return len(s.posts)
	}
}

// Selected is the selected index of the active view
func (s *FeedState) Selected() int {
	switch s.view {
	case ViewThreaded:
		return s.selectedRow
	case ViewNotifications:
		return s.selectedNotification
	default:
		return s.selectedPost
	}
}

func (s *FeedState) setSelected(i int) {
	i = clamp(i, s.Len())
	switch s.view {
	case ViewThreaded:
		s.selectedRow = i
	case ViewNotifications:
		s.selectedNotification = i
	default:
		s.selectedPost = i
	}
}

// Next selects the following entry. Returns false at the end.
func (s *FeedState) Next() bool {
	if s.Selected()+1 >= s.Len() {
		return false
	}
	s.setSelected(s.Selected() + 1)
	return true
}

// Prev selects the preceding entry. Returns false at the start.
func (s *FeedState) Prev() bool {
	if s.Selected() == 0 {
		return false
	}
	s.setSelected(s.Selected() - 1)
	return true
}

func (s *FeedState) First() { s.setSelected(0) }
func (s *FeedState) Last()  { s.setSelected(s.Len() - 1) }

// Current returns the selected post of the active view
func (s *FeedState) Current() (orgsocial.Post, bool) {
	switch s.view {
	case ViewThreaded:
		if len(s.rows) == 0 {
			return orgsocial.Post{}, false
		}
		return s.rows[s.selectedRow].node.Post, true
	case ViewNotifications:
		if len(s.notifications) == 0 {
			return orgsocial.Post{}, false
		}
		return s.notifications[s.selectedNotification].Post, true
	default:
		if len(s.posts) == 0 {
			return orgsocial.Post{}, false
		}
		return s.posts[s.selectedPost], true
	}
}

// CurrentNode returns the selected thread node. Only the threaded view has one.
func (s *FeedState) CurrentNode() (*orgsocial.ThreadNode, bool) {
	if s.view != ViewThreaded || len(s.rows) == 0 {
		return nil, false
	}
	return s.rows[s.selectedRow].node, true
}

// CurrentThread is the index of the thread holding the selected row
func (s *FeedState) CurrentThread() int {
	if len(s.rows) == 0 {
		return 0
	}
	return s.rows[s.selectedRow].thread
}

func (s *FeedState) Posts() []orgsocial.Post                 { return s.posts }
func (s *FeedState) Notifications() []orgsocial.Notification { return s.notifications }
func (s *FeedState) ThreadCount() int                        { return len(s.threads) }
