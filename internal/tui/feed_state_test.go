package tui

import (
	"testing"
	"time"

	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

func threadedPosts() []orgsocial.Post {
	root := post("root", "root", 3*time.Hour)
	reply := post("reply", "reply", 2*time.Hour)
	reply.ReplyTo = "root"
	other := post("other", "other", time.Hour)
	return []orgsocial.Post{other, reply, root}
}

func TestFeedState_ThreadedRows(t *testing.T) {
	s := NewFeedState()
	s.SetPosts(orgsocial.Profile{}, threadedPosts(), nil)
	s.ToggleView()

	AssertModelField(t, "view", s.View(), ViewThreaded)
	AssertModelField(t, "threads", s.ThreadCount(), 2)
	AssertModelField(t, "rows", s.Len(), 3)

	want := []struct {
		id     string
		depth  int
		thread int
	}{
		{"other", 0, 0},
		{"root", 0, 1},
		{"reply", 1, 1},
	}
	for i, w := range want {
		row := s.rows[i]
		AssertModelField(t, "row id", row.node.Post.ID, w.id)
		AssertModelField(t, "row depth", row.depth, w.depth)
		AssertModelField(t, "row thread", row.thread, w.thread)
	}

	s.Next()
	node, ok := s.CurrentNode()
	AssertModelField(t, "has node", ok, true)
	AssertModelField(t, "node", node.Post.ID, "root")
	AssertModelField(t, "descendants", len(node.Descendants()), 1)
	AssertModelField(t, "current thread", s.CurrentThread(), 1)
}

func TestFeedState_NavigationClamps(t *testing.T) {
	s := NewFeedState()
	s.SetPosts(orgsocial.Profile{}, threadedPosts(), nil)

	AssertModelField(t, "prev at start", s.Prev(), false)
	s.Last()
	AssertModelField(t, "selected", s.Selected(), 2)
	AssertModelField(t, "next at end", s.Next(), false)

	// Fewer posts after a reload clamps the selection
	s.SetPosts(orgsocial.Profile{}, threadedPosts()[:1], nil)
	AssertModelField(t, "selected after reload", s.Selected(), 0)

	if _, ok := s.CurrentNode(); ok {
		t.Error("list view has no thread node")
	}
}

func TestFeedState_EmptyViews(t *testing.T) {
	s := NewFeedState()

	for _, view := range []ViewMode{ViewList, ViewThreaded, ViewNotifications} {
		s.view = view
		if _, ok := s.Current(); ok {
			t.Errorf("%s: empty feed should have no current post", view.DisplayName())
		}
		AssertModelField(t, "next on empty", s.Next(), false)
	}
}

func TestFeedState_Notifications(t *testing.T) {
	s := NewFeedState()
	mention := orgsocial.Post{ID: "m", Source: "https://alice.example/social.org"}
	s.SetPosts(orgsocial.Profile{}, nil, []orgsocial.Notification{
		{Kind: orgsocial.NotificationMention, Post: mention},
	})

	AssertModelField(t, "toggle", s.ToggleView(), ViewThreaded)
	AssertModelField(t, "toggle", s.ToggleView(), ViewNotifications)

	p, ok := s.Current()
	AssertModelField(t, "has current", ok, true)
	AssertModelField(t, "current", p.FullID(), mention.FullID())

	AssertModelField(t, "wraps to list", s.ToggleView(), ViewList)
}
