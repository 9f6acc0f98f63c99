package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/studiowebux/orgsocial/internal/history"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

const localFeed = `#+TITLE: Bob's journal
#+NICK: bob
#+DESCRIPTION: Notes about Emacs
#+LINK: https://bob.example
#+FOLLOW: alice %s/alice.org
#+FOLLOW: %s/missing.org

* Posts
** 2025-04-28T12:00:00+0000
:PROPERTIES:
:TAGS: emacs
:END:

Writing org-mode notes.

** 2025-04-30T09:30:00+0000
:PROPERTIES:
:POLL_END: 2025-05-10T00:00:00+0000
:END:

Lunch?
- [ ] Pizza
- [ ] Salad
`

const aliceFeed = `#+TITLE: Alice
#+NICK: alice

* Posts
** 2025-04-29T08:00:00+0000
:PROPERTIES:
:REPLY_TO: %s/bob.org#2025-04-28T12:00:00+0000
:END:

Nice notes, I use emacs too.
`

type testEnv struct {
	Env
	buf *bytes.Buffer
}

// newTestEnv writes the local feed and serves alice's feed
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alice.org" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(strings.ReplaceAll(aliceFeed, "%s", srv.URL)))
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "social.org")
	content := strings.ReplaceAll(localFeed, "%s", srv.URL)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}

	buf := &bytes.Buffer{}
	return &testEnv{
		Env: Env{
			SocialPath: path,
			FeedURL:    srv.URL + "/bob.org",
			Fetcher:    orgsocial.NewFetcher(orgsocial.WithHTTPClient(srv.Client()), orgsocial.WithTimeout(5*time.Second)),
			Out:        buf,
			Now:        func() time.Time { return testNow },
		},
		buf: buf,
	}
}

func decodeIDs(t *testing.T, out string) []string {
	t.Helper()
	var posts []orgsocial.Post
	if err := json.Unmarshal([]byte(out), &posts); err != nil {
		t.Fatalf("output is not a post listing: %v\n%s", err, out)
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestFeed_JSONNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	err := Feed(context.Background(), env.Env, FeedOptions{Output: OutputJSON})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}

	ids := decodeIDs(t, env.buf.String())
	want := []string{"2025-04-30T09:30:00+0000", "2025-04-29T08:00:00+0000", "2025-04-28T12:00:00+0000"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestFeed_UserOnlyAndCount(t *testing.T) {
	env := newTestEnv(t)

	err := Feed(context.Background(), env.Env, FeedOptions{UserOnly: true, Count: 1, Output: OutputJSON})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}

	ids := decodeIDs(t, env.buf.String())
	if len(ids) != 1 || ids[0] != "2025-04-30T09:30:00+0000" {
		t.Errorf("ids = %v, want newest local post only", ids)
	}
}

func TestFeed_Tags(t *testing.T) {
	env := newTestEnv(t)

	err := Feed(context.Background(), env.Env, FeedOptions{UserOnly: true, Tags: []string{"#Emacs"}, Output: OutputJSON})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}

	ids := decodeIDs(t, env.buf.String())
	if len(ids) != 1 || ids[0] != "2025-04-28T12:00:00+0000" {
		t.Errorf("ids = %v, want the emacs post only", ids)
	}
}

func TestFeed_FilterAndQuery(t *testing.T) {
	env := newTestEnv(t)

	err := Feed(context.Background(), env.Env, FeedOptions{
		Filter: "[?reply_to]",
		Query:  "[].author",
	})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if !strings.Contains(env.buf.String(), `"alice"`) {
		t.Errorf("output = %q, want alice's reply author", env.buf.String())
	}
}

func TestFeed_Search(t *testing.T) {
	env := newTestEnv(t)

	err := Feed(context.Background(), env.Env, FeedOptions{Search: "lunch", Output: OutputJSON})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}

	ids := decodeIDs(t, env.buf.String())
	if len(ids) != 1 || ids[0] != "2025-04-30T09:30:00+0000" {
		t.Errorf("ids = %v, want the lunch poll", ids)
	}
}

func TestFeed_Text(t *testing.T) {
	env := newTestEnv(t)

	if err := Feed(context.Background(), env.Env, FeedOptions{UserOnly: true}); err != nil {
		t.Fatalf("Feed: %v", err)
	}

	out := env.buf.String()
	for _, want := range []string{"bob", "#emacs", "Poll ends: 2025-05-10", "Writing org-mode notes."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFeed_InvalidOutput(t *testing.T) {
	env := newTestEnv(t)

	if err := Feed(context.Background(), env.Env, FeedOptions{UserOnly: true, Output: "xml"}); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestFeed_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	env.SocialPath = filepath.Join(t.TempDir(), "none.org")

	if err := Feed(context.Background(), env.Env, FeedOptions{}); err == nil {
		t.Error("expected error for missing social file")
	}
}

func TestSearchPosts(t *testing.T) {
	posts := []orgsocial.Post{
		{ID: "1", Content: "org-mode tables"},
		{ID: "2", Content: "coffee"},
		{ID: "3", Author: "orgfan", Content: "hello"},
	}

	got := SearchPosts(posts, "org")
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	for _, p := range got {
		if p.ID == "2" {
			t.Error("coffee should not match")
		}
	}
}

func TestProfileAndFollowing(t *testing.T) {
	env := newTestEnv(t)

	if err := Profile(env.Env); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	out := env.buf.String()
	for _, want := range []string{"Bob's journal", "Nick:", "bob", "https://bob.example", "Following:"} {
		if !strings.Contains(out, want) {
			t.Errorf("profile missing %q:\n%s", want, out)
		}
	}

	env.buf.Reset()
	if err := Following(env.Env); err != nil {
		t.Fatalf("Following: %v", err)
	}
	out = env.buf.String()
	if !strings.Contains(out, "Following (2)") || !strings.Contains(out, "alice") {
		t.Errorf("following output:\n%s", out)
	}
}

func TestCollectStats(t *testing.T) {
	env := newTestEnv(t)

	local, err := env.loadLocal()
	if err != nil {
		t.Fatalf("loadLocal: %v", err)
	}
	fetched := env.fetch(context.Background(), local.Profile.Follows)
	stats := CollectStats(env.FeedURL, local, fetched)

	if stats.Posts != 2 || stats.Polls != 1 || stats.Replies != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Tags["emacs"] != 1 {
		t.Errorf("tags = %v", stats.Tags)
	}
	if len(stats.Feeds) != 2 || stats.Feeds[0].Posts != 1 || stats.Feeds[1].Err == nil {
		t.Errorf("feeds = %+v", stats.Feeds)
	}
	if stats.Mentions != 1 {
		t.Errorf("notifications = %d, want alice's reply", stats.Mentions)
	}

	out := formatStats(stats, true)
	for _, want := range []string{"Posts:         2", "(1 unreachable)", "#emacs 1", "error:"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)

	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer mgr.Close()

	if err := History(env.Env, mgr, 10); err != nil {
		t.Fatalf("History: %v", err)
	}
	if !strings.Contains(env.buf.String(), "No submitted posts") {
		t.Errorf("empty history output: %q", env.buf.String())
	}

	entry := history.Entry{Timestamp: testNow, Kind: history.KindPost, PostID: "2025-05-01T12:00:00+0000", Content: "hello world"}
	if err := mgr.Save(&entry); err != nil {
		t.Fatalf("Save: %v", err)
	}

	env.buf.Reset()
	if err := History(env.Env, mgr, 10); err != nil {
		t.Fatalf("History: %v", err)
	}
	if !strings.Contains(env.buf.String(), "hello world") {
		t.Errorf("history output: %q", env.buf.String())
	}
}

func TestSetColorMode(t *testing.T) {
	for _, mode := range []string{"", "auto", "never"} {
		if err := SetColorMode(mode); err != nil {
			t.Errorf("SetColorMode(%q): %v", mode, err)
		}
	}
	if err := SetColorMode("rainbow"); err == nil {
		t.Error("expected error for unknown color mode")
	}
}
