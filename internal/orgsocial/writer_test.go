package orgsocial

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPost(t *testing.T) {
	now := time.Date(2025, 4, 28, 12, 0, 0, 0, time.FixedZone("", 3600))
	p := BuildPost(PostDraft{
		Content: "hello\n",
		Tags:    []string{"a", "b"},
		Mood:    " 😀 ",
		ReplyTo: "https://a/social.org#1",
	}, now)

	assert.Equal(t, "2025-04-28T12:00:00+0100", p.ID)
	assert.Equal(t, "hello", p.Content)
	assert.Equal(t, "😀", p.Mood)
	assert.Equal(t, ClientName, p.Client)
	assert.Equal(t, []string{"a", "b"}, p.Tags)
}

func TestAppendPost_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "social.org")
	require.NoError(t, os.WriteFile(path, []byte("#+TITLE: Mine\n#+NICK: me"), 0o644))

	now := time.Date(2025, 4, 28, 12, 0, 0, 0, time.UTC)
	first := BuildPost(PostDraft{Content: "one", Lang: "en"}, now)
	second := BuildPost(PostDraft{Content: "two", PollEnd: "2025-05-01T00:00:00+0000"}, now.Add(time.Minute))
	require.NoError(t, AppendPost(path, first))
	require.NoError(t, AppendPost(path, second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "* Posts"))

	feed, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "me", feed.Profile.Nick)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, first.ID, feed.Posts[0].ID)
	assert.Equal(t, "en", feed.Posts[0].Lang)
	assert.Equal(t, "one", feed.Posts[0].Content)
	assert.Equal(t, "two", feed.Posts[1].Content)
	assert.True(t, feed.Posts[1].HasPoll())
}

func TestAppendPost_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "social.org")
	require.NoError(t, AppendPost(path, BuildPost(PostDraft{Content: "first"}, time.Now())))

	feed, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
}

func TestFetcher_FetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.org" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewFetcher(WithHTTPClient(srv.Client()), WithTimeout(5*time.Second))
	results := f.FetchAll(context.Background(), []Follow{
		{URL: srv.URL + "/social.org"},
		{URL: srv.URL + "/missing.org"},
	})

	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	assert.Len(t, results[0].Feed.Posts, 2)
	assert.Equal(t, srv.URL+"/social.org", results[0].Feed.Posts[0].Source)
	assert.Error(t, results[1].Err)
}
