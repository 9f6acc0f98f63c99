package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/orgsocial/internal/filter"
	"github.com/studiowebux/orgsocial/internal/history"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// Output formats of the feed command
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Env is what every command needs to read the user's feed
type Env struct {
	SocialPath string
	// FeedURL is the public URL of SocialPath, used for notifications
	FeedURL string
	// Fetcher downloads followed feeds. nil keeps commands local.
	Fetcher *orgsocial.Fetcher
	Out     io.Writer
	Now     func() time.Time
}

func (e Env) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// loadLocal parses the user's social.org
func (e Env) loadLocal() (*orgsocial.Feed, error) {
	feed, err := orgsocial.ParseFile(e.SocialPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", e.SocialPath, err)
	}
	return feed, nil
}

// fetch downloads the followed feeds, or nothing without a fetcher
func (e Env) fetch(ctx context.Context, follows []orgsocial.Follow) []orgsocial.FetchResult {
	if e.Fetcher == nil || len(follows) == 0 {
		return nil
	}
	return e.Fetcher.FetchAll(ctx, follows)
}

// SetColorMode selects the lipgloss color profile: auto, always or never
func SetColorMode(mode string) error {
	switch strings.ToLower(mode) {
	case "", "auto":
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return fmt.Errorf("invalid color mode %q (auto/always/never)", mode)
	}
	return nil
}

// FeedOptions selects and formats the posts printed by Feed
type FeedOptions struct {
	Count    int
	UserOnly bool
	Source   string
	Days     int
	Search   string
	Tags     []string
	Output   string
	Filter   string // JMESPath filter expression
	Query    string // JMESPath query or $(shell command)
}

// Feed prints the merged timeline, newest first
func Feed(ctx context.Context, env Env, opts FeedOptions) error {
	local, err := env.loadLocal()
	if err != nil {
		return err
	}

	var fetched []orgsocial.FetchResult
	if !opts.UserOnly {
		fetched = env.fetch(ctx, local.Profile.Follows)
		reportFetchFailures(fetched)
	}

	posts := orgsocial.BuildTimeline(local, fetched, orgsocial.TimelineOptions{
		UserOnly: opts.UserOnly,
		Source:   opts.Source,
		Days:     opts.Days,
		Now:      env.now(),
	})

	posts = filter.FilterByTags(posts, opts.Tags)
	if opts.Search != "" {
		posts = SearchPosts(posts, opts.Search)
	}
	if opts.Count > 0 && len(posts) > opts.Count {
		posts = posts[:opts.Count]
	}

	// Filters work on the JSON listing
	if opts.Filter != "" || opts.Query != "" || opts.Output == OutputJSON {
		listing, err := filter.ApplyToPosts(ctx, posts, opts.Filter, opts.Query)
		if err != nil {
			return fmt.Errorf("filter/query error: %w", err)
		}
		fmt.Fprintln(env.out(), listing)
		return nil
	}

	switch opts.Output {
	case "", OutputText:
	default:
		return fmt.Errorf("invalid output format %q (text/json)", opts.Output)
	}

	w := env.out()
	if len(posts) == 0 {
		fmt.Fprintln(w, styleSubtle.Render("No posts"))
		return nil
	}
	for i, p := range posts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, formatPost(p))
	}
	return nil
}

func reportFetchFailures(results []orgsocial.FetchResult) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not fetch %s: %s\n", r.Follow.URL, orgsocial.DescribeFetchError(r.Err))
		}
	}
}

// postSource adapts posts to fuzzy.Source over author and content
type postSource []orgsocial.Post

func (s postSource) String(i int) string {
	return s[i].Author + " " + strings.Join(s[i].Tags, " ") + " " + s[i].Content
}

func (s postSource) Len() int { return len(s) }

// SearchPosts keeps the posts matching pattern, best match first
func SearchPosts(posts []orgsocial.Post, pattern string) []orgsocial.Post {
	matches := fuzzy.FindFrom(pattern, postSource(posts))
	out := make([]orgsocial.Post, 0, len(matches))
	for _, m := range matches {
		out = append(out, posts[m.Index])
	}
	return out
}

// Profile prints the header of the user's social.org
func Profile(env Env) error {
	local, err := env.loadLocal()
	if err != nil {
		return err
	}
	fmt.Fprint(env.out(), formatProfile(local.Profile))
	return nil
}

// Following lists the followed feeds
func Following(env Env) error {
	local, err := env.loadLocal()
	if err != nil {
		return err
	}

	w := env.out()
	follows := local.Profile.Follows
	if len(follows) == 0 {
		fmt.Fprintln(w, styleSubtle.Render("Not following anyone"))
		return nil
	}

	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("Following (%d)", len(follows))))
	for _, f := range follows {
		nick := f.Nick
		if nick == "" {
			nick = "-"
		}
		fmt.Fprintf(w, "  %s %s\n", styleAuthor.Render(nick), styleLink.Render(f.URL))
	}
	return nil
}

// Stats summarizes the local feed, and with verbose every followed feed
type Stats struct {
	Posts    int
	Replies  int
	Polls    int
	Tags     map[string]int
	Feeds    []FeedStats
	Mentions int
}

// FeedStats is the post count of one followed feed
type FeedStats struct {
	URL   string
	Posts int
	Err   error
}

// CollectStats tallies the local feed and the fetch results
func CollectStats(feedURL string, local *orgsocial.Feed, fetched []orgsocial.FetchResult) Stats {
	s := Stats{Tags: make(map[string]int)}
	for _, p := range local.Posts {
		s.Posts++
		if p.IsReply() {
			s.Replies++
		}
		if p.HasPoll() {
			s.Polls++
		}
		for _, t := range p.Tags {
			s.Tags[t]++
		}
	}

	var remote []orgsocial.Post
	for _, r := range fetched {
		fs := FeedStats{URL: r.Follow.URL, Err: r.Err}
		if r.Feed != nil {
			fs.Posts = len(r.Feed.Posts)
			remote = append(remote, r.Feed.Posts...)
		}
		s.Feeds = append(s.Feeds, fs)
	}
	s.Mentions = len(orgsocial.Notifications(feedURL, local.Posts, remote))
	return s
}

// ShowStats prints feed statistics. Followed feeds are fetched.
func ShowStats(ctx context.Context, env Env, verbose bool) error {
	local, err := env.loadLocal()
	if err != nil {
		return err
	}

	stats := CollectStats(env.FeedURL, local, env.fetch(ctx, local.Profile.Follows))
	fmt.Fprint(env.out(), formatStats(stats, verbose))
	return nil
}

// History prints the most recent submitted posts
func History(env Env, mgr *history.Manager, limit int) error {
	entries, err := mgr.Load(limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	w := env.out()
	if len(entries) == 0 {
		fmt.Fprintln(w, styleSubtle.Render("No submitted posts"))
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(w, e.Summary(60))
	}
	return nil
}

// sortedTags returns tag names by descending count, then name
func sortedTags(tags map[string]int) []string {
	names := make([]string, 0, len(tags))
	for t := range tags {
		names = append(names, t)
	}
	sort.Slice(names, func(i, j int) bool {
		if tags[names[i]] != tags[names[j]] {
			return tags[names[i]] > tags[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
