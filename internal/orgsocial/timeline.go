package orgsocial

import (
	"sort"
	"strings"
	"time"
)

// TimelineOptions narrows the merged feed
type TimelineOptions struct {
	UserOnly bool
	Source   string // keep only posts whose source contains this text
	Days     int    // keep only posts newer than this many days, 0 = all
	Now      time.Time
}

// BuildTimeline merges the local feed with fetched feeds, newest first.
// Failed fetches are skipped.
func BuildTimeline(local *Feed, fetched []FetchResult, opts TimelineOptions) []Post {
	var posts []Post
	if local != nil {
		posts = append(posts, local.Posts...)
	}
	if !opts.UserOnly {
		for _, r := range fetched {
			if r.Err != nil || r.Feed == nil {
				continue
			}
			posts = append(posts, r.Feed.Posts...)
		}
	}

	posts = FilterPosts(posts, opts)
	SortNewestFirst(posts)
	return posts
}

// FilterPosts applies the source and age filters
func FilterPosts(posts []Post, opts TimelineOptions) []Post {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := time.Time{}
	if opts.Days > 0 {
		cutoff = now.AddDate(0, 0, -opts.Days)
	}

	out := posts[:0:0]
	for _, p := range posts {
		if opts.UserOnly && p.Source != "" {
			continue
		}
		if opts.Source != "" && !strings.Contains(p.Source, opts.Source) {
			continue
		}
		if !cutoff.IsZero() && (p.Time.IsZero() || p.Time.Before(cutoff)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortNewestFirst orders posts by timestamp, newest first. Posts without a
// parsable timestamp go last.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Time.After(posts[j].Time)
	})
}
