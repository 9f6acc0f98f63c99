package orgsocial

import (
	"sort"
	"strings"
)

// ThreadNode is a post and the replies found for it
type ThreadNode struct {
	Post    Post
	Replies []*ThreadNode
}

// ThreadEntry is one line of a flattened thread
type ThreadEntry struct {
	Post  Post
	Depth int
}

// BuildThreads arranges posts into reply trees. Posts whose parent is not
// among posts become roots. Roots keep the input order, replies are sorted
// oldest first.
func BuildThreads(posts []Post) []*ThreadNode {
	nodes := make([]*ThreadNode, len(posts))
	byFullID := make(map[string]*ThreadNode, len(posts))
	byID := make(map[string][]*ThreadNode, len(posts))
	for i, p := range posts {
		n := &ThreadNode{Post: p}
		nodes[i] = n
		byFullID[p.FullID()] = n
		byID[p.ID] = append(byID[p.ID], n)
	}

	var roots []*ThreadNode
	for _, n := range nodes {
		parent := findParent(n.Post, byFullID, byID)
		if parent == nil || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.Replies = append(parent.Replies, n)
	}

	for _, n := range nodes {
		sort.SliceStable(n.Replies, func(i, j int) bool {
			return n.Replies[i].Post.Time.Before(n.Replies[j].Post.Time)
		})
	}

	return roots
}

func findParent(p Post, byFullID map[string]*ThreadNode, byID map[string][]*ThreadNode) *ThreadNode {
	if p.ReplyTo == "" {
		return nil
	}
	if n, ok := byFullID[p.ReplyTo]; ok {
		return n
	}
	id := p.ReplyTo
	if i := strings.LastIndex(id, "#"); i >= 0 {
		id = id[i+1:]
	}
	for _, candidate := range byID[id] {
		if RepliesTo(p, candidate.Post) {
			return candidate
		}
	}
	return nil
}

// Flatten walks the trees depth first
func Flatten(roots []*ThreadNode) []ThreadEntry {
	var out []ThreadEntry
	var walk func(n *ThreadNode, depth int)
	walk = func(n *ThreadNode, depth int) {
		out = append(out, ThreadEntry{Post: n.Post, Depth: depth})
		for _, r := range n.Replies {
			walk(r, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return out
}

// Descendants returns every reply below the node, depth first
func (n *ThreadNode) Descendants() []Post {
	var out []Post
	for _, r := range n.Replies {
		out = append(out, r.Post)
		out = append(out, r.Descendants()...)
	}
	return out
}

// DirectReplies returns the posts replying to target
func DirectReplies(target Post, posts []Post) []Post {
	var out []Post
	for _, p := range posts {
		if RepliesTo(p, target) {
			out = append(out, p)
		}
	}
	return out
}
