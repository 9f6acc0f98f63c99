package orgsocial

import "strings"

// NotificationKind tells why a post concerns the user
type NotificationKind string

const (
	NotificationMention NotificationKind = "mention"
	NotificationReply   NotificationKind = "reply"
)

// Notification is a post by someone else that involves the user
type Notification struct {
	Kind NotificationKind
	Post Post
}

// Notifications collects remote posts that mention userURL or reply to one
// of the user's posts. A reply that also mentions the user is reported once,
// as a reply.
func Notifications(userURL string, userPosts, remote []Post) []Notification {
	var out []Notification
	for _, p := range remote {
		if p.Source == "" || (userURL != "" && p.Source == userURL) {
			continue
		}
		if repliesToAny(p, userPosts) {
			out = append(out, Notification{Kind: NotificationReply, Post: p})
			continue
		}
		if userURL != "" && mentions(p, userURL) {
			out = append(out, Notification{Kind: NotificationMention, Post: p})
		}
	}
	return out
}

func repliesToAny(p Post, targets []Post) bool {
	for _, t := range targets {
		if RepliesTo(p, t) {
			return true
		}
	}
	return false
}

func mentions(p Post, url string) bool {
	if !strings.Contains(p.Content, MentionScheme) {
		return false
	}
	for _, tok := range Tokenize(p.Content) {
		if tok.Kind == TokenMention && tok.URL == url {
			return true
		}
	}
	return false
}
