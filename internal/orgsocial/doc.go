/*
Package orgsocial reads and writes org-social feeds.

An org-social feed is a single social.org file: #+KEYWORD header lines
describe the profile, and each second level heading under "* Posts" is a
post whose :PROPERTIES: drawer carries its metadata (ID, LANG, TAGS, CLIENT,
REPLY_TO, MOOD, POLL_END, POLL_OPTION).

# Components

  - parser.go: Parse/ParseFile into Feed, Profile and Post
  - tokenizer.go: inline markup into styled Tokens (links, mentions, emphasis)
  - blocks.go: #+BEGIN_/#+END_ blocks and poll option lists
  - poll.go: vote counting over replies
  - threading.go: reply trees
  - notifications.go: mentions of and replies to the user
  - network.go: concurrent retrieval of followed feeds
  - timeline.go: merge, filter and sort
  - writer.go: post creation and atomic append to the local file
*/
package orgsocial
