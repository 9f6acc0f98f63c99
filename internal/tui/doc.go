/*
Package tui implements the terminal client for org-social feeds.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Modes, view modes and the Model
  - keys.go: Key translation and per-mode action dispatch
  - compose.go: Reply and new post editing with persistent draft slots
  - poll_vote_state.go: Poll option picker and vote counting
  - content.go: Post layout feeding the interactive element registry
  - feed_state.go: Timeline, threads, notifications and selection
  - render.go: View rendering
  - watch.go: Feed loading and social file watching

# Modes

  - ModeBrowsing: post list and content, element focus and activation
  - ModeReply, ModeNewPost: multi-field editors
  - ModeHelp: keybinding overview
  - ModePollVote: option picker opened from a focused poll

Keys are translated with the keybinds registry for the mode's context.
In the editors, printable keys without a binding insert text and Enter is
resolved per field before dispatch.

# Drafts

Cancelling an editor parks its draft: one slot for the new post, one for
the reply keyed by the target post. Starting a reply to another post
discards the parked reply. A successful submit clears the slot; a failed
one leaves the editor open.

# Interactive Elements

Every Update re-lays out the displayed post. Links, mentions, blocks and
polls found during layout go into the Collector and are handed to the
activatable Registry, which keeps focus by element key. Switching posts
resets collapse state and poll results.

# Concurrency

Update runs on the Bubble Tea goroutine and owns all state. Feed loading,
file watching and the cursor blink run as commands that only send
messages back.
*/
package tui
