package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal   Context = "global"    // Available everywhere
	ContextBrowsing Context = "browsing"  // Post list and content
	ContextCompose  Context = "compose"   // New post and reply forms
	ContextHelp     Context = "help"      // Help overlay
	ContextPollVote Context = "poll_vote" // Poll option selection
)

// AllContexts lists the contexts in display order
var AllContexts = []Context{ContextGlobal, ContextBrowsing, ContextCompose, ContextHelp, ContextPollVote}

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Post navigation
	ActionNextPost   Action = "next_post"    // Select next post
	ActionPrevPost   Action = "prev_post"    // Select previous post
	ActionScrollDown Action = "scroll_down"  // Scroll content down
	ActionScrollUp   Action = "scroll_up"    // Scroll content up
	ActionGoToTop    Action = "go_to_top"    // First post / top of help
	ActionGoToBottom Action = "go_to_bottom" // Last post / bottom of help
	ActionToggleView Action = "toggle_view"  // List, threaded, notifications

	// Interactive elements
	ActionNextElement     Action = "next_element"     // Focus next link, mention, block or poll
	ActionPrevElement     Action = "prev_element"     // Focus previous element
	ActionActivateElement Action = "activate_element" // Open link, toggle block, vote
	ActionCountVotes      Action = "count_votes"      // Count poll votes (threaded view)

	// Mode launchers
	ActionStartReply   Action = "start_reply"    // Reply to current post
	ActionStartNewPost Action = "start_new_post" // Compose new post
	ActionToggleHelp   Action = "toggle_help"    // Open or close help
	ActionCancel       Action = "cancel"         // Leave current mode, keep draft

	// Text input actions
	ActionTextInsertChar Action = "text_insert_char" // Insert character
	ActionTextNewline    Action = "text_newline"     // Insert newline in content
	ActionTextEnter      Action = "text_enter"       // Enter, meaning depends on field
	ActionTextBackspace  Action = "text_backspace"   // Delete char before cursor
	ActionTextDelete     Action = "text_delete"      // Delete char at cursor
	ActionTextMoveLeft   Action = "text_move_left"   // Move cursor left
	ActionTextMoveRight  Action = "text_move_right"  // Move cursor right
	ActionTextMoveUp     Action = "text_move_up"     // Move cursor up a line
	ActionTextMoveDown   Action = "text_move_down"   // Move cursor down a line
	ActionTextMoveHome   Action = "text_move_home"   // Move cursor to start
	ActionTextMoveEnd    Action = "text_move_end"    // Move cursor to end
	ActionNextField      Action = "next_field"       // Cycle to next field
	ActionPrevField      Action = "prev_field"       // Cycle to previous field
	ActionFinalizeTags   Action = "finalize_tags"    // Commit typed tags
	ActionRemoveLastTag  Action = "remove_last_tag"  // Drop last committed tag
	ActionResetFields    Action = "reset_fields"     // Clear the whole draft
	ActionSubmit         Action = "submit"           // Save post or reply

	// Poll vote actions
	ActionPollOptionUp   Action = "poll_option_up"   // Move selection up
	ActionPollOptionDown Action = "poll_option_down" // Move selection down
	ActionPollSelect     Action = "poll_select"      // Vote for selection

	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:            {ActionQuit, "Quit", "Global"},
	ActionQuitForce:       {ActionQuitForce, "Force quit", "Global"},
	ActionNextPost:        {ActionNextPost, "Next post", "Navigation"},
	ActionPrevPost:        {ActionPrevPost, "Previous post", "Navigation"},
	ActionScrollDown:      {ActionScrollDown, "Scroll down", "Navigation"},
	ActionScrollUp:        {ActionScrollUp, "Scroll up", "Navigation"},
	ActionGoToTop:         {ActionGoToTop, "First post", "Navigation"},
	ActionGoToBottom:      {ActionGoToBottom, "Last post", "Navigation"},
	ActionToggleView:      {ActionToggleView, "Toggle view (list/threaded/notifications)", "Navigation"},
	ActionNextElement:     {ActionNextElement, "Next link/block/poll", "Elements"},
	ActionPrevElement:     {ActionPrevElement, "Previous link/block/poll", "Elements"},
	ActionActivateElement: {ActionActivateElement, "Open link / toggle block / vote", "Elements"},
	ActionCountVotes:      {ActionCountVotes, "Count poll votes (threaded view)", "Elements"},
	ActionStartReply:      {ActionStartReply, "Reply to post", "Compose"},
	ActionStartNewPost:    {ActionStartNewPost, "New post", "Compose"},
	ActionToggleHelp:      {ActionToggleHelp, "Toggle help", "Global"},
	ActionCancel:          {ActionCancel, "Cancel", "Global"},
	ActionTextNewline:     {ActionTextNewline, "Newline in content", "Editing"},
	ActionTextEnter:       {ActionTextEnter, "Tags: add, content: newline, other: next field", "Editing"},
	ActionNextField:       {ActionNextField, "Next field", "Editing"},
	ActionPrevField:       {ActionPrevField, "Previous field", "Editing"},
	ActionFinalizeTags:    {ActionFinalizeTags, "Add typed tags", "Editing"},
	ActionRemoveLastTag:   {ActionRemoveLastTag, "Remove last tag", "Editing"},
	ActionResetFields:     {ActionResetFields, "Reset all fields", "Editing"},
	ActionSubmit:          {ActionSubmit, "Submit", "Editing"},
	ActionPollOptionUp:    {ActionPollOptionUp, "Previous option", "Poll"},
	ActionPollOptionDown:  {ActionPollOptionDown, "Next option", "Poll"},
	ActionPollSelect:      {ActionPollSelect, "Vote for option", "Poll"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether the action is handled by the application
func IsKnownAction(action Action) bool {
	if _, ok := actionInfos[action]; ok {
		return true
	}
	switch action {
	case ActionTextInsertChar, ActionTextBackspace, ActionTextDelete,
		ActionTextMoveLeft, ActionTextMoveRight, ActionTextMoveUp, ActionTextMoveDown,
		ActionTextMoveHome, ActionTextMoveEnd, ActionNoOp:
		return true
	}
	return false
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	return action == ActionQuitForce
}
