package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerBrowsingBindings(r)
	registerComposeBindings(r)
	registerHelpBindings(r)
	registerPollVoteBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

func registerBrowsingBindings(r *Registry) {
	r.Register(ContextBrowsing, "q", ActionQuit)
	r.RegisterMultiple(ContextBrowsing, []string{"j", "down"}, ActionNextPost)
	r.RegisterMultiple(ContextBrowsing, []string{"k", "up"}, ActionPrevPost)
	r.RegisterMultiple(ContextBrowsing, []string{"d", "pgdown"}, ActionScrollDown)
	r.RegisterMultiple(ContextBrowsing, []string{"u", "pgup"}, ActionScrollUp)
	r.RegisterMultiple(ContextBrowsing, []string{"g", "home"}, ActionGoToTop)
	r.RegisterMultiple(ContextBrowsing, []string{"G", "end"}, ActionGoToBottom)
	r.Register(ContextBrowsing, "t", ActionToggleView)
	r.Register(ContextBrowsing, "r", ActionStartReply)
	r.Register(ContextBrowsing, "n", ActionStartNewPost)
	r.RegisterMultiple(ContextBrowsing, []string{"h", "?"}, ActionToggleHelp)
	r.Register(ContextBrowsing, "v", ActionCountVotes)
	r.Register(ContextBrowsing, "l", ActionNextElement)
	r.Register(ContextBrowsing, "L", ActionPrevElement)
	r.RegisterMultiple(ContextBrowsing, []string{"enter", "tab"}, ActionActivateElement)
	r.Register(ContextBrowsing, "esc", ActionCancel)
}

// registerComposeBindings sets up the multi-field editor. Printable keys
// without a binding are inserted as text.
func registerComposeBindings(r *Registry) {
	r.Register(ContextCompose, "esc", ActionCancel)
	r.Register(ContextCompose, "ctrl+s", ActionSubmit)
	r.Register(ContextCompose, "enter", ActionTextEnter)
	r.RegisterMultiple(ContextCompose, []string{"shift+enter", "alt+enter", "ctrl+j"}, ActionTextNewline)
	r.Register(ContextCompose, "backspace", ActionTextBackspace)
	r.Register(ContextCompose, "delete", ActionTextDelete)
	r.Register(ContextCompose, "left", ActionTextMoveLeft)
	r.Register(ContextCompose, "right", ActionTextMoveRight)
	r.Register(ContextCompose, "up", ActionTextMoveUp)
	r.Register(ContextCompose, "down", ActionTextMoveDown)
	r.RegisterMultiple(ContextCompose, []string{"home", "ctrl+a"}, ActionTextMoveHome)
	r.RegisterMultiple(ContextCompose, []string{"end", "ctrl+e"}, ActionTextMoveEnd)
	r.Register(ContextCompose, "tab", ActionNextField)
	r.Register(ContextCompose, "shift+tab", ActionPrevField)
	r.Register(ContextCompose, "f1", ActionRemoveLastTag)
	r.Register(ContextCompose, "f2", ActionResetFields)
}

func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"h", "?", "esc", "q"}, ActionToggleHelp)
	r.RegisterMultiple(ContextHelp, []string{"j", "down"}, ActionScrollDown)
	r.RegisterMultiple(ContextHelp, []string{"k", "up"}, ActionScrollUp)
	r.RegisterMultiple(ContextHelp, []string{"g", "home"}, ActionGoToTop)
	r.RegisterMultiple(ContextHelp, []string{"G", "end"}, ActionGoToBottom)
}

func registerPollVoteBindings(r *Registry) {
	r.RegisterMultiple(ContextPollVote, []string{"esc", "q"}, ActionCancel)
	r.RegisterMultiple(ContextPollVote, []string{"k", "up"}, ActionPollOptionUp)
	r.RegisterMultiple(ContextPollVote, []string{"j", "down"}, ActionPollOptionDown)
	r.Register(ContextPollVote, "enter", ActionPollSelect)
}
