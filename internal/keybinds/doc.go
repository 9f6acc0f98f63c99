/*
Package keybinds provides customizable keyboard binding management.

# Overview

Keys are matched to actions per interaction context. A context-specific
binding wins over the global one, so only ctrl+c lives in the global
context and every mode declares its own keys.

# Contexts

  - Global: available everywhere (force quit)
  - Browsing: post list, content and interactive elements
  - Compose: the new post and reply editors
  - Help: the help overlay
  - PollVote: poll option selection

In the compose context printable keys without a binding are inserted as
text by the caller; they never reach the registry as actions.

# Configuration File Format

Bindings live in keybinds.json under the XDG config directory. Each
section maps an action to a comma separated key list. Comments and
trailing commas are allowed:

	{
	  // vim users
	  "browsing": {
	    "next_post": "j,down",
	    "prev_post": "k,up",
	  },
	  "compose": {
	    "submit": "ctrl+s",
	  }
	}

An action named in the file loses its default keys. Actions not named
keep theirs.

# Validation

The validator reports:
  - keys claimed by two actions of one section (errors)
  - unknown actions and malformed keys (errors)
  - mode bindings that shadow a global key (warnings)
  - ctrl+c rebound in the global context (warning)

# Example Usage

	registry, err := LoadOrDefault(path)
	if err != nil {
		return err
	}

	if action, ok := registry.Match(ContextBrowsing, msg.String()); ok {
		// dispatch action
	}

The Registry is not safe for concurrent writes. Build it once at startup.
*/
package keybinds
