package tui

import "time"

// UI Layout Constants
const (
	ListWidthPercent = 30 // Post list share of the screen width
	BorderWidth      = 2  // Width consumed by a rounded border
	BorderHeight     = 2  // Height consumed by a rounded border
	StatusBarHeight  = 2  // Status message + key summary
	HelpPadding      = 2  // Horizontal padding inside the help box
)

// Timing
const (
	cursorBlinkInterval = 500 * time.Millisecond
	watchDebounce       = 100 * time.Millisecond
)
