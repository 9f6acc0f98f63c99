package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/orgsocial/internal/activatable"
	"github.com/studiowebux/orgsocial/internal/config"
	"github.com/studiowebux/orgsocial/internal/history"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// testNow is the clock of test models
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeSaver records saved posts, or fails with err
type fakeSaver struct {
	saved []orgsocial.Post
	err   error
}

func (s *fakeSaver) Save(p orgsocial.Post) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, p)
	return nil
}

// fakeOpener records opened URLs, or fails with err
type fakeOpener struct {
	opened []string
	err    error
}

func (o *fakeOpener) Open(url string) error {
	if o.err != nil {
		return o.err
	}
	o.opened = append(o.opened, url)
	return nil
}

// TestEnv bundles a test model with its fakes
type TestEnv struct {
	Model  *Model
	Saver  *fakeSaver
	Opener *fakeOpener
}

// CreateTestModel creates a Model instance for testing with minimal dependencies
func CreateTestModel(t *testing.T) *TestEnv {
	t.Helper()

	tempDir := t.TempDir()

	mgr, err := history.NewManager(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create history manager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	saver := &fakeSaver{}
	opener := &fakeOpener{}

	m, err := New(Options{
		Config:     config.Default(),
		SocialPath: filepath.Join(tempDir, "social.org"),
		History:    mgr,
		Saver:      saver,
		Registry:   activatable.NewRegistry(activatable.WithOpener(opener), activatable.WithClipboard(nil)),
		Now:        func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return &TestEnv{Model: &m, Saver: saver, Opener: opener}
}

// CreateTestModelWithPosts creates a test model showing the given local posts
func CreateTestModelWithPosts(t *testing.T, posts ...orgsocial.Post) *TestEnv {
	t.Helper()

	env := CreateTestModel(t)
	env.Model.Update(feedLoadedMsg{local: &orgsocial.Feed{Posts: posts}})
	return env
}

// Press sends keys to the model. Named keys use their bubbletea names,
// anything else is typed as runes.
func (e *TestEnv) Press(keys ...string) {
	for _, k := range keys {
		e.Model.Update(keyMsg(k))
	}
}

// Type sends text one rune at a time
func (e *TestEnv) Type(text string) {
	for _, r := range text {
		e.Model.Update(keyMsg(string(r)))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+j":
		return tea.KeyMsg{Type: tea.KeyCtrlJ}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	case "f2":
		return tea.KeyMsg{Type: tea.KeyF2}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// AssertError verifies that an error occurred
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected error but got nil")
	}
}
