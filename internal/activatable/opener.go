package activatable

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// ErrUnsupportedPlatform is returned when no URL handler is known for the OS
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Opener hands a URL to the desktop environment
type Opener interface {
	Open(url string) error
}

// Clipboard receives URLs that could not be opened
type Clipboard interface {
	WriteAll(text string) error
}

// SystemOpener launches the platform URL handler without waiting for it
type SystemOpener struct {
	// GOOS overrides runtime.GOOS, for tests
	GOOS string
}

func (o SystemOpener) Open(url string) error {
	cmd, err := o.command(url)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", cmd.Path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (o SystemOpener) command(url string) (*exec.Cmd, error) {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	var cmd *exec.Cmd
	switch goos {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
	return cmd, nil
}

// SystemClipboard writes to the OS clipboard
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
