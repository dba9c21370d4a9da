// Package player launches external media players on a format URL.
// All player invocations use exec.CommandContext with explicit argument
// slices; remote data never passes through a shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"blinkx/internal/httputil"
	"blinkx/internal/media"
)

// Player is the interface for media player implementations.
type Player interface {
	// Play blocks until the player exits.
	Play(ctx context.Context, f *media.Format, title string) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name. Unknown names fall back to mpv.
func New(name string) Player {
	switch name {
	case "vlc":
		return &external{name: "vlc", args: vlcArgs}
	case "iina", "celluloid":
		return &external{name: name, args: mpvFrontendArgs}
	default:
		return &external{name: "mpv", args: mpvArgs}
	}
}

// external runs a player binary with arguments built by args.
type external struct {
	name string
	args func(url, title string) []string
}

func (e *external) Name() string { return e.name }

func (e *external) Available() bool {
	_, err := exec.LookPath(e.name)
	return err == nil
}

func (e *external) Play(ctx context.Context, f *media.Format, title string) error {
	if err := httputil.ValidateMediaURL(f.URL); err != nil {
		return fmt.Errorf("invalid format URL: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.name, e.args(f.URL, title)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		// Players exit non-zero when the user closes them
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", e.name, err)
	}
	return nil
}

func mpvArgs(url, title string) []string {
	return []string{
		url,
		"--force-media-title=" + title,
		"--really-quiet",
	}
}

// mpvFrontendArgs passes mpv options through a frontend that expects
// them prefixed with --mpv-.
func mpvFrontendArgs(url, title string) []string {
	return []string{
		"--mpv-force-media-title=" + title,
		"--mpv-really-quiet",
		url,
	}
}

func vlcArgs(url, title string) []string {
	return []string{
		url,
		"--meta-title", title,
		"--play-and-exit",
	}
}
