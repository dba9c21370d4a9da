// Package download provides secure ffmpeg-based media downloading.
// Uses exec.CommandContext with explicit argument slices and validates
// output paths against directory traversal attacks.
package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"blinkx/internal/httputil"
	"blinkx/internal/media"
)

// ErrNoFormats is returned when a video has nothing to download.
var ErrNoFormats = errors.New("no downloadable formats")

// ffmpegBinary is looked up in PATH. Tests override it.
var ffmpegBinary = "ffmpeg"

// Select returns the format with the given ID, or the best one when id is empty.
func Select(info *media.Info, id string) (*media.Format, error) {
	if id == "" {
		if f := info.Best(); f != nil {
			return f, nil
		}
		return nil, ErrNoFormats
	}
	if f := info.FormatByID(id); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("format %q not available", id)
}

// titleSeparators would otherwise split a title into path components.
var titleSeparators = strings.NewReplacer("/", "_", "\\", "_")

// Filename builds the output file name for a format: "<title>-<id>.<ext>".
func Filename(info *media.Info, f *media.Format) string {
	title := titleSeparators.Replace(info.Title)
	return httputil.SanitizeFilename(fmt.Sprintf("%s-%s.%s", title, info.ID, extension(f.URL)))
}

// extension returns "flv" or "mp4" from the URL path, defaulting to "mp4".
func extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "mp4"
	}
	switch ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), ".")); ext {
	case "flv", "mp4":
		return ext
	default:
		return "mp4"
	}
}

// buildArgs returns the ffmpeg argument list for copying one format.
func buildArgs(f *media.Format, title, outputPath string) []string {
	return []string{
		"-y", // Overwrite output
		"-i", f.URL,
		"-c", "copy", // No re-encoding
		"-metadata", fmt.Sprintf("title=%s", title),
		outputPath,
	}
}

// Download fetches a format to outputDir using ffmpeg and returns the file path.
func Download(ctx context.Context, info *media.Info, f *media.Format, outputDir string, log logrus.FieldLogger) (string, error) {
	if err := httputil.ValidateMediaURL(f.URL); err != nil {
		return "", fmt.Errorf("invalid format URL: %w", err)
	}

	ffmpegPath, err := exec.LookPath(ffmpegBinary)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outputPath, err := httputil.SafeDownloadPath(absDir, Filename(info, f))
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	log.WithFields(logrus.Fields{
		"format":  f.FormatID,
		"bitrate": humanize.SI(float64(f.TotalBitrate())*1000, "bps"),
		"output":  outputPath,
	}).Info("downloading")

	cmd := exec.CommandContext(ctx, ffmpegPath, buildArgs(f, info.Title, outputPath)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		// Clean up partial download on failure
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg download failed: %w", err)
	}

	return outputPath, nil
}
