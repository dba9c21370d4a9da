package download

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"blinkx/internal/media"
)

func testInfo() *media.Info {
	return &media.Info{
		ID:    "8aQUy7GV",
		Title: "Police Car Rolls Away",
		Formats: []media.Format{
			{FormatID: "flv-464k-640", URL: "http://cdn.blinkx.com/a.flv", Width: 640},
			{FormatID: "h264-928k-1280", URL: "http://cdn.blinkx.com/b.mp4?sig=1", Width: 1280},
		},
	}
}

func TestSelect(t *testing.T) {
	info := testInfo()

	f, err := Select(info, "")
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if f.FormatID != "h264-928k-1280" {
		t.Errorf("best = %q, want h264-928k-1280", f.FormatID)
	}

	f, err = Select(info, "flv-464k-640")
	if err != nil {
		t.Fatalf("Select(id) error: %v", err)
	}
	if f.URL != "http://cdn.blinkx.com/a.flv" {
		t.Errorf("url = %q", f.URL)
	}

	if _, err := Select(info, "nope"); err == nil {
		t.Error("expected error for unknown format")
	}

	if _, err := Select(&media.Info{}, ""); !errors.Is(err, ErrNoFormats) {
		t.Errorf("error = %v, want ErrNoFormats", err)
	}
}

func TestFilename(t *testing.T) {
	info := testInfo()
	tests := []struct {
		name   string
		format media.Format
		want   string
	}{
		{"flv", info.Formats[0], "Police Car Rolls Away-8aQUy7GV.flv"},
		{"mp4 with query", info.Formats[1], "Police Car Rolls Away-8aQUy7GV.mp4"},
		{"unknown extension", media.Format{URL: "http://x/stream"}, "Police Car Rolls Away-8aQUy7GV.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(info, &tt.format); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}

	titles := []struct {
		title string
		want  string
	}{
		{"AC/DC Live", "AC_DC Live-abc.mp4"},
		{`AC\DC Live`, "AC_DC Live-abc.mp4"},
		{"../../etc/passwd", "____etc_passwd-abc.mp4"},
	}
	for _, tt := range titles {
		t.Run(tt.title, func(t *testing.T) {
			info := &media.Info{ID: "abc", Title: tt.title}
			if got := Filename(info, &media.Format{URL: "http://x/a.mp4"}); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildArgs(t *testing.T) {
	f := &media.Format{URL: "http://x/a.mp4"}
	args := buildArgs(f, "Title; rm -rf /", "/tmp/out.mp4")

	want := []string{"-y", "-i", "http://x/a.mp4", "-c", "copy", "-metadata", "title=Title; rm -rf /", "/tmp/out.mp4"}
	if len(args) != len(want) {
		t.Fatalf("args = %q, want %q", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestDownloadRejectsBadURL(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &media.Format{URL: "file:///etc/passwd"}
	if _, err := Download(context.Background(), testInfo(), f, t.TempDir(), log); err == nil {
		t.Error("expected file:// URL to be rejected")
	}
}

func TestDownloadMissingFFmpeg(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	old := ffmpegBinary
	ffmpegBinary = "ffmpeg-does-not-exist-blinkx"
	defer func() { ffmpegBinary = old }()

	info := testInfo()
	if _, err := Download(context.Background(), info, &info.Formats[0], t.TempDir(), log); err == nil {
		t.Error("expected error when ffmpeg is missing")
	}
}
