package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"blinkx/internal/media"
)

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Print video metadata as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  infoRun,
}

func infoRun(cmd *cobra.Command, args []string) error {
	res, err := resolve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, res)
}

// resolve runs the registry for a URL.
func resolve(ctx context.Context, url string) (*media.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}

	log.Debugf("extracting: %s", url)
	res, err := reg.Extract(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", url, err)
	}
	return res, nil
}

// resolveInfo is resolve for commands that need a video, not a redirect.
func resolveInfo(ctx context.Context, url string) (*media.Info, error) {
	res, err := resolve(ctx, url)
	if err != nil {
		return nil, err
	}
	if res.IsRedirect() {
		return nil, fmt.Errorf("video is hosted by %s (%s) and no %s extractor is available",
			res.Redirect.Extractor, res.Redirect.TargetID, res.Redirect.Extractor)
	}
	return res.Info, nil
}

// redirectOutput is the JSON form of a redirect.
type redirectOutput struct {
	Type string `json:"_type"`
	*media.Redirect
}

// writeJSON encodes a result with indentation.
func writeJSON(w io.Writer, res *media.Result) error {
	var out any = res.Info
	if res.IsRedirect() {
		out = redirectOutput{Type: "url", Redirect: res.Redirect}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
