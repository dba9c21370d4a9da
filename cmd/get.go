package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"blinkx/internal/download"
)

var (
	flagFormat string
	flagOutput string
)

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Download a format with ffmpeg (best by default)",
	Args:  cobra.ExactArgs(1),
	RunE:  getRun,
}

func init() {
	getCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Format ID to download (see 'blinkx formats')")
	getCmd.Flags().StringVarP(&flagOutput, "download", "d", "", "Directory to download into (default: download_dir)")
}

func getRun(cmd *cobra.Command, args []string) error {
	info, err := resolveInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	f, err := download.Select(info, flagFormat)
	if err != nil {
		return err
	}
	log.Debugf("selected format %s (%s)", f.FormatID, f.URL)

	dir := flagOutput
	if dir == "" {
		dir, err = cfg.ExpandDownloadDir()
		if err != nil {
			return fmt.Errorf("resolving download dir: %w", err)
		}
	}

	outputPath, err := download.Download(cmd.Context(), info, f, dir, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Downloaded: %s\n", outputPath)
	return nil
}
