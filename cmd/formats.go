package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"blinkx/internal/media"
)

var formatsCmd = &cobra.Command{
	Use:   "formats <url>",
	Short: "List available formats, best last",
	Args:  cobra.ExactArgs(1),
	RunE:  formatsRun,
}

func formatsRun(cmd *cobra.Command, args []string) error {
	info, err := resolveInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, renderFormats(info))
	return nil
}

// renderFormats formats the header and format table of a video.
func renderFormats(info *media.Info) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s [%s] by %s, uploaded %s", info.Title, info.ID, info.Uploader, info.UploadDate)
	if info.Duration != nil {
		d := time.Duration(*info.Duration * float64(time.Second)).Round(time.Second)
		fmt.Fprintf(&b, ", %s", d)
	}
	b.WriteString("\n")

	if len(info.Formats) == 0 {
		b.WriteString("no formats available\n")
		return b.String()
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("FORMAT", "RESOLUTION", "VCODEC", "ACODEC", "BITRATE")
	for _, f := range info.Formats {
		table.AddRow(
			f.FormatID,
			fmt.Sprintf("%dx%d", f.Width, f.Height),
			f.VCodec,
			f.ACodec,
			humanize.SI(float64(f.TotalBitrate())*1000, "bps"),
		)
	}
	b.WriteString(table.String())
	b.WriteString("\n")

	return b.String()
}
