package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blinkx/internal/download"
	"blinkx/internal/player"
)

var flagPlayFormat string

var playCmd = &cobra.Command{
	Use:   "play <url>",
	Short: "Play a format in an external player (best by default)",
	Args:  cobra.ExactArgs(1),
	RunE:  playRun,
}

func init() {
	playCmd.Flags().StringVarP(&flagPlayFormat, "format", "f", "", "Format ID to play (see 'blinkx formats')")
}

func playRun(cmd *cobra.Command, args []string) error {
	info, err := resolveInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	f, err := download.Select(info, flagPlayFormat)
	if err != nil {
		return err
	}

	p := player.New(strings.ToLower(cfg.Player))
	if !p.Available() {
		return fmt.Errorf("player %q not found in PATH", cfg.Player)
	}

	log.Debugf("playing %s with %s", f.FormatID, p.Name())
	return p.Play(cmd.Context(), f, info.Title)
}
