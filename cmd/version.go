package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blinkx/internal/extract"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and built-in extractors",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blinkx %s\n", Version)
		fmt.Printf("extractors: %s\n", strings.Join(extract.DefaultRegistry(nil, extract.BlinkxOptions{Logger: log}).Names(), ", "))
	},
}
