// Command hdobctl decodes, validates, and archives HDOB products from the
// command line, using the same decoding path as the ETL service.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hdobctl",
	Short: "Work with aircraft reconnaissance HDOB products",
	Long: `hdobctl decodes, validates, and archives High Density Observation
(HDOB) products using the same decoding path as the ETL service.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// cliLogger keeps informational service logging out of command output;
// only warnings and errors reach stderr.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
