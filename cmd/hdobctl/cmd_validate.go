package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check HDOB product files against the decoder",
	Long: `Validate parses each file with the full decoder and reports OK or the
decoding error per file. Exits non-zero if any file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failures := 0

	for _, path := range args {
		msg, err := decodeFile(path)
		if err != nil {
			failures++
			fmt.Fprintf(out, "  %-50s \033[31mFAIL\033[0m %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "  %-50s \033[32mOK\033[0m   %s, %d observations\n",
			path, msg.MissionID, len(msg.Observations))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed validation", failures, len(args))
	}
	return nil
}
