package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/recon-data-etl/internal/domain"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file>...",
	Short: "Decode HDOB product files to JSON",
	Long: `Decode one or more HDOB product files and print each as an enriched
JSON message, one document per file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	for _, path := range args {
		msg, err := decodeFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := enc.Encode(msg); err != nil {
			return err
		}
	}
	return nil
}

// decodeFile runs a product file through the same parse and enrich steps as
// the service pipeline.
func decodeFile(path string) (domain.DecodedMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DecodedMessage{}, err
	}
	msg, err := domain.ParseRawMessage(domain.RawMessage{Value: data})
	if err != nil {
		return domain.DecodedMessage{}, err
	}
	return domain.EnrichMessage(msg), nil
}
