package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/recon-data-etl/internal/adapter/sqlite"
)

var (
	archiveDBPath    string
	archiveListLimit int
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Store and inspect archived HDOB products",
}

var archiveStoreCmd = &cobra.Command{
	Use:   "store <file>...",
	Short: "Decode product files into the archive database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runArchiveStore,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived products, most recently processed first",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

func init() {
	archiveCmd.PersistentFlags().StringVar(&archiveDBPath, "db", "hdob-archive.db", "path to the archive database")
	archiveListCmd.Flags().IntVar(&archiveListLimit, "limit", 20, "maximum number of products to list")
	archiveCmd.AddCommand(archiveStoreCmd)
	archiveCmd.AddCommand(archiveListCmd)
	rootCmd.AddCommand(archiveCmd)
}

func runArchiveStore(cmd *cobra.Command, args []string) error {
	a, err := sqlite.Open(archiveDBPath, cliLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, path := range args {
		msg, err := decodeFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := a.StoreMessage(cmd.Context(), msg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "archived %s (%s, %d observations)\n",
			msg.ID, msg.MissionID, len(msg.Observations))
	}
	return nil
}

func runArchiveList(cmd *cobra.Command, _ []string) error {
	a, err := sqlite.Open(archiveDBPath, cliLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	summaries, err := a.RecentMessages(cmd.Context(), archiveListLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "archive is empty")
		return nil
	}

	fmt.Fprintf(out, "%-14s %-22s %-10s %-16s %5s %4s  %s\n",
		"ID", "MISSION", "STORM", "BASIN", "OBS#", "N", "DATE")
	for _, s := range summaries {
		fmt.Fprintf(out, "%-14s %-22s %-10s %-16s %5d %4d  %s\n",
			s.ID, s.MissionID, s.StormName, s.Basin, s.ObsNumber, s.Observations,
			s.Date.Format("2006-01-02"))
	}
	return nil
}
