package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pageforge/store"
)

var (
	dumpOutput   string
	restoreInput string
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write the whole library to a JSON backup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := store.ExportAll(cmd.Context(), db, time.Now())
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode backup: %v", err)
		}
		if dumpOutput == "" || dumpOutput == "-" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(dumpOutput, data, 0644)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace library content with a JSON backup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(restoreInput)
		if err != nil {
			return fmt.Errorf("failed to read backup: %v", err)
		}
		var d store.Dump
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to decode backup: %v", err)
		}
		if d.Version > store.DumpVersion {
			return fmt.Errorf("backup version %d is newer than supported version %d", d.Version, store.DumpVersion)
		}
		if err := store.ImportAll(cmd.Context(), db, &d); err != nil {
			return err
		}
		n, err := lib.MigrateAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "restored %d store(s), %d collection(s) migrated\n", len(d.Stores), n)
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "backup file (default stdout)")
	restoreCmd.Flags().StringVarP(&restoreInput, "input", "i", "", "backup file")
	restoreCmd.MarkFlagRequired("input")
	RootCmd.AddCommand(dumpCmd, restoreCmd)
}
