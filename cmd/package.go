package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pageforge/utils"
)

type packArgs struct {
	DirPath string `validate:"required"`
}

var (
	pArgs packArgs
)

var packCmd = &cobra.Command{
	Use:         "pack",
	Short:       "pack an epub file from an unpacked book directory",
	Long:        "pack an epub file from an unpacked book directory, e.g. one edited after export",
	Annotations: map[string]string{noStore: "true"},
	RunE:        runPackage,
}

func init() {
	packCmd.Flags().StringVarP(&pArgs.DirPath, "dir-path", "d", "", "directory path")
	RootCmd.AddCommand(packCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	if err := validate.Struct(pArgs); err != nil {
		return err
	}
	path, err := utils.PackEpub(pArgs.DirPath)
	if err != nil {
		return fmt.Errorf("failed to create epub: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
