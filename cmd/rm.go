package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
)

var rmCmd = &cobra.Command{
	Use:   constants.RmCmdName + " <path>...",
	Short: "Remove paths from the index",
	Long: `Drop every index entry at or below each path. Working files are left in place.`,
	SilenceUsage: true,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(true)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	paths, err := repoPaths(repo, args)
	if err != nil {
		return err
	}

	for _, path := range paths {
		removed, err := repo.Remove(path)
		if err != nil {
			return reportError(cmd, err)
		}
		for _, p := range removed {
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed.\n", displayPath(repo, p))
		}
	}
	return nil
}
