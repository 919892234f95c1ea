package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
)

var gcCmd = &cobra.Command{
	Use:   constants.GCCmdName,
	Short: "Delete objects unreachable from master or HEAD",
	Long: `Walk every commit reachable from master and HEAD, mark its tree and blobs,
and delete every other object in .sit/objects.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runGC,
}

func init() {
	rootCmd.AddCommand(gcCmd)
}

func runGC(cmd *cobra.Command, _ []string) error {
	repo, err := openRepository(true)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	report, err := repo.GC()
	if err != nil {
		return reportError(cmd, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d of %d objects\n", len(report.Removed), report.Scanned)
	return nil
}
