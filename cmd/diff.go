package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/diff"
)

var diffCmd = &cobra.Command{
	Use:   constants.DiffCmdName + " [base] [target]",
	Short: "Show line differences between snapshots",
	Long: `Show the changes between two snapshots. base defaults to HEAD and target
to the working tree. Either side may be a commit id, master, HEAD or "index".

Examples:
  # Unstaged changes
  sit diff index

  # Staged changes
  sit diff HEAD index`,
	SilenceUsage: true,
	Args:         maximumArgs(2),
	RunE:         runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(false)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	var base, target string
	if len(args) > 0 {
		base = args[0]
	}
	if len(args) > 1 {
		target = args[1]
	}

	diffs, err := repo.Diff(base, target)
	if err != nil {
		return reportError(cmd, err)
	}

	return diff.Render(cmd.OutOrStdout(), diffs, newStyles(cmd))
}
