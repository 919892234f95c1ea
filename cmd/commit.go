package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
)

var commitCmd = &cobra.Command{
	Use:   constants.CommitCmdName,
	Short: "Record the index as a new commit on master",
	Long: `Record the staged snapshot as a new commit on master. Without -m the
message is read from .sit/COMMIT_MSG, dropping lines that start with '#'.

With --amend the commit at HEAD is replaced. When HEAD is behind master every
later commit is rewritten on top of the replacement and master moves to the
rewritten tip.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runCommit,
}

var (
	commitMessage string
	amendFlag     bool
)

func init() {
	rootCmd.AddCommand(commitCmd)

	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Use the given message instead of .sit/COMMIT_MSG")
	commitCmd.Flags().BoolVar(&amendFlag, "amend", false, "Replace the commit at HEAD")
}

func runCommit(cmd *cobra.Command, _ []string) error {
	repo, err := openRepository(true)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	result, err := repo.Commit(commitMessage, amendFlag)
	if err != nil {
		return reportError(cmd, err)
	}

	styles := newStyles(cmd)
	out := cmd.OutOrStdout()
	if result.Amend {
		fmt.Fprintf(out, "[master %s] amended\n", styles.ID(result.ID))
		for _, id := range result.Rewritten {
			fmt.Fprintf(out, "  rewritten %s\n", styles.ID(id))
		}
		return nil
	}
	fmt.Fprintf(out, "[master %s]\n", styles.ID(result.ID))
	return nil
}
