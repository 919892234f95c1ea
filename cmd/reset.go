package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/repository"
)

var resetCmd = &cobra.Command{
	Use:   constants.ResetCmdName + " [commit] [path]",
	Short: "Reset index entries to a commit's snapshot",
	Long: `Bring the index entries at or below path in line with the snapshot of
commit (HEAD when omitted). With --hard the working files follow as well:
files only in the index are deleted and the rest are rewritten.

Each touched path is printed with what happened to it:
  >>> index     copied from the commit into the index
  <<< index     removed from the index
  = <id>        index entry replaced by the commit's version <id>

Examples:
  # Unstage a file
  sit reset -- notes.txt

  # Throw away every change since master
  sit reset --hard master`,
	SilenceUsage: true,
	Args:         maximumArgs(2),
	RunE:         runReset,
}

var hardFlag bool

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVar(&hardFlag, "hard", false, "Also reset the working tree")
}

func runReset(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(true)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	commitID, path, hasPath := splitCommitAndPath(cmd, args)
	if hasPath {
		if path, err = repo.RelativePath(path); err != nil {
			return err
		}
	}

	changes, err := repo.Reset(commitID, path, hardFlag)
	if err != nil {
		return reportError(cmd, err)
	}

	for _, change := range changes {
		if change.Action == repository.ResetOverwritten {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s %s\n", displayPath(repo, change.Path), change.Action, change.ID)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", displayPath(repo, change.Path), change.Action)
	}
	return nil
}
