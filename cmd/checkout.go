package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
)

var checkoutCmd = &cobra.Command{
	Use:   constants.CheckoutCmdName + " [commit] [path]",
	Short: "Restore files from a commit or the index",
	Long: `Without a path, replace the index with the snapshot of commit, write every
file of it into the working tree and move HEAD there. This refuses to run
while something is staged.

With a path, only the files at or below path are written, taken from commit or,
when commit is "" or omitted, from the index. The index and HEAD are not changed.

Examples:
  # Move HEAD to an older commit
  sit checkout 3f2a

  # Restore a file from the index
  sit checkout -- src/main.go`,
	SilenceUsage: true,
	Args:         maximumArgs(2),
	RunE:         runCheckout,
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
}

func runCheckout(cmd *cobra.Command, args []string) error {
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
		// The repository root still selects a path checkout.
		if path == "" {
			path = "./"
		}
	}

	written, err := repo.Checkout(commitID, path)
	if err != nil {
		return reportError(cmd, err)
	}

	if path == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", newStyles(cmd).ID(commitID))
		return nil
	}
	for _, p := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "%s checked out.\n", displayPath(repo, p))
	}
	return nil
}
