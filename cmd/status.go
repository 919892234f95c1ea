package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/diff"
	"github.com/KostasZigo/sit/internal/output"
	"github.com/KostasZigo/sit/internal/repository"
)

var statusCmd = &cobra.Command{
	Use:   constants.StatusCmdName,
	Short: "Show staged, unstaged and untracked changes",
	Long: `Compare HEAD's snapshot with the index, and the index with the working
tree, and list the differences along with files the index does not track.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	repo, err := openRepository(false)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	status, err := repo.Status()
	if err != nil {
		return reportError(cmd, err)
	}

	printStatus(cmd.OutOrStdout(), repo, status, newStyles(cmd))
	return nil
}

func printStatus(w io.Writer, repo *repository.Repository, status *repository.Status, styles *output.Styles) {
	fmt.Fprintln(w, "On branch: master")
	if status.Detached {
		fmt.Fprintf(w, "HEAD detached at %s\n", status.Head)
	}

	if status.Clean() {
		fmt.Fprintln(w, "Nothing to commit, working directory clean")
		return
	}

	if len(status.ToBeCommitted) > 0 {
		fmt.Fprintln(w, "Changes to be committed:")
		fmt.Fprintln(w, `  (Use "sit reset -- <file>" to unstage)`)
		fmt.Fprintln(w)
		for _, change := range status.ToBeCommitted {
			fmt.Fprintln(w, styles.Staged(statusLine(repo, change)))
		}
		fmt.Fprintln(w)
	}

	if len(status.NotStaged) > 0 {
		fmt.Fprintln(w, "Changes not staged for commit:")
		fmt.Fprintln(w, `  (Use "sit add <file>..." to update what will be committed)`)
		fmt.Fprintln(w)
		for _, change := range status.NotStaged {
			fmt.Fprintln(w, styles.Unstaged(statusLine(repo, change)))
		}
		fmt.Fprintln(w)
	}

	if len(status.Untracked) > 0 {
		fmt.Fprintln(w, "Untracked files:")
		fmt.Fprintln(w, `  (Use "sit add <file>..." to include in what will be committed)`)
		fmt.Fprintln(w)
		for _, path := range status.Untracked {
			fmt.Fprintln(w, styles.ID("        "+displayPath(repo, path)))
		}
		fmt.Fprintln(w)
	}
}

func statusLine(repo *repository.Repository, change diff.Change) string {
	var label string
	switch change.Status {
	case diff.Added:
		label = "New File:   "
	case diff.Modified:
		label = "Modified:   "
	case diff.Deleted:
		label = "Deleted:    "
	}
	return "        " + label + displayPath(repo, change.Path)
}
