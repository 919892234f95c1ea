package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
)

var addCmd = &cobra.Command{
	Use:   constants.AddCmdName + " <path>...",
	Short: "Stage files for the next commit",
	Long: `Store the content of every regular file at or below each path and record
it in the index. Files above 100 MiB are staged with a warning; a file above
200 MiB aborts the command before anything is staged.`,
	SilenceUsage: true,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(true)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	paths, err := repoPaths(repo, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range paths {
		report, err := repo.Add(path)
		if err != nil {
			return reportError(cmd, err)
		}
		for _, large := range report.Large {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is larger than 100 MiB\n", displayPath(repo, large))
		}
		for _, failed := range report.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: failed to add %s: %v\n", displayPath(repo, failed.Path), failed.Err)
		}
		for _, entry := range report.Added {
			fmt.Fprintf(out, "%s added.\n", displayPath(repo, entry.Path))
		}
	}
	return nil
}
