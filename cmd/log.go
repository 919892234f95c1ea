package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/output"
	"github.com/KostasZigo/sit/internal/repository"
)

var logCmd = &cobra.Command{
	Use:   constants.LogCmdName + " [id|master]",
	Short: "Show commit history",
	Long: `Show master's history newest first, or a single commit when an id is given.`,
	SilenceUsage: true,
	Args:         maximumArgs(1),
	RunE:         runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(false)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	id := "master"
	if len(args) > 0 {
		id = args[0]
	}

	entries, err := repo.Log(id)
	if err != nil {
		return reportError(cmd, err)
	}

	styles := newStyles(cmd)
	for _, entry := range entries {
		printLogEntry(cmd.OutOrStdout(), entry, styles)
	}
	return nil
}

func printLogEntry(w io.Writer, entry repository.LogEntry, styles *output.Styles) {
	fmt.Fprintln(w, styles.ID("Commit "+entry.ID))
	fmt.Fprintf(w, "Author: %s\n\n", entry.Commit.Author())
	for line := range strings.Lines(entry.Commit.Message()) {
		fmt.Fprintf(w, "    %s\n", strings.TrimSuffix(line, "\n"))
	}
}
