package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/repository"
	"github.com/KostasZigo/sit/utils"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new sit repository",
	Long: `The 'init' command sets up a new sit repository in the current directory.
It creates a .sit directory holding the object store, the master ref, HEAD,
the index and the repository config.
If a repository already exists, the command will not overwrite existing data.`,
	SilenceUsage: true,
	Args:         maximumArgs(1),
	RunE:         runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// runInit executes repository initialization at specified or current directory.
func runInit(cmd *cobra.Command, args []string) error {
	dirPath := "."
	if len(args) > 0 {
		dirPath = args[0]
	}

	if err := repository.Init(dirPath); err != nil {
		return fmt.Errorf("failed to initialize repository - %w", err)
	}

	cmd.Printf("Initialized empty sit repository in %s\n", utils.BuildDirPath(dirPath, constants.Sit))
	return nil
}
