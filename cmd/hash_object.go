package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/objects"
)

var hashObjectCmd = &cobra.Command{
	Use:   constants.HashObjectCmdName + " <filepath>",
	Short: "Compute object hash and optionally store a blob from a file",
	Long: `Compute the object id (SHA-1 of the raw content) for a file.
Optionally write the resulting blob into the object store.

Examples:
  # Compute hash without storing
  sit hash-object myfile.txt

  # Compute hash and store in .sit/objects
  sit hash-object -w myfile.txt`,
	SilenceUsage: true,
	Args:         exactArgs(1, "filepath"),
	RunE:         runHashObject,
}

var writeFlag bool

func init() {
	rootCmd.AddCommand(hashObjectCmd)

	// Add flag using Cobra's flag system
	hashObjectCmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "Write the object into the objects folder")
}

// runHashObject computes hash and optionally stores blob object.
func runHashObject(cmd *cobra.Command, args []string) error {
	blob, err := objects.NewBlobFromFile(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), blob.Hash())

	if !writeFlag {
		return nil
	}

	repo, err := openRepository(true)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	if err := repo.Store().Store(blob); err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}
