package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/refs"
)

var catFileCmd = &cobra.Command{
	Use:   constants.CatFileCmdName + " <id>",
	Short: "Print the raw content of a stored object",
	Long: `Print the exact bytes stored under an object id. The id may be
abbreviated as long as it is unambiguous.`,
	SilenceUsage: true,
	Args:         exactArgs(1, "object id"),
	RunE:         runCatFile,
}

func init() {
	rootCmd.AddCommand(catFileCmd)
}

func runCatFile(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(false)
	if err != nil {
		return reportError(cmd, err)
	}
	defer repo.Close()

	id, err := refs.Complete(repo.Store(), args[0])
	if err != nil {
		return err
	}

	data, err := repo.Store().Get(id)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
