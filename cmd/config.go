package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/sit/internal/config"
	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/repository"
)

var configCmd = &cobra.Command{
	Use:   constants.ConfigCmdName,
	Short: "Read and write user settings",
	Long: `Read and write dotted keys such as user.name. Keys are looked up in the
repository's .sit/config first, then in ~/.sitconfig.

Examples:
  sit config set user.name "Alice"
  sit config set --global user.email alice@example.com
  sit config get user.name`,
}

var configGetCmd = &cobra.Command{
	Use:          "get <key>",
	Short:        "Print the value of a key",
	SilenceUsage: true,
	Args:         exactArgs(1, "key"),
	RunE:         runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:          "set <key> <value>",
	Short:        "Store a value for a key",
	SilenceUsage: true,
	Args:         exactArgs(2, "key and value"),
	RunE:         runConfigSet,
}

var globalFlag bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd)

	configCmd.PersistentFlags().BoolVar(&globalFlag, "global", false, "Use ~/.sitconfig instead of the repository config")
}

// userConfig returns the config of the enclosing repository, or a
// global-only config outside one and with --global.
func userConfig() (*config.Config, error) {
	if globalFlag {
		return config.New(""), nil
	}

	root, err := repository.FindRoot(".")
	if err != nil {
		return nil, err
	}
	return config.New(filepath.Join(root, constants.Sit)), nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := userConfig()
	if err != nil {
		return err
	}

	value, err := cfg.Get(args[0])
	if errors.Is(err, config.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), config.NotFound)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := userConfig()
	if err != nil {
		return err
	}

	scope := config.ScopeRepository
	if globalFlag {
		scope = config.ScopeGlobal
	}
	return cfg.Set(scope, args[0], args[1])
}
