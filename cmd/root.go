package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/logging"
	"github.com/KostasZigo/sit/internal/output"
	"github.com/KostasZigo/sit/internal/repository"
)

// rootCmd defines the base command for the sit CLI.
// All subcommands (init, add, commit, etc.) register under this root.
var rootCmd = &cobra.Command{
	Use:   "sit",
	Short: "A minimal single-branch version control system",
	Long: `Sit is a minimal, single-branch, content-addressable version control system.
It tracks snapshots of a working tree in a hidden .sit directory and offers
add, commit (with amend), status, checkout, log, reset, diff and gc.`,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: closeLogging,
}

var logCloser io.Closer

// Execute runs the root command and handles exit codes.
// Called from main.go to start CLI execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", constants.DefaultLogLevel, "log level: debug, info, warn or error")
	flags.String("log-file", "", "also write debug logs to this file, rotated")
	flags.Bool("compression", true, "zstd-compress new objects")
	flags.Int("compression-level", constants.DefaultCompressionLevel, "zstd level for new objects (1-3)")
	flags.Int("workers", constants.DefaultWorkers, "goroutines used to scan the working tree")

	viper.BindPFlag(constants.LogLevelKey, flags.Lookup("log-level"))
	viper.BindPFlag(constants.LogFileKey, flags.Lookup("log-file"))
	viper.BindPFlag(constants.CompressionKey, flags.Lookup("compression"))
	viper.BindPFlag(constants.CompressionLevelKey, flags.Lookup("compression-level"))
	viper.BindPFlag(constants.WorkersKey, flags.Lookup("workers"))
}

func initConfig() {
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetDefault(constants.LogLevelKey, constants.DefaultLogLevel)
	viper.SetDefault(constants.CompressionKey, true)
	viper.SetDefault(constants.CompressionLevelKey, constants.DefaultCompressionLevel)
	viper.SetDefault(constants.WorkersKey, constants.DefaultWorkers)
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	closer, err := logging.Setup(logging.Options{
		Level:  viper.GetString(constants.LogLevelKey),
		File:   viper.GetString(constants.LogFileKey),
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

func closeLogging(_ *cobra.Command, _ []string) error {
	if logCloser == nil {
		return nil
	}
	return logCloser.Close()
}

// repositoryOptions maps process settings onto repository options.
func repositoryOptions() []repository.Option {
	return []repository.Option{
		repository.WithCompression(viper.GetBool(constants.CompressionKey), viper.GetInt(constants.CompressionLevelKey)),
		repository.WithWorkers(viper.GetInt(constants.WorkersKey)),
	}
}

// openRepository opens the repository containing the current directory.
// Mutating commands pass locked and must Close the result.
func openRepository(locked bool) (*repository.Repository, error) {
	if locked {
		return repository.OpenLocked(".", repositoryOptions()...)
	}
	return repository.Open(".", repositoryOptions()...)
}

// reportError prints reported errors as "Error: ..." and lets the command
// succeed. Fatal errors are returned to cobra with their context appended.
func reportError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	var repoErr *repository.Error
	if !errors.As(err, &repoErr) {
		return err
	}

	if repoErr.Kind == repository.KindReported {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		if repoErr.Context != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", repoErr.Context)
		}
		return nil
	}

	if repoErr.Context != "" {
		return fmt.Errorf("%w (%s)", err, repoErr.Context)
	}
	return err
}

// exactArgs validates command receives exactly n positional arguments.
// enables usage printing in case of error
func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%s command requires exactly %d argument (%s), received %d", cmd.Name(), n, what, len(args))
		}
		return nil
	}
}

// maximumArgs validates command receives at most n positional arguments.
// Returns error with usage help if argument limit exceeded.
func maximumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%s command accepts at most %d arg(s), received %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// repoPaths converts command-line paths into repository-relative ones.
func repoPaths(repo *repository.Repository, args []string) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		rel, err := repo.RelativePath(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, rel)
	}
	return paths, nil
}

// displayPath renders a repository-relative path relative to the current
// directory, falling back to the repository form.
func displayPath(repo *repository.Repository, rel string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return rel
	}
	shown, err := filepath.Rel(cwd, filepath.Join(repo.Root(), filepath.FromSlash(rel)))
	if err != nil {
		return rel
	}
	return filepath.ToSlash(shown)
}

func newStyles(cmd *cobra.Command) *output.Styles {
	return output.NewStyles(cmd.OutOrStdout())
}

// splitCommitAndPath reads "[commit] [path]" arguments. Anything after "--"
// is a path, so "reset -- file" keeps the default commit.
func splitCommitAndPath(cmd *cobra.Command, args []string) (commitID, path string, hasPath bool) {
	commitArgs, pathArgs := args, []string(nil)
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		commitArgs, pathArgs = args[:dash], args[dash:]
	} else if len(args) > 1 {
		commitArgs, pathArgs = args[:1], args[1:]
	}

	if len(commitArgs) > 0 {
		commitID = commitArgs[0]
	}
	if len(pathArgs) > 0 {
		return commitID, pathArgs[0], true
	}
	return commitID, "", false
}
