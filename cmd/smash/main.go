package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/obentoo/smash/internal/common/config"
	"github.com/obentoo/smash/internal/common/git"
	"github.com/obentoo/smash/internal/common/logger"
	"github.com/obentoo/smash/internal/common/output"
	"github.com/obentoo/smash/internal/common/prompt"
	"github.com/obentoo/smash/internal/common/version"
	"github.com/obentoo/smash/internal/smash"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	logFile bool
	workDir string
)

var rootCmd = &cobra.Command{
	Use:   "smash [branch]",
	Short: "Rebase the current branch, force-push it, and merge it back",
	Long: `Rebase the current branch onto <branch> (default: master) and push it.

smash checks out <branch> and fast-forwards it from its upstream, returns to
the current branch and starts an interactive rebase onto it, then force-pushes
the result. It then asks whether to fast-forward <branch> to the rebased
branch and push it; only "y" says yes.

Any failing step stops the run where it is. Nothing is rolled back.

The default branch can be changed globally in ~/.config/smash/config.yaml
(branch.default) or per repository in .smash.toml (default_branch).`,
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
			output.Quiet()
		}
		if noColor {
			output.NoColor()
		}
	},
	Run: runSmash,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&logFile, "log-file", false, "Also write a log file under $XDG_STATE_HOME/smash/logs")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Run as if smash was started in this directory")

	rootCmd.SetVersionTemplate(version.Info() + "\n")
}

// defaultBranchResolver lets .smash.toml in the repository override the global default
func defaultBranchResolver(cfg *config.Config) smash.DefaultBranchFunc {
	return func(root string) (string, error) {
		rc, err := config.LoadRepoConfig(root)
		if err != nil {
			return "", err
		}
		return cfg.DefaultBranchFor(rc), nil
	}
}

func rotation(cfg *config.Config) logger.Rotation {
	return logger.Rotation{
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}
}

func exit(code int) {
	logger.Close()
	os.Exit(code)
}

// newConfirmer asks on the process terminal
var newConfirmer = func() prompt.Confirmer {
	return prompt.NewConfirmer(os.Stdin, os.Stdout)
}

func runSmash(cmd *cobra.Command, args []string) {
	exit(run(args))
}

// run executes one smash run and returns the process exit code.
// A declined merge is a success.
func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config: %v", err)
		return 1
	}

	if cfg.Log.File || logFile {
		if err := logger.Default().EnableFileLogging(rotation(cfg)); err != nil {
			logger.Warn("file logging disabled: %v", err)
		}
	}

	runner := git.NewGitRunner(workDir)
	smasher := smash.New(runner, newConfirmer(),
		smash.WithDefaultBranch(defaultBranchResolver(cfg)))

	if _, err := smasher.Run(args); err != nil {
		logger.Error("%v", err)

		var stepErr *smash.StepError
		if errors.As(err, &stepErr) {
			if cause := stepErr.Unwrap(); cause != nil {
				logger.Debug("cause: %v", cause)
			}
			if hint := stepErr.Hint(); hint != "" {
				logger.Info("hint: %s", hint)
			}
		}
		return 1
	}

	return 0
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
