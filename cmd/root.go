package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gosh-shell/gosh/core/config"
	"github.com/gosh-shell/gosh/core/interp"
	"github.com/gosh-shell/gosh/core/repl"
)

var (
	cfgPath     string
	commandLine string
)

// rootCmd starts the interactive shell, or runs a single line with -c.
var rootCmd = &cobra.Command{
	Use:           "gosh",
	Short:         "A small interactive command interpreter",
	Long:          `gosh reads command lines, resolves them against built-ins and $PATH, and executes pipelines with file redirection.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(afero.NewOsFs(), cfgPath)
		if err != nil {
			return err
		}

		in := interp.New()
		if cfg.Path != "" {
			in.Getenv = pathOverride(cfg.Path, in.Getenv)
		}

		if commandLine != "" {
			status := in.Execute(commandLine)
			if in.ExitRequested {
				status = in.ExitCode
			}
			os.Exit(status)
		}

		r, err := repl.New(in, cfg)
		if err != nil {
			return err
		}
		os.Exit(r.Run())
		return nil
	},
}

// pathOverride substitutes the configured search path for $PATH while
// leaving every other variable alone.
func pathOverride(path string, getenv func(string) string) func(string) string {
	return func(key string) string {
		if key == interp.EnvPath {
			return path
		}
		return getenv(key)
	}
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "gosh")
}

// Execute runs the root command. It is called once from main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigDir(), "config directory")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
}
