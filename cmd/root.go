package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/josephlewis42/pipesh/core/config"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	command string
)

// loadConfig loads the configuration from --config, or the built-in defaults
// if no directory was given.
func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pipesh",
	Short: "A small interactive shell",
	Long: `An interactive shell that runs pipelines of external programs.

Lines are split into stages on unquoted | characters and each stage runs to
completion before the next starts. cd and exit are built in.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory, built-in defaults are used if empty")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "run a single command line and exit")
}
