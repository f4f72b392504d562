package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kurkanduk/gigabroom/internal/ui"
)

var (
	// Global flags
	debug      bool
	quiet      bool
	configPath string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "gigabroom",
	Short: "Sweep build artifacts and dev caches off your disk",
	Long: `Gigabroom finds and deletes the disk hogs every developer accumulates:
target/, node_modules/, __pycache__/, Gradle and Maven outputs, package
manager caches, and friends.

Scanning is read-only. Nothing is deleted without an explicit clean.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Without a subcommand on a terminal, run the interactive menu.
		if isatty.IsTerminal(os.Stdout.Fd()) {
			return runInteractiveMenu()
		}
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print the final summary")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/gigabroom/config.yaml)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// runInteractiveMenu launches the full-screen main menu and dispatches
// the chosen flow.
func runInteractiveMenu() error {
	for {
		action, err := ui.RunMenu()
		if err != nil {
			return err
		}

		switch action {
		case ui.MenuScanCwd:
			if err := interactiveCleanFlow("."); err != nil {
				return err
			}
		case ui.MenuScanHome:
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("home directory: %w", err)
			}
			if err := interactiveCleanFlow(home); err != nil {
				return err
			}
		case ui.MenuCacheInfo:
			if err := printCacheInfo(os.Stdout); err != nil {
				return err
			}
		case ui.MenuQuit:
			return nil
		}
	}
}
