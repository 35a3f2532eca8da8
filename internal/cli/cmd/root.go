// Package cmd provides Cobra CLI commands for weft.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ravel-dev/weft/internal/cli"
)

var (
	app       *cli.App
	buildInfo cli.BuildInfo
	rootCmd   = &cobra.Command{
		Use:   "weft",
		Short: "Embed a web rendering engine as a GTK4 widget",
		Long: `Weft bridges an embeddable web rendering engine into GTK4.

The library lives under pkg/ and internal/; this binary is the demo
browser plus supporting commands.

Use 'weft browse' to launch the demo browser, 'weft doctor' to check the
runtime environment, and 'weft history' to inspect recorded visits.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// browseCmd is a placeholder for help - actual execution is in main.go,
// which must own the main thread before GTK starts.
var browseCmd = &cobra.Command{
	Use:   "browse [url]",
	Short: "Launch the demo browser",
	Long: `Launch the GTK4 demo browser.

If a URL is provided, navigate to it. Otherwise, open the configured
homepage.`,
	Run: func(_ *cobra.Command, _ []string) {
		// Handled by main.go before cobra runs.
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info cli.BuildInfo) {
	buildInfo = info
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s, %s)",
		info.Version, info.Commit, info.BuildDate, info.GoVersion)
}
