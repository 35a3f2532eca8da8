package main

import (
	"os"
	"runtime"

	"github.com/ravel-dev/weft/internal/cli"
	"github.com/ravel-dev/weft/internal/cli/cmd"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// GTK must own the main thread, so the browse command bypasses cobra.
	if len(os.Args) > 1 && os.Args[1] == "browse" {
		runtime.LockOSThread()
		initialURL := ""
		if len(os.Args) > 2 {
			initialURL = os.Args[2]
		}
		os.Exit(cli.RunBrowse(initialURL))
		return
	}

	cmd.SetBuildInfo(cli.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})

	cmd.Execute()
}
