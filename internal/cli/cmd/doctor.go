package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ravel-dev/weft/internal/cli/styles"
	"github.com/ravel-dev/weft/internal/config"
	"github.com/ravel-dev/weft/internal/history"
	"github.com/ravel-dev/weft/pkg/engine"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check runtime requirements and diagnose issues",
	Long: `Doctor checks prerequisites for running the demo browser:

- GTK4 runtime libraries
- A display server (Wayland or X11)
- A registered rendering engine
- Config and history storage paths`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	var (
		mu      sync.Mutex
		results []styles.CheckResult
	)
	report := func(r styles.CheckResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	// Probes are independent; run them in parallel.
	var g errgroup.Group
	g.Go(func() error { report(checkGTK()); return nil })
	g.Go(func() error { report(checkDisplay()); return nil })
	g.Go(func() error { report(checkEngines()); return nil })
	g.Go(func() error { report(checkConfigDir()); return nil })
	g.Go(func() error { report(checkHistoryDB(app.Config().History.Path)); return nil })
	_ = g.Wait()

	// Stable output order regardless of probe completion order.
	ordered := make([]styles.CheckResult, 0, len(results))
	for _, name := range []string{"gtk4", "display", "engine", "config dir", "history db"} {
		for _, r := range results {
			if r.Name == name {
				ordered = append(ordered, r)
			}
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.Title.Render("weft doctor"))
	fmt.Fprint(cmd.OutOrStdout(), styles.RenderChecks(ordered))

	for _, r := range ordered {
		if !r.OK {
			return fmt.Errorf("%d check(s) failed", countFailed(ordered))
		}
	}
	return nil
}

func countFailed(results []styles.CheckResult) int {
	n := 0
	for _, r := range results {
		if !r.OK {
			n++
		}
	}
	return n
}

func checkGTK() styles.CheckResult {
	out, err := exec.Command("pkg-config", "--modversion", "gtk4").Output()
	if err != nil {
		return styles.CheckResult{Name: "gtk4", Detail: "gtk4 not found via pkg-config"}
	}
	return styles.CheckResult{Name: "gtk4", OK: true, Detail: "version " + strings.TrimSpace(string(out))}
}

func checkDisplay() styles.CheckResult {
	if d := os.Getenv("WAYLAND_DISPLAY"); d != "" {
		return styles.CheckResult{Name: "display", OK: true, Detail: "wayland (" + d + ")"}
	}
	if d := os.Getenv("DISPLAY"); d != "" {
		return styles.CheckResult{Name: "display", OK: true, Detail: "x11 (" + d + ")"}
	}
	return styles.CheckResult{Name: "display", Detail: "neither WAYLAND_DISPLAY nor DISPLAY set"}
}

func checkEngines() styles.CheckResult {
	names := engine.Registered()
	if len(names) == 0 {
		return styles.CheckResult{Name: "engine", Detail: "no rendering engine linked into this build"}
	}
	return styles.CheckResult{Name: "engine", OK: true, Detail: strings.Join(names, ", ")}
}

func checkConfigDir() styles.CheckResult {
	dir, err := config.GetConfigDir()
	if err != nil {
		return styles.CheckResult{Name: "config dir", Detail: err.Error()}
	}
	if err := config.EnsureDirectories(); err != nil {
		return styles.CheckResult{Name: "config dir", Detail: err.Error()}
	}
	return styles.CheckResult{Name: "config dir", OK: true, Detail: dir}
}

func checkHistoryDB(path string) styles.CheckResult {
	app := GetApp()
	db, err := history.NewConnection(app.Ctx(), path)
	if err != nil {
		return styles.CheckResult{Name: "history db", Detail: err.Error()}
	}
	_ = db.Close()
	return styles.CheckResult{Name: "history db", OK: true, Detail: path}
}
