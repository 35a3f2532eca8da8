package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ravel-dev/weft/internal/cli/styles"
)

var (
	historyJSON bool
	historyMax  int
)

const defaultHistoryMax = 50

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded page visits",
	Long:  `List the demo browser's visit history, most recent first.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVar(&historyMax, "max", defaultHistoryMax, "maximum entries to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	store, err := app.HistoryStore()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}

	visits, err := store.Recent(app.Ctx(), historyMax)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}

	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(visits)
	}

	if len(visits) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), styles.Subtle.Render("no visits recorded"))
		return nil
	}

	for _, v := range visits {
		title := v.Title
		if title == "" {
			title = v.URL
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s\n",
			styles.Subtle.Render(v.LastVisited.Format("2006-01-02 15:04")),
			title,
			styles.ListURL.Render(v.URL))
	}
	return nil
}
