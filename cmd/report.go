package cmd

import (
	"github.com/huangsam/cyclereport/core"
	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/internal/history"
	"github.com/huangsam/cyclereport/internal/linear"
	"github.com/huangsam/cyclereport/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd builds the cycle report for one quarter.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the per-cycle report for a quarter.",
	Long: `Fetch every cycle that ended in the quarter and report one row per cycle.

Each row carries:
- Total and completed issues at the end of the cycle
- Completion percentage (completed / total)
- Scope change (issues added or removed after the cycle started)
- Capacity accuracy (completed / originally planned), or N/A when nothing was planned

Cycles that have not ended yet are skipped. Rows are sorted by team name,
then by cycle number with the newest cycle first.

The API key is read from LINEAR_API_KEY (or CYCLEREPORT_API_KEY, or --api-key).

Examples:
  # Report the current quarter to cycle-report-<QUARTER>.csv
  cyclereport report

  # Report a past quarter for teams starting with "Eng"
  cyclereport report --quarter Q22026 --team-prefix Eng

  # Write JSON and also print it
  cyclereport report --output json --print

  # Keep every run in a local SQLite history
  cyclereport report --history-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client := linear.NewClient(rootCtx, cfg.Endpoint, cfg.APIKey, cfg.Timeout)
		if err := core.ExecuteCycleReport(rootCtx, cfg, client, outwriter.NewOutWriter(), history.Manager); err != nil {
			contract.LogFatal("Cannot run cycle report", err)
		}
	},
}
