package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/existflow/timelog/internal/report"
	"github.com/existflow/timelog/internal/timer"
)

var (
	reportAll   bool
	reportDaily bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show tracked time per project",
	Long: `Summarize the full record history per project.

Examples:
  timelog report
  timelog report --daily
  timelog report --records`,
	RunE: runReport,
}

var (
	reportHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	reportTotalStyle  = lipgloss.NewStyle().Bold(true)
	reportMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func init() {
	reportCmd.Flags().BoolVar(&reportAll, "records", false, "List every record instead of totals")
	reportCmd.Flags().BoolVar(&reportDaily, "daily", false, "Group totals by day instead of project")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.store.ListRecords(context.Background())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No records yet. Start one with: timelog start <project>")
		return nil
	}

	now := time.Now()

	if reportAll {
		fmt.Println(reportHeaderStyle.Render(fmt.Sprintf("%-12s %-12s %-20s %-20s %s",
			"PROJECT", "TASK", "START", "END", "DURATION")))
		for _, rec := range records {
			end := reportMutedStyle.Render("running")
			if rec.End != nil {
				end = rec.End.Local().Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%-12s %-12s %-20s %-20s %s\n",
				rec.Project, rec.Task,
				rec.Start.Local().Format("2006-01-02 15:04:05"),
				end,
				timer.FormatDuration(rec.Duration(now)))
		}
		return nil
	}

	if reportDaily {
		days := report.SummarizeByDay(records, now)
		fmt.Println(reportHeaderStyle.Render(fmt.Sprintf("%-12s %8s %12s", "DAY", "RECORDS", "TOTAL")))
		for _, dt := range days {
			fmt.Printf("%-12s %8d %12s\n", dt.Day, dt.Records, timer.FormatDuration(dt.Total))
		}
		return nil
	}

	summary := report.Summarize(records, now)

	fmt.Println(reportHeaderStyle.Render(fmt.Sprintf("%-16s %8s %12s", "PROJECT", "RECORDS", "TOTAL")))
	for _, pt := range summary.Projects {
		fmt.Printf("%-16s %8d %12s\n", pt.Project, pt.Records, timer.FormatDuration(pt.Total))
	}
	fmt.Println(reportTotalStyle.Render(fmt.Sprintf("%-16s %8d %12s",
		"TOTAL", len(records), timer.FormatDuration(summary.Total))))
	return nil
}
