package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/timelog/internal/timer"
)

var startCmd = &cobra.Command{
	Use:   "start <project> [task]",
	Short: "Start (or switch) the timer",
	Long: `Start tracking a project. A running timer is stopped first.

Without a task argument the project's configured default task is used.

Examples:
  timelog start KP
  timelog start KP KP-7`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer",
	RunE:  runStop,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current timer",
	RunE:  runStatus,
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	task := ""
	if len(args) > 1 {
		task = args[1]
	}

	rec, err := a.engine.Start(context.Background(), args[0], task)
	if err != nil {
		return err
	}

	fmt.Printf("▶ Tracking %s (%s) since %s\n",
		rec.Project, rec.Task, rec.Start.Local().Format("15:04:05"))
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.engine.Stop(context.Background())
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Println("No timer is running.")
		return nil
	}

	fmt.Printf("■ Stopped %s (%s) after %s\n",
		rec.Project, rec.Task, timer.FormatDuration(rec.Duration(*rec.End)))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.engine.Current(context.Background())
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Println("No timer is running.")
		return nil
	}

	fmt.Printf("▶ %s (%s) %s elapsed, started %s\n",
		rec.Project, rec.Task,
		timer.FormatDuration(a.engine.Elapsed(rec)),
		rec.Start.Local().Format("15:04:05"))
	return nil
}
