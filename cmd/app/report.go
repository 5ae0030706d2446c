package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/untibullet/issue-activity-report/internal/controller"
	"github.com/untibullet/issue-activity-report/internal/sink"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the report for a date window as terminal tables",
	Example: `  issue-report summary --data github_issues_data.json
  issue-report summary --start 2024-01-01 --end 2024-01-31 --subgroup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWindow(cmd, sink.NewTerminalSink(os.Stdout))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the report views for a date window as CSV files",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		csvSink, err := sink.NewCSVSink(out)
		if err != nil {
			return err
		}
		if err := runWindow(cmd, csvSink); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", csvSink.Dir())
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{summaryCmd, exportCmd} {
		cmd.Flags().String("start", "", "window start, YYYY-MM-DD (default: first day of data)")
		cmd.Flags().String("end", "", "window end, YYYY-MM-DD (default: last day of data)")
		cmd.Flags().Bool("subgroup", false, "limit user views to the subgroup roster")
	}
	exportCmd.Flags().String("out", "export", "directory for CSV files")
}

// runWindow прогоняет контроллер по окну из флагов и отдает представления в viewSink
func runWindow(cmd *cobra.Command, viewSink controller.ViewSink) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	subgroup, _ := cmd.Flags().GetBool("subgroup")

	st, err := loadStore(cmd.Context())
	if err != nil {
		return err
	}

	ctrl := controller.New(st, viewSink,
		controller.WithTopUsers(cfg.Report.TopUsers),
		controller.WithLogger(logger))

	// флаг без окна только запоминается, отрисовка будет одна
	if err := ctrl.SetSubgroupOnly(subgroup); err != nil {
		return err
	}
	if start == "" && end == "" {
		err = ctrl.Start()
	} else {
		err = ctrl.ApplyDateInputs(start, end)
	}
	if err != nil {
		return err
	}

	logSummary("report rendered", ctrl.State(), ctrl.Views().Summary)
	return nil
}
