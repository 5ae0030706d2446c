package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/untibullet/issue-activity-report/internal/controller"
	"github.com/untibullet/issue-activity-report/internal/webapp"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the interactive report as a static site",
	Long: `Generates the single-page report into the output directory. The page loads
web/report.json and refilters it in the browser; web/app.wasm is built with
GOARCH=wasm GOOS=js go build -o app.wasm ./cmd/web and copied with --wasm.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := &cfg.Report
		if cmd.Flags().Changed("output") {
			rc.OutputDir, _ = cmd.Flags().GetString("output")
		}
		if cmd.Flags().Changed("wasm") {
			rc.WasmPath, _ = cmd.Flags().GetString("wasm")
		}
		if cmd.Flags().Changed("title") {
			rc.Title, _ = cmd.Flags().GetString("title")
		}

		st, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		// первичный вид страницы, чтобы сводка попала в лог
		ctrl := controller.New(st, controller.Discard,
			controller.WithTopUsers(rc.TopUsers),
			controller.WithLogger(logger))
		if err := ctrl.Start(); err != nil {
			return err
		}
		logSummary("initial view", ctrl.State(), ctrl.Views().Summary)

		if rc.WasmPath == "" {
			logger.Warn("no wasm module given, web/app.wasm must be provided separately")
		}

		webapp.Routes()
		payload := webapp.NewPayload(st, rc.Title, rc.SubgroupLabel, rc.TopUsers)
		if err := webapp.Generate(rc.OutputDir, payload, rc.WasmPath); err != nil {
			return err
		}

		logger.Info("report generated", zap.String("output_dir", rc.OutputDir))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "output directory (overrides report.output_dir)")
	generateCmd.Flags().String("wasm", "", "compiled web/app.wasm to copy into the site")
	generateCmd.Flags().String("title", "", "page title (overrides report.title)")
}
