package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/untibullet/issue-activity-report/internal/repository"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a dataset or collector export into PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		replace, _ := cmd.Flags().GetBool("replace")

		st, err := loadStoreFromFile(cfg.Report)
		if err != nil {
			return err
		}
		ds := st.Dataset()
		if cfg.Report.Repository != "" {
			ds.Metadata.Repository = cfg.Report.Repository
		}

		pool, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("database connection established")

		repo := repository.New(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}

		id, err := repo.ImportDataset(ctx, ds, replace)
		if err != nil {
			return err
		}

		logger.Info("dataset imported",
			zap.Int64("report_id", id),
			zap.String("repository", ds.Metadata.Repository),
			zap.Int("issues", len(ds.Issues)),
			zap.Bool("replaced", replace))
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("replace", false, "replace an existing report of the same repository")
}
