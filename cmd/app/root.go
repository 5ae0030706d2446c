package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/untibullet/issue-activity-report/internal/baseline"
	"github.com/untibullet/issue-activity-report/internal/config"
	"github.com/untibullet/issue-activity-report/internal/models"
	"github.com/untibullet/issue-activity-report/internal/repository"
	"github.com/untibullet/issue-activity-report/internal/store"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "issue-report",
	Short:         "Issue tracker activity report",
	Long:          "Builds an interactive activity report from an issue tracker export and refilters it by date window and subgroup.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyReportFlags(cmd, &cfg.Report)
		if err := cfg.Report.Validate(); err != nil {
			return err
		}

		logger, err = initLogger(cfg.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file (default ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().String("data", "", "dataset or collector export JSON (overrides report.data_path)")
	rootCmd.PersistentFlags().String("source", "", "record source: file or postgres (overrides report.source)")
	rootCmd.PersistentFlags().String("as-of", "", "report date for open issues, YYYY-MM-DD (overrides report.as_of)")
	rootCmd.PersistentFlags().String("repository", "", "repository to read from postgres (overrides report.repository)")
	rootCmd.PersistentFlags().StringSlice("roster", nil, "subgroup members (overrides report.subgroup_roster)")
	rootCmd.PersistentFlags().Int("top", 0, "number of users in the ranking (overrides report.top_users)")

	rootCmd.AddCommand(generateCmd, summaryCmd, exportCmd, importCmd, previewCmd)
}

// applyReportFlags переносит явно заданные флаги поверх конфигурации
func applyReportFlags(cmd *cobra.Command, rc *config.ReportConfig) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		rc.DataPath, _ = flags.GetString("data")
	}
	if flags.Changed("source") {
		rc.Source, _ = flags.GetString("source")
	}
	if flags.Changed("as-of") {
		rc.AsOf, _ = flags.GetString("as-of")
	}
	if flags.Changed("repository") {
		rc.Repository, _ = flags.GetString("repository")
	}
	if flags.Changed("roster") {
		rc.SubgroupRoster, _ = flags.GetStringSlice("roster")
	}
	if flags.Changed("top") {
		if top, _ := flags.GetInt("top"); top > 0 {
			rc.TopUsers = top
		}
	}
}

// loadStore загружает хранилище записей из файла или PostgreSQL
func loadStore(ctx context.Context) (*store.Store, error) {
	rc := cfg.Report

	var (
		st  *store.Store
		err error
	)
	switch rc.Source {
	case config.SourcePostgres:
		st, err = loadStoreFromPostgres(ctx, rc.Repository)
	default:
		st, err = loadStoreFromFile(rc)
	}
	if err != nil {
		return nil, err
	}

	if len(rc.SubgroupRoster) > 0 {
		ds := st.Dataset()
		ds.Roster = rc.SubgroupRoster
		if st, err = store.New(ds); err != nil {
			return nil, err
		}
	}

	meta := st.Metadata()
	logger.Info("dataset loaded",
		zap.String("source", rc.Source),
		zap.String("repository", meta.Repository),
		zap.Int("issues", len(st.Issues())),
		zap.Int("users", len(st.UserActivity())),
		zap.Int("days", len(st.DailyActivity())),
		zap.Strings("roster", st.Roster()))

	return st, nil
}

// loadStoreFromFile читает датасет или сырую выгрузку; для выгрузки учитываются as_of и состав подгруппы
func loadStoreFromFile(rc config.ReportConfig) (*store.Store, error) {
	asOf, err := rc.AsOfDate()
	if err != nil {
		return nil, err
	}
	return store.LoadFile(rc.DataPath, baseline.Options{AsOf: asOf, Roster: rc.SubgroupRoster})
}

func loadStoreFromPostgres(ctx context.Context, name string) (*store.Store, error) {
	pool, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	repo := repository.New(pool)
	if name == "" {
		names, err := repo.ListRepositories(ctx)
		if err != nil {
			return nil, err
		}
		if len(names) != 1 {
			return nil, fmt.Errorf("report.repository must be set: %d reports in database", len(names))
		}
		name = names[0]
	}

	ds, err := repo.LoadDataset(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load report %q: %w", name, err)
	}
	return store.New(ds)
}

// logSummary пишет в лог сводку текущих представлений
func logSummary(msg string, state models.FilterState, s models.SummaryCounters) {
	logger.Info(msg,
		zap.String("start", state.StartDate.String()),
		zap.String("end", state.EndDate.String()),
		zap.Bool("subgroup_only", state.SubgroupOnly),
		zap.Int("total_issues", s.Total),
		zap.Int("open_issues", s.Open),
		zap.Int("closed_issues", s.Closed),
		zap.Int("total_comments", s.TotalComments),
		zap.Int("active_people", s.ActivePeople))
}
