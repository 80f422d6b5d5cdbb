package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/fetch"
	"github.com/aatrey56/wc2022-eda/internal/reconcile"
	"github.com/aatrey56/wc2022-eda/internal/store"
)

var (
	validateStrict bool
	validateOut    string

	fetchBaseURL string
	fetchForce   bool

	importDB string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the loaded tables for arithmetic and consistency problems",
	Long: `Checks each group-stage row (wins+draws+losses = 3, points = 3*wins+draws),
goalkeeper results against games, possession range, negative counts,
duplicate teams and teams missing from one of the two tables.

The report goes to <derived_root>/reports/validation.json unless --out is
given. With --strict any issue fails the command.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download group_stats.csv and team_data.csv into raw_root",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

var importCmd = &cobra.Command{
	Use:   "import-sqlite",
	Short: "Copy the raw CSV tables into a SQLite database",
	Long: `Reads both raw tables from raw_root and stores them in the SQLite
database used by data.source: sqlite. Existing tables are replaced.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail when any issue is found")
	validateCmd.Flags().StringVarP(&validateOut, "out", "o", "", "Output path (- for stdout)")

	fetchCmd.Flags().StringVar(&fetchBaseURL, "base-url", "", "Base URL serving <table>.csv (default fetch.base_url)")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "Download even when a local copy exists")

	importCmd.Flags().StringVar(&importDB, "db", "", "SQLite database path (default data.sqlite_path)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cat, closeSrc, err := openCatalogue()
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	groups, teams, err := cat.Tables(cmd.Context())
	if err != nil {
		return err
	}
	report := reconcile.BuildReport(groups, teams)
	for _, issue := range report.Issues {
		logger.Warn("validation issue",
			zap.String("table", issue.Table),
			zap.String("team", issue.Team),
			zap.String("check", issue.Check),
			zap.String("detail", issue.Detail))
	}

	switch validateOut {
	case "-":
		if err := encode(cmd.OutOrStdout(), formatJSON, report); err != nil {
			return err
		}
	default:
		path := validateOut
		if path == "" {
			path = filepath.Join(cfg.Data.DerivedRoot, "reports", "validation.json")
		}
		if err := reconcile.WriteReport(path, report); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	}

	if validateStrict && !report.OK() {
		return fmt.Errorf("validation found %d issue(s)", len(report.Issues))
	}
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	base := fetchBaseURL
	if base == "" {
		base = cfg.Fetch.BaseURL
	}
	client := fetch.NewClient(store.NewCSVStore(cfg.Data.RawRoot), base, logger)
	client.HTTP.Timeout = cfg.FetchTimeout()
	if err := client.All(cmd.Context(), fetchForce); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "raw tables ready in", cfg.Data.RawRoot)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	path := importDB
	if path == "" {
		path = cfg.Data.SQLitePath
	}
	src := store.NewCSVStore(cfg.Data.RawRoot)
	dst, err := store.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	for _, name := range []string{dataset.GroupStageTableName, dataset.TeamStatsTableName} {
		t, err := src.ReadTable(cmd.Context(), name)
		if err != nil {
			return err
		}
		if err := dst.WriteTable(cmd.Context(), t); err != nil {
			return err
		}
		logger.Info("imported table",
			zap.String("table", name),
			zap.Int("rows", len(t.Records)),
			zap.String("db", path))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "imported into", path)
	return nil
}
