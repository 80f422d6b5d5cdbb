package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aatrey56/wc2022-eda/internal/store"
	"github.com/aatrey56/wc2022-eda/internal/summary"
)

var (
	reportFormat string
	reportOut    string

	queryFormat string

	topTable  string
	topColumn string
	topN      int
	topAsc    bool
	topFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every catalogue query and write the summary report",
	Long: `Runs the full catalogue against the loaded tables. A failing query is
recorded in the report's failures list; only a load failure aborts.

The report goes to <derived_root>/reports/summary.json unless --out is
given. Use --out - to print it.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var queryCmd = &cobra.Command{
	Use:   "query <name>",
	Short: "Run one named query",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the named queries",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Top N teams of a table by any numeric column",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", formatJSON, "Output format: json|yaml")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output path (- for stdout)")

	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", formatJSON, "Output format: json|yaml")

	topCmd.Flags().StringVar(&topTable, "table", summary.TeamStats, "group_stage or team_stats")
	topCmd.Flags().StringVar(&topColumn, "column", "", "Numeric column to rank by (required)")
	topCmd.Flags().IntVarP(&topN, "limit", "n", 5, "Rows to return")
	topCmd.Flags().BoolVar(&topAsc, "asc", false, "Smallest values first")
	topCmd.Flags().StringVarP(&topFormat, "format", "f", formatJSON, "Output format: json|yaml")
	_ = topCmd.MarkFlagRequired("column")
}

func runReport(cmd *cobra.Command, args []string) error {
	cat, closeSrc, err := openCatalogue()
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	report, err := cat.BuildReport(cmd.Context())
	if err != nil {
		return err
	}
	if reportOut == "" {
		if reportFormat != formatJSON && reportFormat != formatYAML {
			return fmt.Errorf("unknown format %q (want json or yaml)", reportFormat)
		}
		st := store.NewReportStore(cfg.Data.DerivedRoot)
		rel, err := summary.WriteReport(st, report, reportFormat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", st.Path(rel))
		return nil
	}
	return writeOutput(cmd, reportOut, reportFormat, report)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cat, closeSrc, err := openCatalogue()
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	res, err := cat.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return encode(cmd.OutOrStdout(), queryFormat, res)
}

func runList(cmd *cobra.Command, args []string) error {
	cat, closeSrc, err := openCatalogue()
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTABLE\tCOLUMN\tTITLE")
	for _, q := range cat.Queries() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.Name, q.Table, q.Column, q.Title)
	}
	return w.Flush()
}

func runTop(cmd *cobra.Command, args []string) error {
	cat, closeSrc, err := openCatalogue()
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	res, err := cat.RunAdhoc(cmd.Context(), summary.AdhocQuery{
		Table:      topTable,
		Op:         summary.OpTopN,
		Column:     topColumn,
		N:          topN,
		Descending: !topAsc,
	})
	if err != nil {
		return err
	}
	return encode(cmd.OutOrStdout(), topFormat, res)
}
