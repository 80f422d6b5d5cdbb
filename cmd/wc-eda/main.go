// Command wc-eda loads the World Cup 2022 tables and answers the catalogue
// of tournament statistics from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/aatrey56/wc2022-eda/internal/config"
	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/logging"
	"github.com/aatrey56/wc2022-eda/internal/store"
	"github.com/aatrey56/wc2022-eda/internal/summary"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wc-eda",
	Short: "World Cup 2022 group-stage and team statistics",
	Long: `wc-eda reads the group-stage table (group_stats) and the tournament
team statistics (team_data), then answers named questions about them:
most wins, qualifiers per group, top passers, penalties won and so on.

Data comes from CSV files under data.raw_root or from a SQLite database
(data.source: sqlite). Settings load from wc-eda.yaml and WC_* env vars.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(importCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openCatalogue wires the configured source into a lazily loaded catalogue.
// The returned func closes the source.
func openCatalogue() (*summary.Catalogue, func() error, error) {
	src, closeSrc, err := store.Open(cfg.Data.Source, cfg.Data.RawRoot, cfg.Data.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	cache := dataset.NewCache(dataset.NewLoader(src, logger))
	return summary.NewCatalogue(cache, logger), closeSrc, nil
}

// Output formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON, "":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		b = append(b, '\n')
		_, err = w.Write(b)
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want json or yaml)", format)
}

// writeOutput encodes v to path, or to the command's stdout when path is "-".
func writeOutput(cmd *cobra.Command, path, format string, v any) error {
	if path == "-" {
		return encode(cmd.OutOrStdout(), format, v)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, format, v); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}
