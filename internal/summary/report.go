package summary

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aatrey56/wc2022-eda/internal/store"
)

// ReportPath is where WriteReport puts the report inside a report store.
const ReportPath = "reports/summary.json"

// ReportPathFor returns the report location for an output format.
func ReportPathFor(format string) string {
	if format == "yaml" || format == "yml" {
		return "reports/summary.yaml"
	}
	return ReportPath
}

// Failure records a catalogue query that could not run against the loaded
// data, typically because a column is missing.
type Failure struct {
	Name  string `json:"name" yaml:"name"`
	Error string `json:"error" yaml:"error"`
}

type Report struct {
	GeneratedAtUTC string    `json:"generated_at_utc" yaml:"generated_at_utc"`
	LoadedAtUTC    string    `json:"loaded_at_utc" yaml:"loaded_at_utc"`
	GroupRows      int       `json:"group_rows" yaml:"group_rows"`
	TeamRows       int       `json:"team_rows" yaml:"team_rows"`
	Results        []Result  `json:"results" yaml:"results"`
	Failures       []Failure `json:"failures" yaml:"failures"`
}

// BuildReport runs every catalogue query. Only a load failure aborts; a query
// that fails is listed under Failures and the rest still run.
func (c *Catalogue) BuildReport(ctx context.Context) (*Report, error) {
	groups, teams, err := c.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		LoadedAtUTC:    c.cache.LoadedAt().UTC().Format(time.RFC3339),
		GroupRows:      groups.Len(),
		TeamRows:       teams.Len(),
		Results:        make([]Result, 0, len(c.queries)),
		Failures:       make([]Failure, 0),
	}
	for _, q := range c.queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := c.run(q, groups, teams)
		if err != nil {
			c.logger.Warn("report query skipped", zap.String("query", q.Name), zap.Error(err))
			report.Failures = append(report.Failures, Failure{Name: q.Name, Error: err.Error()})
			continue
		}
		report.Results = append(report.Results, res)
	}
	c.logger.Info("report built",
		zap.Int("results", len(report.Results)),
		zap.Int("failures", len(report.Failures)))
	return report, nil
}

// WriteReport persists the report under ReportPathFor(format) and returns
// that path.
func WriteReport(st *store.ReportStore, report *Report, format string) (string, error) {
	rel := ReportPathFor(format)
	if err := st.Write(rel, report); err != nil {
		return "", err
	}
	return rel, nil
}
