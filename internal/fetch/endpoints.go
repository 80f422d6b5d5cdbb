package fetch

import (
	"context"

	"github.com/aatrey56/wc2022-eda/internal/dataset"
)

// /group_stats.csv
func (c *Client) GroupStats(ctx context.Context, force bool) error {
	_, err := c.FetchRaw(ctx, dataset.GroupStageTableName, force)
	return err
}

// /team_data.csv
func (c *Client) TeamData(ctx context.Context, force bool) error {
	_, err := c.FetchRaw(ctx, dataset.TeamStatsTableName, force)
	return err
}

// All fetches both tables, group stage first.
func (c *Client) All(ctx context.Context, force bool) error {
	if err := c.GroupStats(ctx, force); err != nil {
		return err
	}
	return c.TeamData(ctx, force)
}
