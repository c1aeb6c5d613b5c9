package api

import (
	"context"

	"github.com/ragchat/ragchat/internal/models"
)

// RAGStats fetches document counts and the retrieval index settings
func (c *Client) RAGStats(ctx context.Context) (*models.RAGStats, error) {
	var stats models.RAGStats
	if err := c.getJSON(ctx, models.EndpointStats, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
