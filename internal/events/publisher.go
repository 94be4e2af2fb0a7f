package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jrosariodev/dealscout/internal/models"
)

// StreamDealsScraped receives one event per scraped deal.
const StreamDealsScraped = "stream:deals_scraped"

// RedisClient interface for Redis operations (for testing)
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// DealScrapedEvent is the payload published for every deal a run produces.
type DealScrapedEvent struct {
	ID        uuid.UUID    `json:"id"`
	RunID     uuid.UUID    `json:"run_id"`
	Site      string       `json:"site"`
	Deal      *models.Deal `json:"deal"`
	Timestamp time.Time    `json:"timestamp"`
}

// Publisher writes scrape results to a Redis stream so downstream
// consumers (alerting, price history) can pick them up.
type Publisher struct {
	redis  RedisClient
	logger *slog.Logger
	stream string
}

func NewPublisher(client RedisClient, logger *slog.Logger) *Publisher {
	return &Publisher{
		redis:  client,
		logger: logger.With("component", "publisher"),
		stream: StreamDealsScraped,
	}
}

// PublishDeals emits one event per deal under a shared run id. Individual
// publish failures are logged and counted, not fatal: a partial run is
// still worth delivering.
func (p *Publisher) PublishDeals(ctx context.Context, site string, deals []*models.Deal) (uuid.UUID, error) {
	runID := uuid.New()

	var failed int
	for _, deal := range deals {
		event := &DealScrapedEvent{
			ID:        uuid.New(),
			RunID:     runID,
			Site:      site,
			Deal:      deal,
			Timestamp: time.Now().UTC(),
		}
		if err := p.publish(ctx, event); err != nil {
			p.logger.Error("failed to publish deal event",
				"event_id", event.ID,
				"run_id", runID,
				"site", site,
				"url", deal.URL,
				"error", err)
			failed++
		}
	}

	p.logger.Info("published scrape run",
		"run_id", runID,
		"site", site,
		"total", len(deals),
		"failed", failed)

	if failed == len(deals) && len(deals) > 0 {
		return runID, fmt.Errorf("all %d events failed to publish", failed)
	}
	return runID, nil
}

func (p *Publisher) publish(ctx context.Context, event *DealScrapedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":       string(data),
			"event_id":   event.ID.String(),
			"run_id":     event.RunID.String(),
			"site":       event.Site,
			"event_type": "DEAL_SCRAPED",
			"timestamp":  fmt.Sprintf("%d", event.Timestamp.UnixNano()),
		},
	}

	if _, err := p.redis.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.redis.Close()
}
