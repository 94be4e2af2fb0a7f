package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jrosariodev/dealscout/internal/models"
)

// UpsertDeal inserts a deal or refreshes an existing row for the same URL.
// Rows are keyed by listing URL so repeated runs update prices in place.
func (db *DB) UpsertDeal(ctx context.Context, site string, deal *models.Deal) error {
	payload, err := json.Marshal(deal)
	if err != nil {
		return fmt.Errorf("failed to marshal deal: %w", err)
	}

	_, err = db.pool.Exec(ctx, upsertDealQuery,
		uuid.New(), site, deal.URL, deal.Title, deal.Brand, string(deal.Category),
		string(deal.Condition), deal.Price, deal.Currency, deal.Location, payload, deal.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert deal: %w", err)
	}
	return nil
}

const upsertDealQuery = `
	INSERT INTO deals (id, site, url, title, brand, category, condition, price, currency, location, payload, scraped_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (url) DO UPDATE SET
		title = EXCLUDED.title,
		brand = EXCLUDED.brand,
		category = EXCLUDED.category,
		condition = EXCLUDED.condition,
		price = EXCLUDED.price,
		currency = EXCLUDED.currency,
		location = EXCLUDED.location,
		payload = EXCLUDED.payload,
		scraped_at = EXCLUDED.scraped_at,
		updated_at = CURRENT_TIMESTAMP`

// UpsertDeals stores a scrape run's deals for one site in a single
// transaction, so a partially failed run leaves no partial rows.
func (db *DB) UpsertDeals(ctx context.Context, site string, deals []*models.Deal) error {
	return db.Transaction(ctx, func(tx pgx.Tx) error {
		for _, deal := range deals {
			payload, err := json.Marshal(deal)
			if err != nil {
				return fmt.Errorf("failed to marshal deal: %w", err)
			}
			_, err = tx.Exec(ctx, upsertDealQuery,
				uuid.New(), site, deal.URL, deal.Title, deal.Brand, string(deal.Category),
				string(deal.Condition), deal.Price, deal.Currency, deal.Location, payload, deal.ScrapedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert deal: %w", err)
			}
		}
		return nil
	})
}

// ListDeals returns deals for a site scraped since the given time.
func (db *DB) ListDeals(ctx context.Context, site string, since time.Time) ([]*models.Deal, error) {
	query := `
		SELECT payload FROM deals
		WHERE site = $1 AND scraped_at >= $2
		ORDER BY scraped_at DESC`

	rows, err := db.pool.Query(ctx, query, site, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		var deal models.Deal
		if err := json.Unmarshal(payload, &deal); err != nil {
			return nil, fmt.Errorf("failed to decode deal payload: %w", err)
		}
		deals = append(deals, &deal)
	}
	return deals, rows.Err()
}
