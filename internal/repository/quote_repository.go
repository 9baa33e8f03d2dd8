package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
)

type quoteRepository struct {
	pool *pgxpool.Pool
}

func NewQuote(pool *pgxpool.Pool) port.QuoteRepository {
	return &quoteRepository{pool: pool}
}

func (r *quoteRepository) InsertQuote(ctx context.Context, quote domain.Quote) (domain.Quote, error) {
	var q domain.Quote

	if err := quote.Validate(); err != nil {
		return q, fmt.Errorf("quote.Validate: %w", err)
	}

	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	if quote.Status == "" {
		quote.Status = domain.QuoteStatusPending
	}

	inserted, err := withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Quote, error) {
		err := tx.QueryRow(ctx, `
			INSERT INTO quotes (id, owner_id, name, email, company, phone,
			                    project_type, project_location, timeline, additional_notes, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at, updated_at`,
			quote.ID, quote.OwnerID, quote.Name, quote.Email, quote.Company, quote.Phone,
			quote.ProjectType, quote.ProjectLocation, quote.Timeline, quote.AdditionalNotes,
			string(quote.Status)).
			Scan(&quote.CreatedAt, &quote.UpdatedAt)
		if err != nil {
			return q, fmt.Errorf("insert quote: %w", err)
		}

		for _, item := range quote.Items {
			if _, err := tx.Exec(ctx, `
				INSERT INTO quote_items (id, quote_id, stone_id, quantity, notes)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), quote.ID, item.StoneID, item.Quantity, item.Notes); err != nil {
				return q, fmt.Errorf("insert quote item: %w", err)
			}
		}

		return quote, nil
	})
	if err != nil {
		return q, fmt.Errorf("withTx: %w", err)
	}

	return inserted, nil
}
