package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/mahdibiabani/stone-store/internal/domain"
)

type StoneRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)

	ListStones(ctx context.Context, filter domain.StoneFilter) ([]domain.Stone, error)

	// FeaturedStones returns the first limit active stones in insertion
	// order. The ordering carries no meaning beyond being stable.
	FeaturedStones(ctx context.Context, limit int) ([]domain.Stone, error)

	GetStone(ctx context.Context, stoneID uuid.UUID) (domain.Stone, error)

	InsertCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	InsertStone(ctx context.Context, stone domain.Stone) (domain.Stone, error)
}

type QuoteRepository interface {
	InsertQuote(ctx context.Context, quote domain.Quote) (domain.Quote, error)
}
