package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
	"github.com/samber/lo"
)

type stoneRepository struct {
	pool *pgxpool.Pool
}

func NewStone(pool *pgxpool.Pool) port.StoneRepository {
	return &stoneRepository{pool: pool}
}

func (r *stoneRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name_en, name_fa, slug, description_en, description_fa, created_at
		FROM categories
		ORDER BY name_en`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.NameEN, &c.NameFA, &c.Slug, &c.DescriptionEN, &c.DescriptionFA, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *stoneRepository) ListStones(ctx context.Context, filter domain.StoneFilter) ([]domain.Stone, error) {
	var (
		joins      string
		conditions = []string{"s.is_active"}
		args       []any
	)

	if filter.CategorySlug != "" {
		joins = " JOIN categories c ON c.id = s.category_id"
		args = append(args, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(s.name_en ILIKE $%d OR s.name_fa ILIKE $%d OR s.description_en ILIKE $%d OR s.description_fa ILIKE $%d)",
			n, n, n, n))
	}

	query := `SELECT ` + stoneColumns("s") + ` FROM stones s` + joins +
		` WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY s.name_en`

	return r.queryStones(ctx, query, args...)
}

func (r *stoneRepository) FeaturedStones(ctx context.Context, limit int) ([]domain.Stone, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	// insertion order, intentionally arbitrary
	query := `SELECT ` + stoneColumns("") + `
		FROM stones
		WHERE is_active
		ORDER BY created_at, id
		LIMIT $1`

	return r.queryStones(ctx, query, limit)
}

func (r *stoneRepository) queryStones(ctx context.Context, query string, args ...any) ([]domain.Stone, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stones: %w", err)
	}
	defer rows.Close()

	var stones []domain.Stone
	for rows.Next() {
		stone, err := scanStone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanStone: %w", err)
		}
		stones = append(stones, stone)
	}

	return stones, rows.Err()
}

func (r *stoneRepository) GetStone(ctx context.Context, stoneID uuid.UUID) (domain.Stone, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+stoneColumns("")+`
		FROM stones
		WHERE id = $1 AND is_active`, stoneID)

	stone, err := scanStone(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stone{}, domain.ErrStoneNotFound
		}
		return domain.Stone{}, fmt.Errorf("scanStone: %w", err)
	}

	return stone, nil
}

func (r *stoneRepository) InsertCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	if category.Slug == "" {
		return domain.Category{}, fmt.Errorf("slug is empty")
	}

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name_en, name_fa, slug, description_en, description_fa)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		category.ID, category.NameEN, category.NameFA, category.Slug,
		category.DescriptionEN, category.DescriptionFA).
		Scan(&category.CreatedAt)
	if err != nil {
		return domain.Category{}, fmt.Errorf("insert category: %w", err)
	}

	return category, nil
}

func (r *stoneRepository) InsertStone(ctx context.Context, stone domain.Stone) (domain.Stone, error) {
	if stone.CategoryID == uuid.Nil {
		return domain.Stone{}, fmt.Errorf("categoryID is empty")
	}

	if stone.ID == uuid.Nil {
		stone.ID = uuid.New()
	}

	amount, code := nullableMoneyToDB(stone.Price)

	err := r.pool.QueryRow(ctx, `
		INSERT INTO stones (id, category_id, name_en, name_fa, description_en, description_fa, origin,
		                    price_amount, price_currency, is_active,
		                    density, porosity, compressive_strength, flexural_strength)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		stone.ID, stone.CategoryID, stone.NameEN, stone.NameFA,
		stone.DescriptionEN, stone.DescriptionFA, stone.Origin,
		amount, code, stone.IsActive,
		stone.Density, stone.Porosity, stone.CompressiveStrength, stone.FlexuralStrength).
		Scan(&stone.CreatedAt, &stone.UpdatedAt)
	if err != nil {
		return domain.Stone{}, fmt.Errorf("insert stone: %w", err)
	}

	return stone, nil
}

// stoneColumns lists the stone columns in the order scanStoneInto expects.
func stoneColumns(alias string) string {
	cols := []string{
		"id", "category_id", "name_en", "name_fa", "description_en", "description_fa", "origin",
		"price_amount::text", "price_currency", "is_active",
		"density", "porosity", "compressive_strength", "flexural_strength",
		"created_at", "updated_at",
	}

	if alias == "" {
		return strings.Join(cols, ", ")
	}

	prefixed := lo.Map(cols, func(col string, _ int) string {
		return alias + "." + col
	})

	return strings.Join(prefixed, ", ")
}

func scanStone(row rowScanner) (domain.Stone, error) {
	return scanStoneInto(row, nil)
}

// scanStoneInto scans prefix destinations followed by the stone columns, so
// joined queries can reuse the stone mapping.
func scanStoneInto(row rowScanner, prefix []any) (domain.Stone, error) {
	var (
		s            domain.Stone
		amount, code *string
	)

	dests := append(prefix,
		&s.ID, &s.CategoryID, &s.NameEN, &s.NameFA, &s.DescriptionEN, &s.DescriptionFA, &s.Origin,
		&amount, &code, &s.IsActive,
		&s.Density, &s.Porosity, &s.CompressiveStrength, &s.FlexuralStrength,
		&s.CreatedAt, &s.UpdatedAt)

	if err := row.Scan(dests...); err != nil {
		return s, err
	}

	price, err := nullableMoneyFromDB(amount, code)
	if err != nil {
		return s, fmt.Errorf("nullableMoneyFromDB: %w", err)
	}
	s.Price = price

	return s, nil
}
