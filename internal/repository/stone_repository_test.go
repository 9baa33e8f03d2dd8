package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"

	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
	"github.com/mahdibiabani/stone-store/internal/repository"
)

type stoneRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.StoneRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestStoneRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(stoneRepositorySuite))
}

// before all tests in the suite
func (suite *stoneRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.NoError(repository.ApplySchema(ctx, suite.pool))

	suite.repo = repository.NewStone(suite.pool)
}

// after all tests in the suite
func (suite *stoneRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *stoneRepositorySuite) TestListStones() {
	defer suite.deleteAll()

	travertine := suite.newCategory("travertine")
	marble := suite.newCategory("marble")

	suite.insertStone(travertine.ID, "Yazd Travertine", "تراورتن یزد", true, "65.00")
	suite.insertStone(marble.ID, "Abadeh Marble", "مرمریت آباده", true, "30.00")
	suite.insertStone(marble.ID, "Retired Marble", "مرمریت قدیمی", false, "10.00")

	tests := []struct {
		name      string
		filter    domain.StoneFilter
		wantNames []string
	}{
		{
			name:      "no filter: all active stones",
			filter:    domain.StoneFilter{},
			wantNames: []string{"Abadeh Marble", "Yazd Travertine"},
		},
		{
			name:      "category filter",
			filter:    domain.StoneFilter{CategorySlug: "travertine"},
			wantNames: []string{"Yazd Travertine"},
		},
		{
			name:      "english search, case insensitive",
			filter:    domain.StoneFilter{Search: "abadeh"},
			wantNames: []string{"Abadeh Marble"},
		},
		{
			name:      "persian search",
			filter:    domain.StoneFilter{Search: "یزد"},
			wantNames: []string{"Yazd Travertine"},
		},
		{
			name:      "category and search combined",
			filter:    domain.StoneFilter{CategorySlug: "marble", Search: "yazd"},
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			stones, err := suite.repo.ListStones(t.Context(), tt.filter)
			require.NoError(t, err)

			names := lo.Map(stones, func(s domain.Stone, _ int) string { return s.NameEN })
			assert.ElementsMatch(t, tt.wantNames, names)
		})
	}
}

func (suite *stoneRepositorySuite) TestFeaturedStones() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	category := suite.newCategory("granite")
	for i := 0; i < 8; i++ {
		suite.insertStone(category.ID, gofakeit.ProductName(), "سنگ", true, "50.00")
	}

	stones, err := suite.repo.FeaturedStones(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, stones, 6)

	_, err = suite.repo.FeaturedStones(ctx, 0)
	require.EqualError(t, err, "limit must be positive")
}

func (suite *stoneRepositorySuite) TestGetStone() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	category := suite.newCategory("onyx")
	priced := suite.insertStone(category.ID, "Green Onyx", "مرمر سبز", true, "120.00")

	actual, err := suite.repo.GetStone(ctx, priced.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Onyx", actual.NameEN)
	require.NotNil(t, actual.Price)
	assert.True(t, actual.Price.Amount.Equal(decimal.RequireFromString("120.00")))

	// unpriced stones come back with a nil price
	unpriced, err := suite.repo.InsertStone(ctx, domain.Stone{
		CategoryID: category.ID,
		NameEN:     "Rare Onyx",
		NameFA:     "مرمر کمیاب",
		IsActive:   true,
	})
	require.NoError(t, err)

	actual, err = suite.repo.GetStone(ctx, unpriced.ID)
	require.NoError(t, err)
	assert.Nil(t, actual.Price)

	inactive := suite.insertStone(category.ID, "Hidden Onyx", "مرمر", false, "10.00")
	_, err = suite.repo.GetStone(ctx, inactive.ID)
	require.ErrorIs(t, err, domain.ErrStoneNotFound)

	_, err = suite.repo.GetStone(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrStoneNotFound)
}

func (suite *stoneRepositorySuite) TestListCategories() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	suite.newCategory("basalt")
	suite.newCategory("andesite")

	categories, err := suite.repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	// sorted by english name
	assert.Equal(t, "andesite", categories[0].Slug)
	assert.Equal(t, "basalt", categories[1].Slug)
}

func (suite *stoneRepositorySuite) newCategory(slug string) domain.Category {
	category, err := suite.repo.InsertCategory(suite.T().Context(), domain.Category{
		NameEN: slug,
		NameFA: "دسته",
		Slug:   slug,
	})
	suite.NoError(err)

	return category
}

func (suite *stoneRepositorySuite) insertStone(categoryID uuid.UUID, nameEN, nameFA string, active bool, price string) domain.Stone {
	money := domain.NewMoney(decimal.RequireFromString(price))

	stone, err := suite.repo.InsertStone(suite.T().Context(), domain.Stone{
		CategoryID: categoryID,
		NameEN:     nameEN,
		NameFA:     nameFA,
		Price:      &money,
		IsActive:   active,
	})
	suite.NoError(err)

	return stone
}

func (suite *stoneRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(),
		"TRUNCATE TABLE categories, stones CASCADE")
	suite.NoError(err)
}
