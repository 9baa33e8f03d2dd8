// Command seed populates the catalog with sample categories and stones for
// local development and demos.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/repository"
)

type categorySeed struct {
	nameEN, nameFA, slug string
}

var categories = []categorySeed{
	{"Travertine", "تراورتن", "travertine"},
	{"Marble", "مرمریت", "marble"},
	{"Granite", "گرانیت", "granite"},
	{"Onyx", "مرمر", "onyx"},
}

var finishes = []string{"Polished", "Honed", "Brushed", "Leathered"}

func main() {
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "postgres connection string")
	perCategory := flag.Int("stones", 5, "stones to create per category")
	seed := flag.Uint64("seed", 0, "random seed, 0 for nondeterministic")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(*databaseURL, *perCategory, *seed); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(databaseURL string, perCategory int, seed uint64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if databaseURL == "" {
		return fmt.Errorf("database URL is required")
	}

	faker := gofakeit.New(seed)

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := repository.ApplySchema(ctx, pool); err != nil {
		return fmt.Errorf("repository.ApplySchema: %w", err)
	}

	stones := repository.NewStone(pool)

	table := tablewriter.NewTable(os.Stdout)
	table.Header("Category", "Stone", "Origin", "Price")

	for _, c := range categories {
		category, err := stones.InsertCategory(ctx, domain.Category{
			NameEN:        c.nameEN,
			NameFA:        c.nameFA,
			Slug:          c.slug,
			DescriptionEN: faker.Sentence(8),
			DescriptionFA: "سنگ طبیعی ایرانی",
		})
		if err != nil {
			return fmt.Errorf("stones.InsertCategory(%s): %w", c.slug, err)
		}

		for i := 0; i < perCategory; i++ {
			stone, err := stones.InsertStone(ctx, randomStone(faker, category))
			if err != nil {
				return fmt.Errorf("stones.InsertStone: %w", err)
			}

			price := "on request"
			if stone.Price != nil {
				price = stone.Price.Amount.StringFixed(2)
			}
			if err := table.Append(category.NameEN, stone.NameEN, stone.Origin, price); err != nil {
				return fmt.Errorf("table.Append: %w", err)
			}
		}
	}

	return table.Render()
}

func randomStone(faker *gofakeit.Faker, category domain.Category) domain.Stone {
	city := faker.RandomString([]string{"Yazd", "Isfahan", "Mahallat", "Abadeh", "Dehbid"})
	name := fmt.Sprintf("%s %s %s", city, category.NameEN, faker.RandomString(finishes))

	// roughly one in five stones is quoted on request
	var price *domain.Money
	if faker.Number(0, 4) > 0 {
		m := domain.NewMoney(decimal.NewFromInt(int64(faker.Number(20, 300) * 100000)))
		price = &m
	}

	return domain.Stone{
		CategoryID:          category.ID,
		NameEN:              name,
		NameFA:              category.NameFA + " " + city,
		DescriptionEN:       faker.Paragraph(1, 3, 12, " "),
		DescriptionFA:       "توضیحات محصول",
		Origin:              city + ", Iran",
		Price:               price,
		IsActive:            true,
		Density:             strconv.FormatFloat(faker.Float64Range(2.3, 2.9), 'f', 2, 64) + " g/cm3",
		Porosity:            strconv.FormatFloat(faker.Float64Range(0.1, 3.5), 'f', 1, 64) + "%",
		CompressiveStrength: strconv.Itoa(faker.Number(60, 220)) + " MPa",
		FlexuralStrength:    strconv.Itoa(faker.Number(6, 25)) + " MPa",
	}
}
