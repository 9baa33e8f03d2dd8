package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStoneNotFound    = fmt.Errorf("stone not found")
	ErrCategoryNotFound = fmt.Errorf("category not found")
)

type Category struct {
	ID            uuid.UUID
	NameEN        string
	NameFA        string
	Slug          string
	DescriptionEN string
	DescriptionFA string

	CreatedAt time.Time
}

// Stone is a catalog entry with bilingual presentation fields. Price is nil
// for stones quoted on request only; such stones cannot be checked out.
type Stone struct {
	ID            uuid.UUID
	CategoryID    uuid.UUID
	NameEN        string
	NameFA        string
	DescriptionEN string
	DescriptionFA string
	Origin        string
	Price         *Money
	IsActive      bool

	// Technical data sheet values, free-form strings as supplied.
	Density             string
	Porosity            string
	CompressiveStrength string
	FlexuralStrength    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoneFilter has AND semantics across fields. Empty filter matches all
// active stones.
type StoneFilter struct {
	CategorySlug string
	Search       string
}
