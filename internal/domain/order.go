package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = fmt.Errorf("order not found")

	// ErrOrderFinalized is returned when a status transition finds the order
	// already out of the pending state, i.e. a concurrent callback won the race.
	ErrOrderFinalized = fmt.Errorf("order already finalized")
)

type Order struct {
	ID           uuid.UUID
	OwnerID      string
	OrderNumber  string
	TrackingCode *string
	Status       OrderStatus
	TotalAmount  Money

	// Payment linkage, set by the checkout and callback flows only.
	PaymentID     string
	PaymentStatus PaymentStatus
	PaymentDate   *time.Time

	// Shipping snapshot taken at checkout time, immutable afterwards.
	Shipping ShippingInfo

	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	StoneID  uuid.UUID
	Quantity int
	// Price is the unit price at purchase time, decoupled from the catalog.
	Price             Money
	SelectedFinish    string
	SelectedThickness string
	Notes             string

	CreatedAt time.Time
}

type ShippingInfo struct {
	Address    string
	City       string
	PostalCode string
	Phone      string
}

// Validate reports the first missing field by its wire name.
func (s ShippingInfo) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"address", s.Address},
		{"city", s.City},
		{"postal_code", s.PostalCode},
		{"phone", s.Phone},
	}

	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("missing required field: %s", f.name)
		}
	}

	return nil
}
