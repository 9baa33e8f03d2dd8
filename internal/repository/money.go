package repository

import (
	"fmt"

	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Amounts travel to and from Postgres as NUMERIC cast to text, so decimal
// values never pass through floating point.
func moneyFromDB(amount, code string) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(code)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("amount[%s] is not valid: %w", amount, err)
	}

	return domain.Money{Amount: parsedAmount, Currency: parsedCurrency}, nil
}

func nullableMoneyFromDB(amount, code *string) (*domain.Money, error) {
	if amount == nil || code == nil {
		return nil, nil
	}

	money, err := moneyFromDB(*amount, *code)
	if err != nil {
		return nil, fmt.Errorf("moneyFromDB: %w", err)
	}

	return &money, nil
}

func nullableMoneyToDB(m *domain.Money) (amount, code *string) {
	if m == nil {
		return nil, nil
	}

	a := m.Amount.String()
	c := m.Currency.String()

	return &a, &c
}
