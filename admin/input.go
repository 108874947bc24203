package admin

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errEmptyName   = errors.New("admin: empty name")
	errBadPrice    = errors.New("admin: invalid price")
	errPriceNotPos = errors.New("admin: price must be positive")
	errNameTooLong = errors.New("admin: name too long")
)

const (
	maxNameLength   = 128
	skipDescription = "-"
)

// CleanName trims an operator-supplied name and validates it.
func CleanName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errEmptyName
	}
	if len(name) > maxNameLength {
		return "", errNameTooLong
	}
	return name, nil
}

// ParsePrice parses an operator-supplied price. Comma is accepted as the
// decimal separator. The value must be strictly positive.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if cleaned == "" {
		return decimal.Decimal{}, errBadPrice
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, errBadPrice
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, errPriceNotPos
	}
	return price, nil
}

// ParseDescription interprets operator input for the optional description
// field. A lone "-" means no description.
func ParseDescription(raw string) *string {
	text := strings.TrimSpace(raw)
	if text == "" || text == skipDescription {
		return nil
	}
	return &text
}
