package models

import (
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// toMoney rebuilds a Money column pair, defaulting to the menu currency
func toMoney(amount decimal.Decimal, currency string) valueobject.Money {
	c := valueobject.Currency(currency)
	if c == "" {
		c = valueobject.DefaultCurrency
	}
	m, _ := valueobject.NewMoney(amount, c)
	return m
}

// currencyOf returns the column value for a Money's currency
func currencyOf(m valueobject.Money) string {
	if m.Currency() == "" {
		return string(valueobject.DefaultCurrency)
	}
	return string(m.Currency())
}
