package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// TaxRate is the fixed sales tax applied at checkout (8%).
var TaxRate = decimal.New(8, -2)

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// Mul returns the money multiplied by a whole quantity.
func (m Money) Mul(quantity int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(quantity))),
		Currency: m.Currency,
	}
}

// Round2 rounds the amount to two decimal places, the precision
// every persisted monetary column carries.
func (m Money) Round2() Money {
	return Money{Amount: m.Amount.Round(2), Currency: m.Currency}
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}
