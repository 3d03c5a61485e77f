package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
	PaymentOther  PaymentMethod = "other"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCash, PaymentCard, PaymentMobile, PaymentOther:
		return m, nil
	default:
		return "", &ValidationError{Field: "payment_method", Reason: fmt.Sprintf("unknown method %q", s)}
	}
}

// Sale is the durable header of a completed transaction.
// Invariant: Total = Subtotal + Tax - Discount, Tax = round(Subtotal * TaxRate, 2).
type Sale struct {
	ID         uuid.UUID
	CashierID  uuid.UUID
	CustomerID *uuid.UUID

	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Currency currency.Unit

	PaymentMethod PaymentMethod
	Notes         string
	CreatedAt     time.Time

	Items []SaleItem
}

// SaleItem is a frozen snapshot of one cart line at sale time. It is
// deliberately decoupled from the live product so historical sales
// survive later product edits and deletions.
type SaleItem struct {
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}
