package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrCartEmpty refuses a checkout on an empty cart before any
	// write is attempted.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrCartLocked refuses cart mutations while a checkout for the
	// same cart is in flight.
	ErrCartLocked = errors.New("cart is locked by an in-flight checkout")

	// ErrAuthRequired refuses a checkout when no authenticated user
	// identity is available.
	ErrAuthRequired = errors.New("no authenticated user")
)

// ValidationError reports bad input caught before any write occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StockExceededError reports a requested quantity above the product's
// available stock. The cart is left unchanged.
type StockExceededError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Stock       int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Stock)
}

// BackendWriteError wraps a store rejection of an insert, update or
// delete. The driver message is carried verbatim for display.
type BackendWriteError struct {
	Op  string
	Err error
}

func (e *BackendWriteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *BackendWriteError) Unwrap() error { return e.Err }

// OrphanedSaleError reports a checkout whose header write succeeded
// but whose line-item write failed. The sale id identifies the header
// left behind without items; no compensating delete is issued.
type OrphanedSaleError struct {
	SaleID uuid.UUID
	Err    error
}

func (e *OrphanedSaleError) Error() string {
	return fmt.Sprintf("sale %s recorded without items: %s", e.SaleID, e.Err.Error())
}

func (e *OrphanedSaleError) Unwrap() error { return e.Err }
