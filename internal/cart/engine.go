// Package cart holds the in-progress order and enforces quantity and
// stock constraints before anything is written to the store.
package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeline/pos/internal/domain"
	"golang.org/x/text/currency"
)

// Engine is an in-memory, ordered collection of cart lines keyed by
// product id, scoped to one checkout session.
//
// Mutations serialize through an internal mutex so overlapping input
// events (rapid double-clicks, scanner bursts) apply in arrival order
// with no lost updates. While a checkout is in flight the engine is
// locked and every mutation is refused with domain.ErrCartLocked.
type Engine struct {
	mu     sync.Mutex
	lines  []domain.CartLine
	locked bool
}

func New() *Engine {
	return &Engine{}
}

// Add merges the product into the cart: an existing line gains one
// unit, otherwise a new line with quantity 1 is appended. The add is
// refused with StockExceededError when the resulting quantity would
// exceed the product's stock, leaving the cart unchanged.
func (e *Engine) Add(p domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return domain.ErrCartLocked
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if len(e.lines) > 0 && p.Price.Currency != e.lines[0].Product.Price.Currency {
		return &domain.ValidationError{Field: "price", Reason: "currency differs from cart currency"}
	}

	for i, line := range e.lines {
		if line.Product.ID != p.ID {
			continue
		}
		if line.Quantity+1 > p.Stock {
			return &domain.StockExceededError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   line.Quantity + 1,
				Stock:       p.Stock,
			}
		}
		e.lines[i].Quantity++
		return nil
	}

	if p.Stock < 1 {
		return &domain.StockExceededError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   1,
			Stock:       p.Stock,
		}
	}

	e.lines = append(e.lines, domain.CartLine{Product: p, Quantity: 1})
	return nil
}

// SetQuantity replaces the quantity of the line for productID. A
// quantity of zero or below removes the line. A quantity above the
// product's stock is refused with StockExceededError and the cart is
// left unchanged.
func (e *Engine) SetQuantity(productID uuid.UUID, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return domain.ErrCartLocked
	}

	for i, line := range e.lines {
		if line.Product.ID != productID {
			continue
		}
		if quantity <= 0 {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			return nil
		}
		if quantity > line.Product.Stock {
			return &domain.StockExceededError{
				ProductID:   productID,
				ProductName: line.Product.Name,
				Requested:   quantity,
				Stock:       line.Product.Stock,
			}
		}
		e.lines[i].Quantity = quantity
		return nil
	}

	return &domain.ValidationError{Field: "product_id", Reason: "not in cart"}
}

// Clear empties the cart unconditionally, as after a canceled order.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return domain.ErrCartLocked
	}
	e.lines = nil
	return nil
}

// BeginCheckout locks the cart for the duration of a commit attempt.
// It fails with ErrCartEmpty before locking an empty cart and with
// ErrCartLocked when a checkout is already in flight.
func (e *Engine) BeginCheckout() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return domain.ErrCartLocked
	}
	if len(e.lines) == 0 {
		return domain.ErrCartEmpty
	}
	e.locked = true
	return nil
}

// AbortCheckout unlocks the cart after a failed commit, leaving the
// lines untouched for a fresh submission attempt.
func (e *Engine) AbortCheckout() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.locked = false
}

// CompleteCheckout empties and unlocks the cart after a successful
// commit.
func (e *Engine) CompleteCheckout() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
	e.locked = false
}

// Lines returns a copy of the cart lines in insertion order.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := make([]domain.CartLine, len(e.lines))
	copy(lines, e.lines)
	return lines
}

func (e *Engine) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines) == 0
}

// ItemCount is the sum of all line quantities.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	var count int
	for _, line := range e.lines {
		count += line.Quantity
	}
	return count
}

// Subtotal is the sum of price times quantity over all lines,
// recomputed on every call so it can never go stale.
func (e *Engine) Subtotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked()
}

// Tax is the subtotal multiplied by the fixed tax rate, rounded to
// two decimal places.
func (e *Engine) Tax() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked().Mul(domain.TaxRate).Round(2)
}

// Total is subtotal plus tax. Checkout-time discounts are applied by
// the sale recorder, not here.
func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	subtotal := e.subtotalLocked()
	return subtotal.Add(subtotal.Mul(domain.TaxRate).Round(2))
}

// Currency is the currency shared by every line, or the zero unit for
// an empty cart.
func (e *Engine) Currency() currency.Unit {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.lines) == 0 {
		return currency.Unit{}
	}
	return e.lines[0].Product.Price.Currency
}

func (e *Engine) subtotalLocked() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range e.lines {
		subtotal = subtotal.Add(line.Total().Amount)
	}
	return subtotal
}
