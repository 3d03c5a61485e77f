// Package checkout turns a non-empty cart plus a payment method into
// a durable sale with line-item snapshots, or fails cleanly.
package checkout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeline/pos/internal/cart"
	"github.com/storeline/pos/internal/domain"
	"github.com/storeline/pos/internal/port"
)

// State tracks the recorder through one commit attempt:
// Idle -> Submitting -> {Completed | Failed}.
type State int

const (
	Idle State = iota
	Submitting
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request carries the checkout parameters beyond the cart itself.
// Discount defaults to zero when left unset.
type Request struct {
	PaymentMethod domain.PaymentMethod
	Discount      decimal.Decimal
	CustomerID    *uuid.UUID
	Notes         string
}

// Recorder commits a cart as a sale via a two-phase write: first the
// header, then the line items. The phases are not atomic; a phase-two
// failure leaves an orphaned header and is surfaced distinctly as
// domain.OrphanedSaleError.
type Recorder struct {
	cart     *cart.Engine
	sales    port.SaleRepository
	identity port.Identity
	logger   *slog.Logger

	mu    sync.Mutex
	state State
}

func New(engine *cart.Engine, sales port.SaleRepository, identity port.Identity, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recorder{
		cart:     engine,
		sales:    sales,
		identity: identity,
		logger:   logger,
		state:    Idle,
	}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) setState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
}

// Checkout runs one commit attempt. Guards fire before any network
// call: an empty cart, a missing identity, or invalid parameters all
// refuse the transition and leave the recorder out of Submitting.
// The cart stays locked for the whole attempt; there is no timeout or
// cancellation beyond ctx, and a failed attempt must be retried by a
// fresh submission.
func (r *Recorder) Checkout(ctx context.Context, req Request) (domain.Sale, error) {
	if _, err := domain.ParsePaymentMethod(string(req.PaymentMethod)); err != nil {
		return domain.Sale{}, err
	}
	if req.Discount.IsNegative() {
		return domain.Sale{}, &domain.ValidationError{Field: "discount", Reason: "must not be negative"}
	}

	cashierID, ok := r.identity.CurrentUserID(ctx)
	if !ok {
		return domain.Sale{}, domain.ErrAuthRequired
	}

	if err := r.cart.BeginCheckout(); err != nil {
		return domain.Sale{}, err
	}
	r.setState(Submitting)

	// Totals are recomputed from the cart at submission time, never
	// carried over from an earlier read.
	lines := r.cart.Lines()
	subtotal := r.cart.Subtotal()
	tax := subtotal.Mul(domain.TaxRate).Round(2)
	total := subtotal.Add(tax).Sub(req.Discount)

	sale := domain.Sale{
		CashierID:     cashierID,
		CustomerID:    req.CustomerID,
		Subtotal:      subtotal,
		Discount:      req.Discount,
		Tax:           tax,
		Total:         total,
		Currency:      r.cart.Currency(),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	created, err := r.sales.InsertSale(ctx, sale)
	if err != nil {
		r.setState(Failed)
		r.cart.AbortCheckout()
		r.logger.Error("sale header write failed", "error", err)
		return domain.Sale{}, err
	}

	items := snapshotItems(created.ID, lines)
	if err := r.sales.InsertSaleItems(ctx, created.ID, items); err != nil {
		r.setState(Failed)
		r.cart.AbortCheckout()
		r.logger.Error("sale items write failed, header left without items",
			"sale_id", created.ID, "error", err)
		return domain.Sale{}, &domain.OrphanedSaleError{SaleID: created.ID, Err: err}
	}

	created.Items = items
	r.setState(Completed)
	r.cart.CompleteCheckout()
	r.logger.Info("sale completed",
		"sale_id", created.ID,
		"total", created.Total.StringFixed(2),
		"payment_method", created.PaymentMethod,
		"items", len(items),
	)
	return created, nil
}

// snapshotItems freezes the cart lines as sale items: product id,
// name, quantity and prices as of submission time.
func snapshotItems(saleID uuid.UUID, lines []domain.CartLine) []domain.SaleItem {
	items := make([]domain.SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.SaleItem{
			SaleID:      saleID,
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Product.Price.Amount,
			TotalPrice:  line.Total().Amount,
		})
	}
	return items
}
