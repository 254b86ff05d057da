// Package bill holds the employee bills page logic: retrieving bills from a
// store, formatting them for display and handling the page interactions.
package bill

import (
	"context"
	"fmt"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/route"
	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// BillURLAttribute is the icon attribute holding the justification file URL
const BillURLAttribute = "data-bill-url"

// Controller drives the employee bills page.
// It keeps no state between calls and may be used concurrently.
type Controller struct {
	store     Store
	navigator Navigator
	presenter PreviewPresenter
	session   session.Context
	formatter *Formatter
	observer  RetrievalObserver
	logger    *zap.Logger
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithFormatter sets the formatter used for dates and statuses
func WithFormatter(f *Formatter) ControllerOption {
	return func(c *Controller) {
		if f != nil {
			c.formatter = f
		}
	}
}

// WithObserver sets the retrieval observer
func WithObserver(o RetrievalObserver) ControllerOption {
	return func(c *Controller) {
		c.observer = o
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a new Controller. store may be nil, in which case
// GetBills returns no bills.
func NewController(
	store Store,
	navigator Navigator,
	presenter PreviewPresenter,
	sess session.Context,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		store:     store,
		navigator: navigator,
		presenter: presenter,
		session:   sess,
		formatter: defaultFormatter,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the controller was built for
func (c *Controller) Session() session.Context {
	return c.session
}

// GetBills lists the bills from the store and formats them for display.
// The result has one entry per stored bill, in store order. A field that
// cannot be formatted keeps its raw value and is logged. Store failures are
// returned unchanged in the error chain.
func (c *Controller) GetBills(ctx context.Context) ([]DisplayBill, error) {
	if c.store == nil {
		return []DisplayBill{}, nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "bills", "get_bills")
	defer span.End()

	raw, err := c.store.List(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		c.observe(0, 0, err)
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	bills := make([]DisplayBill, 0, len(raw))
	invalidFields := 0
	for _, b := range raw {
		display, errs := c.formatter.ToDisplay(b)
		for _, ferr := range errs {
			invalidFields++
			c.logger.Warn("bill field kept unformatted",
				zap.Error(ferr),
				zap.String("bill_id", b.ID),
				zap.Any("bill", b),
			)
		}
		bills = append(bills, display)
	}

	c.logger.Info("bills retrieved", zap.Int("length", len(bills)))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBillCount, len(bills),
		telemetry.SpanAttrInvalidFields, invalidFields,
	)
	c.observe(len(bills), invalidFields, nil)

	return bills, nil
}

// HandleClickNewBill navigates to the new bill form
func (c *Controller) HandleClickNewBill() {
	if c.navigator == nil {
		return
	}
	c.navigator.Navigate(route.NewBill)
}

// HandleClickIconEye opens the preview of the clicked bill's justification.
// An icon without a URL opens an empty preview.
func (c *Controller) HandleClickIconEye(icon IconElement) {
	if c.presenter == nil {
		return
	}
	var url string
	if icon != nil {
		url, _ = icon.Attribute(BillURLAttribute)
	}
	c.presenter.Show(url)
}

func (c *Controller) observe(count, invalidFields int, err error) {
	if c.observer != nil {
		c.observer.ObserveRetrieval(count, invalidFields, err)
	}
}

// IsTransportFailure reports whether a GetBills error came from the store transport
func IsTransportFailure(err error) bool {
	return bill.IsTransportError(err)
}
