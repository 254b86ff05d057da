package bill

import (
	"context"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/route"
)

// Store lists the raw bills visible to the current session.
// List may fail with a *bill.TransportError.
type Store interface {
	List(ctx context.Context) ([]bill.Bill, error)
}

// Navigator moves the user to another screen
type Navigator interface {
	Navigate(dest route.ID)
}

// PreviewPresenter shows a justification file in the preview modal
type PreviewPresenter interface {
	Show(url string)
}

// IconElement is the clicked preview icon
type IconElement interface {
	Attribute(name string) (string, bool)
}

// RetrievalObserver receives the outcome of every bill retrieval.
// Implementations must be safe for concurrent use.
type RetrievalObserver interface {
	ObserveRetrieval(count, invalidFields int, err error)
}

// StoreFunc adapts a function to the Store interface
type StoreFunc func(ctx context.Context) ([]bill.Bill, error)

// List calls f(ctx)
func (f StoreFunc) List(ctx context.Context) ([]bill.Bill, error) {
	return f(ctx)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(dest route.ID)

// Navigate calls f(dest)
func (f NavigatorFunc) Navigate(dest route.ID) {
	f(dest)
}

// PresenterFunc adapts a function to the PreviewPresenter interface
type PresenterFunc func(url string)

// Show calls f(url)
func (f PresenterFunc) Show(url string) {
	f(url)
}

// Attributes is an IconElement backed by a map
type Attributes map[string]string

// Attribute returns the named attribute
func (a Attributes) Attribute(name string) (string, bool) {
	v, found := a[name]
	return v, found
}
