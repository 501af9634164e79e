package fulfillment

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound means a requested product id does not exist in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderNotFound means the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrProductMismatch means the priced items reference ids missing from the
	// catalog snapshot taken in the same transaction.
	ErrProductMismatch = errors.New("requested products do not match catalog snapshot")

	// ErrConflict means a concurrent writer changed product stock between the
	// snapshot read and the commit. PlaceOrder retries once before surfacing it.
	ErrConflict = errors.New("concurrent stock update conflict")
)

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientStockError reports the first line item that failed admission.
type InsufficientStockError struct {
	ProductTitle string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %q has insufficient stock", e.ProductTitle)
}

// IsInsufficientStock reports whether err is an admission failure.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a request-shape failure.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
