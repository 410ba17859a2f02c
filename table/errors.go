package table

import "errors"

// ErrNotFound matches every entity-specific not-found error.
var ErrNotFound = errors.New("not found")

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// Entity not-found errors. The message text is part of the contract.
var (
	ErrAuthorNotFound    error = &notFoundError{"Author not found"}
	ErrBookNotFound      error = &notFoundError{"Book not found"}
	ErrCustomerNotFound  error = &notFoundError{"Customer not found"}
	ErrPublisherNotFound error = &notFoundError{"Publisher not found"}
	ErrPurchaseNotFound  error = &notFoundError{"Purchase not found"}
	ErrReviewNotFound    error = &notFoundError{"Review not found"}
	ErrSaleNotFound      error = &notFoundError{"Sale not found"}
)
