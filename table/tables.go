package table

import "github.com/stevemurr/bookstore-inventory/store"

// Tables bundles one service per entity over a single store.
type Tables struct {
	Authors    *AuthorsTable
	Books      *BooksTable
	Customers  *CustomersTable
	Publishers *PublishersTable
	Purchases  *PurchasesTable
	Reviews    *ReviewsTable
	Sales      *SalesTable
}

// Open creates every entity collection in s and recovers its counter.
func Open(s store.Store) (*Tables, error) {
	var (
		ts  Tables
		err error
	)
	if ts.Authors, err = NewAuthorsTable(s); err != nil {
		return nil, err
	}
	if ts.Books, err = NewBooksTable(s); err != nil {
		return nil, err
	}
	if ts.Customers, err = NewCustomersTable(s); err != nil {
		return nil, err
	}
	if ts.Publishers, err = NewPublishersTable(s); err != nil {
		return nil, err
	}
	if ts.Purchases, err = NewPurchasesTable(s); err != nil {
		return nil, err
	}
	if ts.Reviews, err = NewReviewsTable(s); err != nil {
		return nil, err
	}
	if ts.Sales, err = NewSalesTable(s); err != nil {
		return nil, err
	}
	return &ts, nil
}
