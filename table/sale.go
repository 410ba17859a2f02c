package table

import "github.com/stevemurr/bookstore-inventory/store"

type Sale struct {
	ID       int64  `json:"sale_id"`
	BookID   int64  `json:"book_id"`
	Quantity int    `json:"sale_quantity"`
	Date     string `json:"sale_date"`
}

type SaleUpdate struct {
	BookID   *int64  `json:"book_id,omitempty"`
	Quantity *int    `json:"sale_quantity,omitempty"`
	Date     *string `json:"sale_date,omitempty"`
}

type SalesTable struct {
	t *Table[Sale]
}

func NewSalesTable(s store.Store) (*SalesTable, error) {
	t, err := New(s, Definition[Sale]{
		Collection: "sales",
		IDField:    "sale_id",
		ID:         func(sale Sale) int64 { return sale.ID },
		SetID:      func(sale *Sale, id int64) { sale.ID = id },
		NotFound:   ErrSaleNotFound,
	})
	if err != nil {
		return nil, err
	}
	return &SalesTable{t: t}, nil
}

func (s *SalesTable) CreateSale(bookID int64, quantity int, date string) (Sale, error) {
	return s.t.Create(Sale{BookID: bookID, Quantity: quantity, Date: date})
}

func (s *SalesTable) GetAllSales() []Sale {
	return s.t.All()
}

func (s *SalesTable) GetSale(id int64) (Sale, error) {
	return s.t.Get(id)
}

func (s *SalesTable) UpdateSale(id int64, u SaleUpdate) (Sale, error) {
	return s.t.Update(id, u)
}

func (s *SalesTable) DeleteSale(id int64) error {
	return s.t.Delete(id)
}
