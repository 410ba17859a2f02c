package table

import "github.com/stevemurr/bookstore-inventory/store"

type Purchase struct {
	ID         int64   `json:"purchase_id"`
	CustomerID int64   `json:"customer_id"`
	BookID     int64   `json:"book_id"`
	Date       string  `json:"purchase_date"`
	Quantity   int     `json:"purchase_quantity"`
	Amount     float64 `json:"purchase_amount"`
}

type PurchaseUpdate struct {
	CustomerID *int64   `json:"customer_id,omitempty"`
	BookID     *int64   `json:"book_id,omitempty"`
	Date       *string  `json:"purchase_date,omitempty"`
	Quantity   *int     `json:"purchase_quantity,omitempty"`
	Amount     *float64 `json:"purchase_amount,omitempty"`
}

type PurchasesTable struct {
	t *Table[Purchase]
}

func NewPurchasesTable(s store.Store) (*PurchasesTable, error) {
	t, err := New(s, Definition[Purchase]{
		Collection: "purchases",
		IDField:    "purchase_id",
		ID:         func(p Purchase) int64 { return p.ID },
		SetID:      func(p *Purchase, id int64) { p.ID = id },
		NotFound:   ErrPurchaseNotFound,
	})
	if err != nil {
		return nil, err
	}
	return &PurchasesTable{t: t}, nil
}

func (p *PurchasesTable) CreatePurchase(purchase Purchase) (Purchase, error) {
	return p.t.Create(purchase)
}

func (p *PurchasesTable) GetAllPurchases() []Purchase {
	return p.t.All()
}

func (p *PurchasesTable) GetPurchase(id int64) (Purchase, error) {
	return p.t.Get(id)
}

func (p *PurchasesTable) UpdatePurchase(id int64, u PurchaseUpdate) (Purchase, error) {
	return p.t.Update(id, u)
}

func (p *PurchasesTable) DeletePurchase(id int64) error {
	return p.t.Delete(id)
}
