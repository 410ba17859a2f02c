package table

import "github.com/stevemurr/bookstore-inventory/store"

type Customer struct {
	ID               int64   `json:"customer_id"`
	Name             string  `json:"customer_name"`
	Email            string  `json:"customer_email"`
	Phone            *string `json:"customer_phone,omitempty"`
	Address          *string `json:"customer_address,omitempty"`
	TotalSpent       float64 `json:"customer_total_spent"`
	LastPurchaseDate *string `json:"customer_last_purchase_date,omitempty"`
}

type CustomerUpdate struct {
	Name             *string  `json:"customer_name,omitempty"`
	Email            *string  `json:"customer_email,omitempty"`
	Phone            *string  `json:"customer_phone,omitempty"`
	Address          *string  `json:"customer_address,omitempty"`
	TotalSpent       *float64 `json:"customer_total_spent,omitempty"`
	LastPurchaseDate *string  `json:"customer_last_purchase_date,omitempty"`
}

type CustomersTable struct {
	t *Table[Customer]
}

func NewCustomersTable(s store.Store) (*CustomersTable, error) {
	t, err := New(s, Definition[Customer]{
		Collection: "customers",
		IDField:    "customer_id",
		ID:         func(c Customer) int64 { return c.ID },
		SetID:      func(c *Customer, id int64) { c.ID = id },
		NotFound:   ErrCustomerNotFound,
	})
	if err != nil {
		return nil, err
	}
	return &CustomersTable{t: t}, nil
}

func (c *CustomersTable) CreateCustomer(customer Customer) (Customer, error) {
	return c.t.Create(customer)
}

func (c *CustomersTable) GetAllCustomers() []Customer {
	return c.t.All()
}

func (c *CustomersTable) GetCustomer(id int64) (Customer, error) {
	return c.t.Get(id)
}

func (c *CustomersTable) UpdateCustomer(id int64, u CustomerUpdate) (Customer, error) {
	return c.t.Update(id, u)
}

func (c *CustomersTable) DeleteCustomer(id int64) error {
	return c.t.Delete(id)
}
