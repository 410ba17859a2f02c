package table

import "github.com/stevemurr/bookstore-inventory/store"

type Publisher struct {
	ID      int64   `json:"publisher_id"`
	Name    string  `json:"publisher_name"`
	Address *string `json:"publisher_address,omitempty"`
	Phone   *string `json:"publisher_phone,omitempty"`
}

type PublisherUpdate struct {
	Name    *string `json:"publisher_name,omitempty"`
	Address *string `json:"publisher_address,omitempty"`
	Phone   *string `json:"publisher_phone,omitempty"`
}

type PublishersTable struct {
	t *Table[Publisher]
}

func NewPublishersTable(s store.Store) (*PublishersTable, error) {
	t, err := New(s, Definition[Publisher]{
		Collection: "publishers",
		IDField:    "publisher_id",
		ID:         func(p Publisher) int64 { return p.ID },
		SetID:      func(p *Publisher, id int64) { p.ID = id },
		NotFound:   ErrPublisherNotFound,
	})
	if err != nil {
		return nil, err
	}
	return &PublishersTable{t: t}, nil
}

func (p *PublishersTable) CreatePublisher(publisher Publisher) (Publisher, error) {
	return p.t.Create(publisher)
}

func (p *PublishersTable) GetAllPublishers() []Publisher {
	return p.t.All()
}

func (p *PublishersTable) GetPublisher(id int64) (Publisher, error) {
	return p.t.Get(id)
}

func (p *PublishersTable) UpdatePublisher(id int64, u PublisherUpdate) (Publisher, error) {
	return p.t.Update(id, u)
}

func (p *PublishersTable) DeletePublisher(id int64) error {
	return p.t.Delete(id)
}
