package table

import "github.com/stevemurr/bookstore-inventory/store"

type Author struct {
	ID   int64  `json:"author_id"`
	Name string `json:"author_name"`
	Bio  string `json:"author_bio"`
}

// AuthorUpdate carries the fields to change; nil fields are left alone.
type AuthorUpdate struct {
	Name *string `json:"author_name,omitempty"`
	Bio  *string `json:"author_bio,omitempty"`
}

type AuthorsTable struct {
	t *Table[Author]
}

func NewAuthorsTable(s store.Store) (*AuthorsTable, error) {
	t, err := New(s, Definition[Author]{
		Collection: "authors",
		IDField:    "author_id",
		ID:         func(a Author) int64 { return a.ID },
		SetID:      func(a *Author, id int64) { a.ID = id },
		NotFound:   ErrAuthorNotFound,
	})
	if err != nil {
		return nil, err
	}
	return &AuthorsTable{t: t}, nil
}

func (a *AuthorsTable) CreateAuthor(name, bio string) (Author, error) {
	return a.t.Create(Author{Name: name, Bio: bio})
}

func (a *AuthorsTable) GetAllAuthors() []Author {
	return a.t.All()
}

func (a *AuthorsTable) GetAuthor(id int64) (Author, error) {
	return a.t.Get(id)
}

func (a *AuthorsTable) UpdateAuthor(id int64, u AuthorUpdate) (Author, error) {
	return a.t.Update(id, u)
}

func (a *AuthorsTable) DeleteAuthor(id int64) error {
	return a.t.Delete(id)
}
