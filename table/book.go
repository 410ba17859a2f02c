package table

import (
	"errors"
	"fmt"

	"github.com/stevemurr/bookstore-inventory/store"
)

// BookFormat is the medium a book is sold in.
type BookFormat string

const (
	FormatPhysical  BookFormat = "physical"
	FormatEbook     BookFormat = "ebook"
	FormatAudiobook BookFormat = "audiobook"
)

// ErrInvalidBookFormat is returned when a book names an unknown format.
var ErrInvalidBookFormat = errors.New("invalid book format")

// Valid reports whether f is one of the known formats.
func (f BookFormat) Valid() bool {
	switch f {
	case FormatPhysical, FormatEbook, FormatAudiobook:
		return true
	}
	return false
}

// Book references its author and publisher by id. The references are not
// checked.
type Book struct {
	ID          int64      `json:"book_id"`
	Title       string     `json:"book_title"`
	AuthorID    int64      `json:"author_id"`
	PublisherID int64      `json:"publisher_id"`
	Genre       *string    `json:"book_genre,omitempty"`
	Format      BookFormat `json:"book_format"`
	Price       float64    `json:"book_price"`
	PublishDate string     `json:"book_publish_date"`
}

type BookUpdate struct {
	Title       *string     `json:"book_title,omitempty"`
	AuthorID    *int64      `json:"author_id,omitempty"`
	PublisherID *int64      `json:"publisher_id,omitempty"`
	Genre       *string     `json:"book_genre,omitempty"`
	Format      *BookFormat `json:"book_format,omitempty"`
	Price       *float64    `json:"book_price,omitempty"`
	PublishDate *string     `json:"book_publish_date,omitempty"`
}

type BooksTable struct {
	t *Table[Book]
}

func NewBooksTable(s store.Store) (*BooksTable, error) {
	t, err := New(s, Definition[Book]{
		Collection: "books",
		IDField:    "book_id",
		ID:         func(b Book) int64 { return b.ID },
		SetID:      func(b *Book, id int64) { b.ID = id },
		NotFound:   ErrBookNotFound,
	})
	if err != nil {
		return nil, err
	}
	return &BooksTable{t: t}, nil
}

// CreateBook stores book under a fresh id; any id already set is ignored.
func (b *BooksTable) CreateBook(book Book) (Book, error) {
	if !book.Format.Valid() {
		return Book{}, fmt.Errorf("%w: %q", ErrInvalidBookFormat, book.Format)
	}
	return b.t.Create(book)
}

func (b *BooksTable) GetAllBooks() []Book {
	return b.t.All()
}

func (b *BooksTable) GetBook(id int64) (Book, error) {
	return b.t.Get(id)
}

func (b *BooksTable) UpdateBook(id int64, u BookUpdate) (Book, error) {
	if u.Format != nil && !u.Format.Valid() {
		return Book{}, fmt.Errorf("%w: %q", ErrInvalidBookFormat, *u.Format)
	}
	return b.t.Update(id, u)
}

func (b *BooksTable) DeleteBook(id int64) error {
	return b.t.Delete(id)
}
