package table

import "github.com/stevemurr/bookstore-inventory/store"

type Review struct {
	ID         int64   `json:"review_id"`
	BookID     int64   `json:"book_id"`
	CustomerID int64   `json:"customer_id"`
	Rating     int     `json:"review_rating"`
	Text       *string `json:"review_text,omitempty"`
	Date       string  `json:"review_date"`
}

type ReviewUpdate struct {
	BookID     *int64  `json:"book_id,omitempty"`
	CustomerID *int64  `json:"customer_id,omitempty"`
	Rating     *int    `json:"review_rating,omitempty"`
	Text       *string `json:"review_text,omitempty"`
	Date       *string `json:"review_date,omitempty"`
}

type ReviewsTable struct {
	t *Table[Review]
}

func NewReviewsTable(s store.Store) (*ReviewsTable, error) {
	t, err := New(s, Definition[Review]{
		Collection: "reviews",
		IDField:    "review_id",
		ID:         func(r Review) int64 { return r.ID },
		SetID:      func(r *Review, id int64) { r.ID = id },
		NotFound:   ErrReviewNotFound,
	})
	if err != nil {
		return nil, err
	}
	return &ReviewsTable{t: t}, nil
}

func (r *ReviewsTable) CreateReview(review Review) (Review, error) {
	return r.t.Create(review)
}

func (r *ReviewsTable) GetAllReviews() []Review {
	return r.t.All()
}

func (r *ReviewsTable) GetReview(id int64) (Review, error) {
	return r.t.Get(id)
}

func (r *ReviewsTable) UpdateReview(id int64, u ReviewUpdate) (Review, error) {
	return r.t.Update(id, u)
}

func (r *ReviewsTable) DeleteReview(id int64) error {
	return r.t.Delete(id)
}
