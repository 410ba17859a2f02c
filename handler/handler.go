// Package handler provides the HTTP handlers for the bookstore inventory.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/stevemurr/bookstore-inventory/schema"
	"github.com/stevemurr/bookstore-inventory/table"
)

const maxBodyBytes = 1 << 20

// Handler holds the server dependencies and registers routes.
type Handler struct {
	tables *table.Tables
	logger *zap.Logger
	mux    *http.ServeMux
}

// New creates a Handler and wires up all routes.
func New(ts *table.Tables, logger *zap.Logger) *Handler {
	h := &Handler{tables: ts, logger: logger, mux: http.NewServeMux()}
	h.routes()
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	// Health / status
	h.mux.HandleFunc("GET /", h.root)
	h.mux.HandleFunc("GET /health", h.health)

	ts := h.tables
	mount(h, resource[table.Author, table.AuthorUpdate]{
		path: "authors", label: "Author", schema: schema.Author,
		id: func(a table.Author) int64 { return a.ID },
		create: func(a table.Author) (table.Author, error) {
			return ts.Authors.CreateAuthor(a.Name, a.Bio)
		},
		list:   ts.Authors.GetAllAuthors,
		get:    ts.Authors.GetAuthor,
		update: ts.Authors.UpdateAuthor,
		remove: ts.Authors.DeleteAuthor,
	})
	mount(h, resource[table.Book, table.BookUpdate]{
		path: "books", label: "Book", schema: schema.Book,
		id:     func(b table.Book) int64 { return b.ID },
		create: ts.Books.CreateBook,
		list:   ts.Books.GetAllBooks,
		get:    ts.Books.GetBook,
		update: ts.Books.UpdateBook,
		remove: ts.Books.DeleteBook,
	})
	mount(h, resource[table.Customer, table.CustomerUpdate]{
		path: "customers", label: "Customer", schema: schema.Customer,
		id:     func(c table.Customer) int64 { return c.ID },
		create: ts.Customers.CreateCustomer,
		list:   ts.Customers.GetAllCustomers,
		get:    ts.Customers.GetCustomer,
		update: ts.Customers.UpdateCustomer,
		remove: ts.Customers.DeleteCustomer,
	})
	mount(h, resource[table.Publisher, table.PublisherUpdate]{
		path: "publishers", label: "Publisher", schema: schema.Publisher,
		id:     func(p table.Publisher) int64 { return p.ID },
		create: ts.Publishers.CreatePublisher,
		list:   ts.Publishers.GetAllPublishers,
		get:    ts.Publishers.GetPublisher,
		update: ts.Publishers.UpdatePublisher,
		remove: ts.Publishers.DeletePublisher,
	})
	mount(h, resource[table.Purchase, table.PurchaseUpdate]{
		path: "purchases", label: "Purchase", schema: schema.Purchase,
		id:     func(p table.Purchase) int64 { return p.ID },
		create: ts.Purchases.CreatePurchase,
		list:   ts.Purchases.GetAllPurchases,
		get:    ts.Purchases.GetPurchase,
		update: ts.Purchases.UpdatePurchase,
		remove: ts.Purchases.DeletePurchase,
	})
	mount(h, resource[table.Review, table.ReviewUpdate]{
		path: "reviews", label: "Review", schema: schema.Review,
		id:     func(r table.Review) int64 { return r.ID },
		create: ts.Reviews.CreateReview,
		list:   ts.Reviews.GetAllReviews,
		get:    ts.Reviews.GetReview,
		update: ts.Reviews.UpdateReview,
		remove: ts.Reviews.DeleteReview,
	})
	mount(h, resource[table.Sale, table.SaleUpdate]{
		path: "sales", label: "Sale", schema: schema.Sale,
		id: func(s table.Sale) int64 { return s.ID },
		create: func(s table.Sale) (table.Sale, error) {
			return ts.Sales.CreateSale(s.BookID, s.Quantity, s.Date)
		},
		list:   ts.Sales.GetAllSales,
		get:    ts.Sales.GetSale,
		update: ts.Sales.UpdateSale,
		remove: ts.Sales.DeleteSale,
	})
}

// ---------- helpers ----------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// bodyError carries the status a rejected request body maps to.
type bodyError struct {
	status int
	msg    string
}

func (e *bodyError) Error() string { return e.msg }

// readBody decodes the request into v after checking it against s.
func readBody(r *http.Request, s map[string]any, v any) error {
	defer r.Body.Close()
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return &bodyError{http.StatusBadRequest, "could not read body: " + err.Error()}
	}
	if len(b) > maxBodyBytes {
		return &bodyError{http.StatusRequestEntityTooLarge, "body too large"}
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return &bodyError{http.StatusBadRequest, "invalid JSON: " + err.Error()}
	}
	if err := schema.Validate(s, doc); err != nil {
		return &bodyError{http.StatusUnprocessableEntity, "schema validation failed: " + err.Error()}
	}
	if err := json.Unmarshal(b, v); err != nil {
		return &bodyError{http.StatusBadRequest, "invalid JSON: " + err.Error()}
	}
	return nil
}

func writeBodyError(w http.ResponseWriter, err error) {
	var be *bodyError
	if errors.As(err, &be) {
		writeError(w, be.status, be.msg)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// ---------- status endpoints ----------

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	// Only match exact root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Bookstore Inventory",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
