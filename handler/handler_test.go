package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stevemurr/bookstore-inventory/handler"
	"github.com/stevemurr/bookstore-inventory/store"
	"github.com/stevemurr/bookstore-inventory/table"
)

func setup(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()
	ts, err := table.Open(s)
	require.NoError(t, err)
	srv := httptest.NewServer(handler.New(ts, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, s
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRootAndHealth(t *testing.T) {
	srv, _ := setup(t)

	resp := do(t, "GET", srv.URL+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])

	resp = do(t, "GET", srv.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, "GET", srv.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthorsCRUD(t *testing.T) {
	srv, _ := setup(t)

	resp := do(t, "GET", srv.URL+"/authors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]table.Author](t, resp))

	resp = do(t, "POST", srv.URL+"/authors", map[string]any{"author_name": "A", "author_bio": "B"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, table.Author{ID: 1, Name: "A", Bio: "B"}, decode[table.Author](t, resp))

	resp = do(t, "GET", srv.URL+"/authors/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, table.Author{ID: 1, Name: "A", Bio: "B"}, decode[table.Author](t, resp))

	resp = do(t, "PUT", srv.URL+"/authors/1", map[string]any{"author_name": "C"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, table.Author{ID: 1, Name: "C", Bio: "B"}, decode[table.Author](t, resp))

	resp = do(t, "GET", srv.URL+"/authors", nil)
	assert.Equal(t, []table.Author{{ID: 1, Name: "C", Bio: "B"}}, decode[[]table.Author](t, resp))

	resp = do(t, "DELETE", srv.URL+"/authors/1", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, "GET", srv.URL+"/authors", nil)
	assert.Empty(t, decode[[]table.Author](t, resp))
}

func TestNotFoundMessages(t *testing.T) {
	srv, _ := setup(t)

	for path, label := range map[string]string{
		"authors":    "Author",
		"books":      "Book",
		"customers":  "Customer",
		"publishers": "Publisher",
		"purchases":  "Purchase",
		"reviews":    "Review",
		"sales":      "Sale",
	} {
		t.Run(path, func(t *testing.T) {
			for _, method := range []string{"GET", "DELETE"} {
				resp := do(t, method, srv.URL+"/"+path+"/999", nil)
				require.Equal(t, http.StatusNotFound, resp.StatusCode, method)
				assert.Equal(t, label+" not found.", decode[map[string]string](t, resp)["error"])
			}
		})
	}

	resp := do(t, "PUT", srv.URL+"/sales/999", map[string]any{"sale_quantity": 2})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Sale not found.", decode[map[string]string](t, resp)["error"])
}

func TestRequestValidation(t *testing.T) {
	srv, _ := setup(t)

	resp := do(t, "GET", srv.URL+"/authors/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, "GET", srv.URL+"/authors/0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, "POST", srv.URL+"/authors", "{broken")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, "POST", srv.URL+"/authors", map[string]any{"author_bio": "no name"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decode[map[string]string](t, resp)["error"], "author_name")

	resp = do(t, "POST", srv.URL+"/authors", map[string]any{"author_id": 7, "author_name": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, "POST", srv.URL+"/books", map[string]any{
		"book_title": "t", "author_id": 1, "publisher_id": 1,
		"book_format": "scroll", "book_price": 1, "book_publish_date": "2024-01-01",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, "PUT", srv.URL+"/authors/1", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreateEveryEntity(t *testing.T) {
	srv, _ := setup(t)

	bodies := map[string]map[string]any{
		"authors": {"author_name": "Author Name", "author_bio": "Author Bio"},
		"publishers": {"publisher_name": "Publisher Name"},
		"books": {
			"book_title": "Book Title", "author_id": 1, "publisher_id": 1, "book_genre": "Fiction",
			"book_format": "audiobook", "book_price": 9.5, "book_publish_date": "2024-01-01",
		},
		"customers": {"customer_name": "Customer", "customer_email": "c@example.com", "customer_total_spent": 0},
		"purchases": {
			"customer_id": 1, "book_id": 1, "purchase_date": "2024-01-02",
			"purchase_quantity": 1, "purchase_amount": 9.5,
		},
		"reviews": {"book_id": 1, "customer_id": 1, "review_rating": 5, "review_date": "2024-01-03"},
		"sales":   {"book_id": 1, "sale_quantity": 3, "sale_date": "2024-01-04"},
	}
	for path, body := range bodies {
		t.Run(path, func(t *testing.T) {
			resp := do(t, "POST", srv.URL+"/"+path, body)
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			got := decode[map[string]any](t, resp)
			for k, v := range body {
				assert.EqualValues(t, v, got[k], k)
			}

			resp = do(t, "GET", srv.URL+"/"+path, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Len(t, decode[[]map[string]any](t, resp), 1)
		})
	}
}

func TestStoreFailureIsUnavailable(t *testing.T) {
	srv, s := setup(t)
	require.NoError(t, s.Drop("authors"))

	resp := do(t, "POST", srv.URL+"/authors", map[string]any{"author_name": "A"})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Author creation failed in db.", decode[map[string]string](t, resp)["error"])

	// Listing stays lenient.
	resp = do(t, "GET", srv.URL+"/authors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]table.Author](t, resp))
}

func TestMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	srv := httptest.NewServer(handler.Logging(logger)(handler.Recovery(logger)(panicky)))
	defer srv.Close()

	resp := do(t, "GET", srv.URL+"/x", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[0].ContextMap()["status"])
}
