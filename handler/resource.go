package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/stevemurr/bookstore-inventory/schema"
	"github.com/stevemurr/bookstore-inventory/table"
)

// resource adapts one entity's table service to CRUD routes under /path.
// T is the stored record, U its partial update.
type resource[T, U any] struct {
	path   string
	label  string
	schema schema.Entity

	id     func(T) int64
	create func(T) (T, error)
	list   func() []T
	get    func(int64) (T, error)
	update func(int64, U) (T, error)
	remove func(int64) error
}

func mount[T, U any](h *Handler, res resource[T, U]) {
	base := "/" + res.path
	h.mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		var rec T
		if err := readBody(r, res.schema.Create, &rec); err != nil {
			writeBodyError(w, err)
			return
		}
		created, err := res.create(rec)
		if err != nil {
			h.storeFailure(w, res.label, "creation", res.label+" creation failed in db.", err)
			return
		}
		h.logger.Info(res.label+" created", zap.Int64("id", res.id(created)))
		writeJSON(w, http.StatusCreated, created)
	})

	h.mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, res.list())
	})

	h.mux.HandleFunc("GET "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rec, err := res.get(id)
		if err != nil {
			h.lookupFailure(w, res.label, "retrieval", "Failed to retrieve "+strings.ToLower(res.label)+".", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	h.mux.HandleFunc("PUT "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var patch U
		if err := readBody(r, res.schema.Update, &patch); err != nil {
			writeBodyError(w, err)
			return
		}
		rec, err := res.update(id, patch)
		if err != nil {
			h.lookupFailure(w, res.label, "update", res.label+" update failed in db.", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	h.mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := res.remove(id); err != nil {
			h.lookupFailure(w, res.label, "deletion", res.label+" deletion failed in db.", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// lookupFailure maps a missing record to 404 and anything else to 503 with msg.
func (h *Handler) lookupFailure(w http.ResponseWriter, label, op, msg string, err error) {
	if errors.Is(err, table.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error()+".")
		return
	}
	h.storeFailure(w, label, op, msg, err)
}

func (h *Handler) storeFailure(w http.ResponseWriter, label, op, msg string, err error) {
	h.logger.Error("store operation failed",
		zap.String("entity", label),
		zap.String("operation", op),
		zap.Error(err))
	writeError(w, http.StatusServiceUnavailable, msg)
}
