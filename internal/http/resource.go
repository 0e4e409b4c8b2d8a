package httpserver

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/catalog-api/internal/service"
)

// resource serves the five CRUD routes of one entity kind.
type resource[T any] struct {
	srv      *Server
	basePath string
	noun     string
	svc      *service.Service[T]
}

func newResource[T any](srv *Server, basePath, noun string, svc *service.Service[T]) *resource[T] {
	return &resource[T]{srv: srv, basePath: basePath, noun: noun, svc: svc}
}

func (res *resource[T]) routes(r chi.Router) {
	r.Get("/", res.handleList)
	r.Post("/", res.handleCreate)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", res.handleGet)
		r.Put("/", res.handleUpdate)
		r.Delete("/", res.handleDelete)
	})
}

func (res *resource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := res.svc.GetAll(r.Context())
	if err != nil {
		res.srv.logger.Error("list failed", "resource", res.noun, "err", err)
		res.srv.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list "+res.noun+"s")
		return
	}
	res.srv.respondJSON(w, http.StatusOK, items)
}

func (res *resource[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	entity, ok := res.lookup(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	res.srv.respondJSON(w, http.StatusOK, entity)
}

func (res *resource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var entity T
	if err := decodeJSONBody(w, r, &entity); err != nil {
		res.srv.respondDecodeError(w, err)
		return
	}

	created, err := res.svc.Create(r.Context(), entity)
	if err != nil {
		res.srv.logger.Error("create failed", "resource", res.noun, "err", err)
		res.srv.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create "+res.noun)
		return
	}

	if id := entityID(created); id != "" {
		w.Header().Set("Location", res.basePath+"/"+url.PathEscape(id))
	}
	res.srv.respondJSON(w, http.StatusOK, created)
}

func (res *resource[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var entity T
	if err := decodeJSONBody(w, r, &entity); err != nil {
		res.srv.respondDecodeError(w, err)
		return
	}
	if _, ok := res.lookup(w, r, id); !ok {
		return
	}

	updated, err := res.svc.Update(r.Context(), id, entity)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			res.srv.respondNotFound(w)
			return
		}
		res.srv.logger.Error("update failed", "resource", res.noun, "id", id, "err", err)
		res.srv.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update "+res.noun)
		return
	}
	res.srv.respondJSON(w, http.StatusOK, updated)
}

func (res *resource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := res.lookup(w, r, id); !ok {
		return
	}

	if err := res.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			res.srv.respondNotFound(w)
			return
		}
		res.srv.logger.Error("delete failed", "resource", res.noun, "id", id, "err", err)
		res.srv.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete "+res.noun)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// lookup writes the 404 or 500 response itself and reports whether the
// entity exists.
func (res *resource[T]) lookup(w http.ResponseWriter, r *http.Request, id string) (T, bool) {
	entity, err := res.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			res.srv.respondNotFound(w)
			return entity, false
		}
		res.srv.logger.Error("fetch failed", "resource", res.noun, "id", id, "err", err)
		res.srv.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch "+res.noun)
		return entity, false
	}
	return entity, true
}

func entityID(entity any) string {
	if e, ok := entity.(interface{ GetID() string }); ok {
		return e.GetID()
	}
	return ""
}
