package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/demoapp/userapi/internal/httpd"
	"github.com/demoapp/userapi/internal/model"
)

// validationFailed writes a 400 with field-level detail.
func validationFailed(w http.ResponseWriter, ve *model.ValidationError) {
	httpd.JSON(w, http.StatusBadRequest, map[string]any{
		"error":  "Validation failed",
		"fields": ve.Fields,
	})
}

// ListUsers handles GET /v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users().List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	httpd.JSON(w, http.StatusOK, users)
}

// GetUser handles GET /v1/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.store.Users().Get(r.Context(), id)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if user == nil {
		httpd.Error(w, http.StatusNotFound, "Not found")
		return
	}
	httpd.JSON(w, http.StatusOK, user)
}

// CreateUser handles POST /v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in model.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpd.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if ve := in.Validate(); ve != nil {
		validationFailed(w, ve)
		return
	}

	user, err := h.store.Users().Create(r.Context(), in)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	httpd.JSON(w, http.StatusCreated, user)
}

// UpdateUser handles PATCH /v1/users/{id}. Only supplied fields are
// merged; an empty body returns the record unchanged.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in model.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpd.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if ve := in.Validate(); ve != nil {
		validationFailed(w, ve)
		return
	}

	user, err := h.store.Users().Update(r.Context(), id, in)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if user == nil {
		httpd.Error(w, http.StatusNotFound, "Not found")
		return
	}
	httpd.JSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /v1/users/{id}. The first delete of an id
// answers 204 with an empty body; deleting it again answers 404.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok, err := h.store.Users().Delete(r.Context(), id)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !ok {
		httpd.Error(w, http.StatusNotFound, "Not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
