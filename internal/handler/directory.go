package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/ordersvc/fulfillment/internal/domain/user"
	"github.com/ordersvc/fulfillment/internal/storage/memory"
)

// DirectoryHandler exposes the user directory service HTTP surface.
type DirectoryHandler struct {
	store *memory.DirectoryStore
}

// NewDirectoryHandler constructs a DirectoryHandler over the given store.
func NewDirectoryHandler(store *memory.DirectoryStore) *DirectoryHandler {
	return &DirectoryHandler{store: store}
}

// Register mounts the directory routes on the router.
func (h *DirectoryHandler) Register(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.listUsers)
		r.Post("/", h.createUser)
		r.Get("/{id}", h.getUser)
		r.Get("/{id}/validate", h.validateUser)
	})
}

func (h *DirectoryHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("users")
		e.ArrStart()
		for i := range users {
			encodeUser(e, &users[i])
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

type createUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active *bool  `json:"active"`
}

func (h *DirectoryHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name and email are required")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	u, err := h.store.Create(r.Context(), user.User{
		Name:   req.Name,
		Email:  req.Email,
		Active: active,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeUser(e, &u)
	})
}

func (h *DirectoryHandler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	u, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, memory.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeUser(e, u)
	})
}

// validateUser returns the directory verdict. Unknown users respond 404 but
// still carry a well-formed verdict body; inactive users respond 200 with
// valid=false. Both are business results, not transport failures.
func (h *DirectoryHandler) validateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	v, err := h.store.Validate(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	status := http.StatusOK
	if !v.Valid && v.Reason == user.ReasonNotFound {
		status = http.StatusNotFound
	}

	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("valid")
		e.Bool(v.Valid)
		if v.Reason != "" {
			e.FieldStart("reason")
			e.Str(v.Reason)
		}
		if v.User != nil {
			e.FieldStart("user")
			encodeUser(e, v.User)
		}
		e.ObjEnd()
	})
}

// parseID extracts the positive integer {id} route parameter, writing a 400
// on failure.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
