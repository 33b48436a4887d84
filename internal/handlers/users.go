package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vsftpd-manager/internal/users"
)

// UsersHandler serves virtual-user management.
type UsersHandler struct {
	Store *users.Store
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	HomeDir  string `json:"home_dir"`
	QuotaMB  int    `json:"quota_mb"`
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.Store.List()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	err := h.Store.Create(r.Context(), req.Username, req.Password, req.HomeDir, req.QuotaMB)
	switch {
	case errors.Is(err, users.ErrUserExists), errors.Is(err, users.ErrBadUsername):
		httpError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user " + req.Username + " created successfully"})
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	err := h.Store.Delete(r.Context(), username)
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		httpError(w, http.StatusNotFound, err)
		return
	case err != nil:
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user " + username + " deleted successfully"})
}
