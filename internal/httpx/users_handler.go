package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-tenant-orders.git/internal/errs"
	"github.com/ariefcatur/go-tenant-orders.git/internal/users"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UsersHandler struct {
	Registry Registry
	Validate *Validator
	Log      *zap.Logger
}

type UserReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *UsersHandler) Register(r *chi.Mux) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(RequireTenant)
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *UsersHandler) repo(r *http.Request) (*users.Repo, error) {
	pool, err := h.Registry.GetOrCreate(r.Context(), TenantID(r.Context()))
	if err != nil {
		return nil, err
	}
	return &users.Repo{DB: pool}, nil
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req UserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if ferrs := h.Validate.Check(req); ferrs != nil {
		writeValidationErrors(w, ferrs)
		return
	}

	repo, err := h.repo(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	u, err := repo.Create(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.Log.Error("user create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	writeSuccess(w, http.StatusCreated, "User created successfully", u)
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repo(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out, err := repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	writeSuccess(w, http.StatusOK, "Users fetched successfully", out)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repo(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	u, err := repo.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, errs.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	writeSuccess(w, http.StatusOK, "User fetched successfully", u)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req UserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if ferrs := h.Validate.Check(req); ferrs != nil {
		writeValidationErrors(w, ferrs)
		return
	}

	repo, err := h.repo(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	u, err := repo.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Email, req.Password)
	if errors.Is(err, errs.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	writeSuccess(w, http.StatusOK, "User updated successfully", u)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repo(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	err = repo.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, errs.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	writeSuccess(w, http.StatusOK, "User deleted successfully", nil)
}
