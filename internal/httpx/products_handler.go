package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-tenant-orders.git/internal/errs"
	"github.com/ariefcatur/go-tenant-orders.git/internal/products"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProductsHandler struct {
	Registry Registry
	Validate *Validator
	Log      *zap.Logger
}

type ProductReq struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(RequireTenant)
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *ProductsHandler) repo(r *http.Request) (*products.Repo, error) {
	pool, err := h.Registry.GetOrCreate(r.Context(), TenantID(r.Context()))
	if err != nil {
		return nil, err
	}
	return &products.Repo{DB: pool}, nil
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req ProductReq
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
	p, err := repo.Create(r.Context(), req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		h.Log.Error("product create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	writeSuccess(w, http.StatusCreated, "Product created successfully", p)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repo(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out, err := repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	writeSuccess(w, http.StatusOK, "Products fetched successfully", out)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repo(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	p, err := repo.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, errs.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	writeSuccess(w, http.StatusOK, "Product fetched successfully", p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req ProductReq
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
	p, err := repo.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description, req.Price, req.Stock)
	if errors.Is(err, errs.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	writeSuccess(w, http.StatusOK, "Product updated successfully", p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repo(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	err = repo.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, errs.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	writeSuccess(w, http.StatusOK, "Product deleted successfully", nil)
}
