package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Ileana-Castillo/inventario-servicio/internal/imagestore"
	"github.com/Ileana-Castillo/inventario-servicio/internal/imaging"
	"github.com/Ileana-Castillo/inventario-servicio/internal/model"
	"github.com/Ileana-Castillo/inventario-servicio/internal/store"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	Store *store.Store
}

// itemRequest is the body for create and update. The quantity field names
// are the GUI wire contract.
type itemRequest struct {
	Name         string `json:"name"`
	ImageBase64  string `json:"image_base64"`
	RequiredQty  int    `json:"cantidad_necesaria"`
	AvailableQty int    `json:"cantidad_disponible"`
}

// errorStatus maps repository errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, imagestore.ErrDecode), errors.Is(err, imaging.ErrInvalidImage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.List(r.Context())
	if err != nil {
		jsonError(w, errorStatus(err), err.Error())
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	item, err := h.Store.Add(r.Context(), req.Name, req.ImageBase64, req.RequiredQty, req.AvailableQty)
	if err != nil {
		jsonError(w, errorStatus(err), err.Error())
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Store.Get(r.Context(), id)
	if err != nil {
		jsonError(w, errorStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	item, err := h.Store.Update(r.Context(), id, req.Name, req.ImageBase64, req.RequiredQty, req.AvailableQty)
	if err != nil {
		jsonError(w, errorStatus(err), err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		jsonError(w, errorStatus(err), err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// GetImage handles GET /api/items/{id}/image, serving the stored image file.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Store.Get(r.Context(), id)
	if err != nil {
		jsonError(w, errorStatus(err), err.Error())
		return
	}
	if item.ImagePath == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, *item.ImagePath)
}
