package api

import (
	"net/http"

	"github.com/Ileana-Castillo/inventario-servicio/internal/store"
)

// MaintenanceHandler handles diagnostic and maintenance endpoints.
type MaintenanceHandler struct {
	Store *store.Store
}

// StoragePath handles GET /api/storage.
func (h *MaintenanceHandler) StoragePath(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"path": h.Store.StoragePath()})
}

// FixImagePaths handles POST /api/maintenance/fix-image-paths. It repoints
// stored image paths at the current image directory after a storage-location
// change and reports how many rows were rewritten.
func (h *MaintenanceHandler) FixImagePaths(w http.ResponseWriter, r *http.Request) {
	fixed, err := h.Store.FixImagePaths(r.Context())
	if err != nil {
		jsonError(w, errorStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int{"fixed": fixed})
}
