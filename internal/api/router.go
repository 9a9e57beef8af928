package api

import (
	"net/http"

	"github.com/Ileana-Castillo/inventario-servicio/internal/store"
)

// NewRouter creates the command router used by the GUI shell.
func NewRouter(st *store.Store, secret string) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Store: st}
	maintenanceHandler := &MaintenanceHandler{Store: st}

	authMW := AuthMiddleware(secret)

	// Items.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Diagnostics and maintenance.
	mux.Handle("GET /api/storage", authMW(http.HandlerFunc(maintenanceHandler.StoragePath)))
	mux.Handle("POST /api/maintenance/fix-image-paths", authMW(http.HandlerFunc(maintenanceHandler.FixImagePaths)))

	return mux
}
