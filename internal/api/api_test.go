package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ileana-Castillo/inventario-servicio/internal/auth"
	"github.com/Ileana-Castillo/inventario-servicio/internal/db"
	"github.com/Ileana-Castillo/inventario-servicio/internal/imagestore"
	"github.com/Ileana-Castillo/inventario-servicio/internal/model"
	"github.com/Ileana-Castillo/inventario-servicio/internal/store"
)

const testSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	database := db.NewTestDB(t)
	st := store.New(database, "/tmp/test-inventario.db", imagestore.New(t.TempDir()))
	server := httptest.NewServer(NewRouter(st, testSecret))
	t.Cleanup(server.Close)

	token, err := auth.GenerateToken(testSecret)
	if err != nil {
		t.Fatalf("generating test token: %v", err)
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func testPNGBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 255, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/items")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestItemsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Create.
	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"name":                "Destornillador",
		"image_base64":        testPNGBase64(t),
		"cantidad_necesaria":  4,
		"cantidad_disponible": 1,
	})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.Item
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.ID == 0 {
		t.Fatal("expected generated id")
	}
	if created.ImagePath == nil {
		t.Fatal("expected image path")
	}

	// List.
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 || items[0].Name != "Destornillador" {
		t.Fatalf("unexpected list result: %+v", items)
	}

	// Fetch the stored image.
	req, _ = authRequest("GET", fmt.Sprintf("%s/api/items/%d/image", server.URL, created.ID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for image, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Update without image.
	req, _ = authRequest("PUT", fmt.Sprintf("%s/api/items/%d", server.URL, created.ID), token, map[string]any{
		"name":                "Destornillador plano",
		"cantidad_necesaria":  4,
		"cantidad_disponible": 3,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var updated model.Item
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.Name != "Destornillador plano" || updated.AvailableQty != 3 {
		t.Errorf("unexpected updated item: %+v", updated)
	}
	if updated.ImagePath == nil || *updated.ImagePath != *created.ImagePath {
		t.Error("expected image path preserved on update without image")
	}

	// Delete.
	req, _ = authRequest("DELETE", fmt.Sprintf("%s/api/items/%d", server.URL, created.ID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// List is empty again.
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	items = nil
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 0 {
		t.Errorf("expected empty list after delete, got %d items", len(items))
	}
}

func TestCreateMalformedImage(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"name":         "Roto",
		"image_base64": "???not-base64???",
	})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed base64, got %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] == "" {
		t.Error("expected error message in response")
	}
}

func TestCreateRequiresName(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"cantidad_necesaria": 1,
	})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing name, got %d", resp.StatusCode)
	}
}

func TestUpdateMissingItem(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("PUT", server.URL+"/api/items/999", token, map[string]any{
		"name": "Fantasma",
	})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing item, got %d", resp.StatusCode)
	}
}

func TestDeleteMissingItemIsNoop(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("DELETE", server.URL+"/api/items/999", token, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for delete of missing item, got %d", resp.StatusCode)
	}
}

func TestStoragePathEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("GET", server.URL+"/api/storage", token, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["path"] != "/tmp/test-inventario.db" {
		t.Errorf("unexpected storage path: %q", body["path"])
	}
}

func TestFixImagePathsEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/maintenance/fix-image-paths", token, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]int
	json.NewDecoder(resp.Body).Decode(&body)
	if body["fixed"] != 0 {
		t.Errorf("expected 0 fixed rows on empty store, got %d", body["fixed"])
	}
}
