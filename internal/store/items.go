package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Ileana-Castillo/inventario-servicio/internal/imagestore"
	"github.com/Ileana-Castillo/inventario-servicio/internal/imaging"
	"github.com/Ileana-Castillo/inventario-servicio/internal/model"
)

const itemColumns = `id, name, image_path, cantidad_necesaria, cantidad_disponible, created_at`

// timeFormat is the local-time layout persisted in created_at. Databases
// written by earlier releases already hold this format, so it must not
// change.
const timeFormat = "2006-01-02 15:04:05"

// List returns all items, newest first.
func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM inventory ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var imagePath sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &imagePath, &item.RequiredQty, &item.AvailableQty, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if imagePath.Valid {
			item.ImagePath = &imagePath.String
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get returns one item by ID.
func (s *Store) Get(ctx context.Context, id int64) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getItem(ctx, id)
}

// Add inserts a new item and returns the stored row. A non-empty
// imageBase64 is decoded and written to the image directory before the row
// is inserted; decode failures leave the database untouched.
func (s *Store) Add(ctx context.Context, name, imageBase64 string, requiredQty, availableQty int) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var imagePath *string
	if imageBase64 != "" {
		path, err := s.saveImage(imageBase64)
		if err != nil {
			return nil, err
		}
		imagePath = &path
	}

	createdAt := time.Now().Format(timeFormat)

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory (name, image_path, cantidad_necesaria, cantidad_disponible, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		name, imagePath, requiredQty, availableQty, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return s.getItem(ctx, id)
}

// Update rewrites an item and returns the stored row. When imageBase64 is
// non-empty the previous image file is removed (best-effort) and replaced;
// otherwise image_path is left untouched. Returns ErrNotFound for a missing
// id.
func (s *Store) Update(ctx context.Context, id int64, name, imageBase64 string, requiredQty, availableQty int) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if imageBase64 != "" {
		oldPath, err := s.imagePath(ctx, id)
		if err != nil {
			return nil, err
		}

		newPath, err := s.saveImage(imageBase64)
		if err != nil {
			return nil, err
		}
		imagestore.Remove(oldPath)

		_, err = s.db.ExecContext(ctx,
			`UPDATE inventory SET name = ?, image_path = ?, cantidad_necesaria = ?, cantidad_disponible = ?
			 WHERE id = ?`,
			name, newPath, requiredQty, availableQty, id,
		)
		if err != nil {
			return nil, fmt.Errorf("updating item %d: %w", id, err)
		}
	} else {
		_, err := s.db.ExecContext(ctx,
			`UPDATE inventory SET name = ?, cantidad_necesaria = ?, cantidad_disponible = ? WHERE id = ?`,
			name, requiredQty, availableQty, id,
		)
		if err != nil {
			return nil, fmt.Errorf("updating item %d: %w", id, err)
		}
	}

	return s.getItem(ctx, id)
}

// Delete removes an item and best-effort deletes its image file. Deleting a
// missing id is a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.imagePath(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	imagestore.Remove(path)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}
	return nil
}

// FixImagePaths reconciles stored image paths after a storage-location
// change. Rows whose path's filename exists under the current image
// directory are rewritten to point there; the rest are left alone. Returns
// the number of rows fixed.
func (s *Store) FixImagePaths(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, image_path FROM inventory WHERE image_path IS NOT NULL`,
	)
	if err != nil {
		return 0, fmt.Errorf("listing image paths: %w", err)
	}

	type entry struct {
		id   int64
		path string
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning image path: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("reading image paths: %w", err)
	}
	rows.Close()

	fixed := 0
	for _, e := range entries {
		candidate := filepath.Join(s.images.Path(), filepath.Base(e.path))
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		_, err := s.db.ExecContext(ctx,
			`UPDATE inventory SET image_path = ? WHERE id = ?`, candidate, e.id,
		)
		if err != nil {
			return fixed, fmt.Errorf("fixing image path for item %d: %w", e.id, err)
		}
		fixed++
	}
	return fixed, nil
}

// getItem rereads a row by id. Callers must hold the mutex.
func (s *Store) getItem(ctx context.Context, id int64) (*model.Item, error) {
	item := &model.Item{}
	var imagePath sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &imagePath, &item.RequiredQty, &item.AvailableQty, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading item %d: %w", id, err)
	}
	if imagePath.Valid {
		item.ImagePath = &imagePath.String
	}
	return item, nil
}

// imagePath returns the stored image path for an item, or "" when the item
// has none. Callers must hold the mutex.
func (s *Store) imagePath(ctx context.Context, id int64) (string, error) {
	var path sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT image_path FROM inventory WHERE id = ?`, id,
	).Scan(&path)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading image path for item %d: %w", id, err)
	}
	return path.String, nil
}

// saveImage decodes, validates, and persists a base64 image payload,
// returning the absolute file path. Callers must hold the mutex.
func (s *Store) saveImage(payload string) (string, error) {
	data, err := imagestore.Decode(payload)
	if err != nil {
		return "", err
	}
	data, err = imaging.Normalize(data)
	if err != nil {
		return "", err
	}
	return s.images.Save(data)
}
