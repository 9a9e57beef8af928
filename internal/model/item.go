package model

// Item represents one inventory record. The JSON field names are the wire
// contract with the GUI shell and mirror the database columns, so they must
// not change even though they mix languages.
type Item struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	ImagePath    *string `json:"image_path"`
	RequiredQty  int     `json:"cantidad_necesaria"`
	AvailableQty int     `json:"cantidad_disponible"`
	CreatedAt    string  `json:"created_at"`
}
