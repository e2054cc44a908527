package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"autochek-scraper/models"
	"autochek-scraper/utils"
)

// JSONWriter saves listings as one flat JSON array. Unset fields are
// serialized as explicit nulls and non-ASCII text is kept as-is.
type JSONWriter struct {
	path string
}

func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

func (w *JSONWriter) Write(listings []models.VehicleListing) error {
	if listings == nil {
		listings = []models.VehicleListing{}
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(listings); err != nil {
		return fmt.Errorf("json write error: %w", err)
	}

	utils.Success("Saved %d listings → %s", len(listings), w.path)
	return nil
}
