package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"autochek-scraper/models"
	"autochek-scraper/utils"
)

// ErrNoListings signals an empty result set so callers can distinguish
// "nothing scraped" from a write failure instead of finding a
// header-only file later.
var ErrNoListings = errors.New("no listings to write")

// CSVWriter saves listings as CSV with the fixed twelve-column contract.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write saves all listings, one row each, header first. Unset fields
// become empty cells so every row has the same width.
func (w *CSVWriter) Write(listings []models.VehicleListing) error {
	if len(listings) == 0 {
		return ErrNoListings
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write(models.FieldNames)
	for _, l := range listings {
		writer.Write([]string{
			l.ListingID,
			strCell(l.Make),
			strCell(l.Model),
			intCell(l.Year),
			strCell(l.Variant),
			int64Cell(l.Price),
			strCell(l.Currency),
			int64Cell(l.Mileage),
			strCell(l.Location),
			l.ListingURL,
			strCell(l.ThumbnailURL),
			strCell(l.CreatedAt),
		})
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	utils.Success("Saved %d listings → %s", len(listings), w.path)
	return nil
}

func strCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func int64Cell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
