package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autochek-scraper/models"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
func i64Ptr(v int64) *int64   { return &v }

func sampleListings() []models.VehicleListing {
	return []models.VehicleListing{
		{
			ListingID:    "toyota-corolla-ref-1",
			Make:         strPtr("Toyota"),
			Model:        strPtr("Corolla"),
			Year:         intPtr(2015),
			Variant:      strPtr("LE"),
			Price:        i64Ptr(5500000),
			Currency:     strPtr("NGN"),
			Mileage:      i64Ptr(85000),
			Location:     strPtr("Lagos"),
			ListingURL:   "https://autochek.africa/ng/car/toyota-corolla-ref-1",
			ThumbnailURL: strPtr("https://autochek.africa/images/1.jpg"),
			CreatedAt:    strPtr("2024-01-15"),
		},
		{
			ListingID:  "mystery-ref-2",
			Make:       strPtr("Honda"),
			ListingURL: "https://autochek.africa/ng/car/mystery-ref-2",
		},
	}
}

func TestCSVWriterEmptyResultIsDistinguishable(t *testing.T) {
	writer := NewCSVWriter(filepath.Join(t.TempDir(), "out.csv"))
	err := writer.Write(nil)
	require.ErrorIs(t, err, ErrNoListings)
}

func TestCSVWriterWritesFixedWidthRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, NewCSVWriter(path).Write(sampleListings()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.FieldNames, rows[0])
	assert.Equal(t, "toyota-corolla-ref-1", rows[1][0])
	assert.Equal(t, "5500000", rows[1][5])

	// Unset fields become empty cells, not shorter rows.
	require.Len(t, rows[2], len(models.FieldNames))
	assert.Equal(t, "Honda", rows[2][1])
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "", rows[2][5])
}

func TestJSONWriterPreservesNullsAndKeyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, NewJSONWriter(path).Write(sampleListings()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(raw)

	// Unset fields serialize as explicit nulls.
	assert.Contains(t, body, `"model": null`)
	assert.Contains(t, body, `"price": null`)

	// Keys keep the contract order.
	assert.Less(t, strings.Index(body, `"listing_id"`), strings.Index(body, `"make"`))
	assert.Less(t, strings.Index(body, `"make"`), strings.Index(body, `"model"`))
	assert.Less(t, strings.Index(body, `"location"`), strings.Index(body, `"listing_url"`))

	var decoded []models.VehicleListing
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "toyota-corolla-ref-1", decoded[0].ListingID)
	assert.Nil(t, decoded[1].Price)
}

func TestJSONWriterEmptyResultIsAnEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, NewJSONWriter(path).Write(nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}
