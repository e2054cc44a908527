package models

// SearchCriteria is the immutable input of one scraper run.
type SearchCriteria struct {
	Make  string
	Model string
	Year  int
}

// VehicleListing is one vehicle record as surfaced on the inventory pages.
// Nullable fields are pointers so missing data serializes as an explicit
// JSON null and the record shape stays fixed-width across a result set.
type VehicleListing struct {
	ListingID    string  `json:"listing_id"`
	Make         *string `json:"make"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	Variant      *string `json:"variant"`
	Price        *int64  `json:"price"`
	Currency     *string `json:"currency"`
	Mileage      *int64  `json:"mileage"`
	Location     *string `json:"location"`
	ListingURL   string  `json:"listing_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	CreatedAt    *string `json:"created_at"`
}

// PageResult is the ordered set of listings extracted from one rendered
// page. An empty PageResult is the pagination stop signal.
type PageResult []VehicleListing

// FieldNames lists the serialized field names in their contract order,
// shared by the CSV header and the JSON key order.
var FieldNames = []string{
	"listing_id", "make", "model", "year", "variant",
	"price", "currency", "mileage", "location",
	"listing_url", "thumbnail_url", "created_at",
}
