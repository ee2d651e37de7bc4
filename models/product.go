package models

import "time"

// RawProduct holds one product card exactly as extracted from a listing page,
// before any normalization. Sentinel values ("Unknown", "N/A", zero prices)
// are allowed here and nowhere past the cleaner.
type RawProduct struct {
	Title         string
	Price         float64 // 0 means no price found on the card
	Currency      string
	Condition     string // "Unknown" when the card does not say
	SellerName    string // always "Unknown" on search-results pages
	Location      string // "Unknown" when no location span matched
	ShippingPrice float64
	Rating        float64 // always 0 on search-results pages
	ReviewsCount  int     // always 0 on search-results pages
	ItemURL       string  // "N/A" when no link could be resolved
	ScrapedAt     string  // "2006-01-02 15:04:05"
}

// Product is the canonical, fully normalized record for one item. Absent
// fields are nil pointers; no string sentinels survive cleaning.
type Product struct {
	Title          *string           `json:"title"`
	Price          *float64          `json:"price"`
	Currency       string            `json:"currency"`
	Condition      *string           `json:"condition"`
	SellerName     *string           `json:"seller_name"`
	Location       *string           `json:"location"`
	ShippingPrice  *float64          `json:"shipping_price"`
	Rating         *float64          `json:"rating"`
	ReviewsCount   *int              `json:"reviews_count"`
	ItemURL        *string           `json:"item_url"`
	ScrapedAt      string            `json:"scraped_at"`
	Specifications map[string]string `json:"specifications,omitempty"`

	// Populated only via detail-page enrichment.
	SellerFeedbackCount   *int     `json:"seller_feedback_count,omitempty"`
	SellerPositivePercent *float64 `json:"seller_positive_feedback,omitempty"`
	QuantitySold          *int     `json:"quantity_sold,omitempty"`
	ViewsCount            *int     `json:"views_count,omitempty"`
	Description           *string  `json:"description,omitempty"`
}

// DetailFields is the sparse output of parsing one product detail page.
// Every field is optional; an empty struct is a valid result.
type DetailFields struct {
	Rating                *float64
	ReviewsCount          *int
	SellerName            *string
	SellerFeedbackCount   *int
	SellerPositivePercent *float64
	Location              *string
	ShippingPrice         *float64
	Condition             *string
	QuantitySold          *int
	ViewsCount            *int
	Description           *string
	Specifications        map[string]string
}

// Empty reports whether parsing yielded no fields at all.
func (d *DetailFields) Empty() bool {
	return d == nil || (d.Rating == nil && d.ReviewsCount == nil &&
		d.SellerName == nil && d.SellerFeedbackCount == nil &&
		d.SellerPositivePercent == nil && d.Location == nil &&
		d.ShippingPrice == nil && d.Condition == nil &&
		d.QuantitySold == nil && d.ViewsCount == nil &&
		d.Description == nil && len(d.Specifications) == 0)
}

// Report accumulates the statistics of one pipeline batch.
type Report struct {
	Elapsed time.Duration

	PagesParsed       int
	CardsFound        int
	CardsSkipped      int
	InvalidDropped    int
	DuplicatesRemoved int
	Enriched          int
	DetailsMissing    int
	FinalCount        int

	// Completeness maps field name → number of final records carrying it.
	Completeness map[string]int
}

// NewReport returns a Report ready for accumulation.
func NewReport() *Report {
	return &Report{Completeness: make(map[string]int)}
}
