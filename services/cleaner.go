package services

import (
	"strings"
	"unicode/utf8"

	"github.com/itsaril/Data-Collection-SIS-2/models"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

// Cleaner turns RawProducts into canonical Products by running every field
// through its normalizer. Clean is pure; the logger is only used for batch
// summaries.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean normalizes one raw record. It never fails: unparsable fields come
// back absent, not as errors.
func (c *Cleaner) Clean(raw models.RawProduct) models.Product {
	return models.Product{
		Title:         NormalizeText(raw.Title),
		Price:         NormalizePrice(raw.Price),
		Currency:      NormalizeCurrency(raw.Currency),
		Condition:     NormalizeCondition(raw.Condition),
		SellerName:    NormalizeText(raw.SellerName),
		Location:      NormalizeLocation(raw.Location),
		ShippingPrice: NormalizePrice(raw.ShippingPrice),
		Rating:        NormalizePrice(raw.Rating),
		ReviewsCount:  NormalizeCount(raw.ReviewsCount),
		ItemURL:       NormalizeURL(raw.ItemURL),
		ScrapedAt:     NormalizeDatetime(raw.ScrapedAt),
	}
}

// CleanAll normalizes a batch, preserving order.
func (c *Cleaner) CleanAll(raw []models.RawProduct) []models.Product {
	out := make([]models.Product, 0, len(raw))
	for _, r := range raw {
		out = append(out, c.Clean(r))
	}
	c.logger.Info("[cleaner] Normalized %d records", len(out))
	return out
}

// IsRawValid is the entry gate: a card must carry a usable title and URL to
// be worth cleaning at all.
func (c *Cleaner) IsRawValid(raw models.RawProduct) bool {
	title := NormalizeText(raw.Title)
	if title == nil || utf8.RuneCountInString(strings.TrimSpace(*title)) <= 3 {
		return false
	}
	return NormalizeURL(raw.ItemURL) != nil
}

// IsValid is the exit gate, applied again after cleaning and deduplication:
// title present and longer than 3 characters, item URL present.
func (c *Cleaner) IsValid(p models.Product) bool {
	return p.Title != nil && utf8.RuneCountInString(*p.Title) > 3 && p.ItemURL != nil
}
