package services

import (
	"github.com/itsaril/Data-Collection-SIS-2/models"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

// Enricher fills gaps in a listing record with detail-page data. Listing-page
// data is fast but shallow; detail-page data is slow but deep, so it may only
// fill absent or placeholder fields, never contradict populated ones.
type Enricher struct {
	logger *utils.Logger
}

// NewEnricher creates an Enricher with the given logger.
func NewEnricher(logger *utils.Logger) *Enricher {
	return &Enricher{logger: logger}
}

// Merge copies each non-absent detail field onto the record if the record
// lacks it or holds the "Unknown" placeholder for it. A nil detail set (the
// detail page was unavailable upstream) leaves the record unchanged.
func (e *Enricher) Merge(p models.Product, d *models.DetailFields) models.Product {
	if d == nil {
		return p
	}

	if d.Rating != nil && p.Rating == nil {
		p.Rating = d.Rating
	}
	if d.ReviewsCount != nil && p.ReviewsCount == nil {
		p.ReviewsCount = d.ReviewsCount
	}
	if d.SellerName != nil && absentText(p.SellerName) {
		p.SellerName = d.SellerName
	}
	if d.Location != nil && absentText(p.Location) {
		p.Location = d.Location
	}
	if d.ShippingPrice != nil && p.ShippingPrice == nil {
		p.ShippingPrice = d.ShippingPrice
	}
	if d.Condition != nil && absentText(p.Condition) {
		p.Condition = d.Condition
	}
	if len(d.Specifications) > 0 && len(p.Specifications) == 0 {
		p.Specifications = d.Specifications
	}

	// Detail-only fields have no listing-page counterpart to defend.
	if d.SellerFeedbackCount != nil && p.SellerFeedbackCount == nil {
		p.SellerFeedbackCount = d.SellerFeedbackCount
	}
	if d.SellerPositivePercent != nil && p.SellerPositivePercent == nil {
		p.SellerPositivePercent = d.SellerPositivePercent
	}
	if d.QuantitySold != nil && p.QuantitySold == nil {
		p.QuantitySold = d.QuantitySold
	}
	if d.ViewsCount != nil && p.ViewsCount == nil {
		p.ViewsCount = d.ViewsCount
	}
	if d.Description != nil && absentText(p.Description) {
		p.Description = d.Description
	}

	return p
}

// absentText treats both nil and a leaked "Unknown" placeholder as absent.
func absentText(s *string) bool {
	return s == nil || *s == "" || *s == "Unknown"
}
