package services

import (
	"time"

	"github.com/itsaril/Data-Collection-SIS-2/models"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

// completenessFields are the optional fields whose fill rate the batch
// summary tracks.
var completenessFields = []string{"price", "condition", "location", "shipping_price"}

// Reporter turns a batch's statistics into a readable summary.
type Reporter struct {
	logger *utils.Logger
}

// NewReporter creates a Reporter with the given logger.
func NewReporter(logger *utils.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Generate fills the report's completeness counters from the final record
// set and returns it.
func (r *Reporter) Generate(report *models.Report, products []models.Product) *models.Report {
	for k := range report.Completeness {
		delete(report.Completeness, k)
	}
	for _, p := range products {
		if p.Price != nil {
			report.Completeness["price"]++
		}
		if p.Condition != nil {
			report.Completeness["condition"]++
		}
		if p.Location != nil {
			report.Completeness["location"]++
		}
		if p.ShippingPrice != nil {
			report.Completeness["shipping_price"]++
		}
	}
	report.FinalCount = len(products)
	return report
}

// Print logs the cleaning statistics and field completeness of a batch.
func (r *Reporter) Print(report *models.Report) {
	r.logger.Info("=== Batch statistics ===")
	r.logger.Info("Pages parsed:       %d", report.PagesParsed)
	r.logger.Info("Cards found:        %d", report.CardsFound)
	r.logger.Info("Cards skipped:      %d", report.CardsSkipped)
	r.logger.Info("Invalid dropped:    %d", report.InvalidDropped)
	r.logger.Info("Duplicates removed: %d", report.DuplicatesRemoved)
	if report.Enriched > 0 || report.DetailsMissing > 0 {
		r.logger.Info("Enriched:           %d (missing detail pages: %d)",
			report.Enriched, report.DetailsMissing)
	}
	r.logger.Info("Final records:      %d", report.FinalCount)
	if report.Elapsed > 0 {
		r.logger.Info("Elapsed:            %s", report.Elapsed.Round(time.Millisecond))
	}

	if report.FinalCount == 0 {
		return
	}
	r.logger.Info("--- Field completeness ---")
	for _, field := range completenessFields {
		filled := report.Completeness[field]
		pct := float64(filled) / float64(report.FinalCount) * 100
		r.logger.Info("%-15s %4d/%d (%.1f%%)", field, filled, report.FinalCount, pct)
	}
}
