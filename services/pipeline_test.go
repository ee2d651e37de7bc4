package services_test

import (
	"errors"
	"testing"

	"github.com/itsaril/Data-Collection-SIS-2/models"
	"github.com/itsaril/Data-Collection-SIS-2/scraper/ebay"
	"github.com/itsaril/Data-Collection-SIS-2/services"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

const pageFixture = `<html><body>
<a href="https://x/item1&tracking=1"><div class="su-card-container">
  <span class="su-styled-text--header">Gaming Laptop Pro first</span>
  <span class="s-card__price">$1,234.00</span>
  <div class="s-card__subtitle">Brand New</div>
</div></a>
<a href="https://x/item1&other=2"><div class="su-card-container">
  <span class="su-styled-text--header">Gaming Laptop Pro second</span>
  <span class="s-card__price">$1,234.00</span>
</div></a>
<a href="https://x/item2"><div class="su-card-container">
  <span class="su-styled-text--header">Budget Tablet 8in</span>
  <span class="s-card__price">£99.95</span>
</div></a>
<div class="su-card-container">
  <span class="su-styled-text--header">Shop on eBay</span>
</div>
</body></html>`

// mapSource serves detail markup by record position.
type mapSource map[int]string

func (m mapSource) DetailPage(position int) (string, bool) {
	markup, ok := m[position]
	return markup, ok
}

func newPipeline() *services.Pipeline {
	logger := utils.NewLogger()
	return services.NewPipeline(
		ebay.NewListingExtractor(logger),
		ebay.NewDetailExtractor(logger),
		2,
		logger,
	)
}

func TestPipelineRunCleansAndDeduplicates(t *testing.T) {
	p := newPipeline()

	products, err := p.Run([]string{pageFixture})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("got %d records; want 2 (dedup by item_url)", len(products))
	}

	first := products[0]
	if first.Title == nil || *first.Title != "Gaming Laptop Pro first" {
		t.Errorf("title = %v; first-seen record must survive dedup", first.Title)
	}
	if first.ItemURL == nil || *first.ItemURL != "https://x/item1" {
		t.Errorf("item_url = %v; want tracking suffix stripped", first.ItemURL)
	}
	if first.Price == nil || *first.Price != 1234.00 {
		t.Errorf("price = %v; want 1234.00", first.Price)
	}
	if first.Currency != "USD" {
		t.Errorf("currency = %q; want USD", first.Currency)
	}

	second := products[1]
	if second.Currency != "GBP" {
		t.Errorf("currency = %q; want GBP", second.Currency)
	}

	report := p.Report()
	if report.CardsFound != 3 {
		t.Errorf("cards found = %d; want 3", report.CardsFound)
	}
	if report.CardsSkipped != 1 {
		t.Errorf("cards skipped = %d; want 1 (placeholder)", report.CardsSkipped)
	}
	if report.DuplicatesRemoved != 1 {
		t.Errorf("duplicates removed = %d; want 1", report.DuplicatesRemoved)
	}
	if report.FinalCount != 2 {
		t.Errorf("final count = %d; want 2", report.FinalCount)
	}
}

func TestPipelinePreservesPageOrder(t *testing.T) {
	p := newPipeline()

	pageA := `<a href="https://x/a1"><div class="su-card-container">
		<span class="su-styled-text--header">Page A product</span></div></a>`
	pageB := `<a href="https://x/b1"><div class="su-card-container">
		<span class="su-styled-text--header">Page B product</span></div></a>`

	products, err := p.Run([]string{pageA, pageB})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d records; want 2", len(products))
	}
	if *products[0].Title != "Page A product" || *products[1].Title != "Page B product" {
		t.Errorf("order lost: %q, %q", *products[0].Title, *products[1].Title)
	}
}

func TestPipelineEmptyBatchIsHardFailure(t *testing.T) {
	p := newPipeline()

	_, err := p.Run([]string{"<html><body></body></html>"})
	if !errors.Is(err, services.ErrEmptyBatch) {
		t.Errorf("err = %v; want ErrEmptyBatch", err)
	}
}

func TestPipelineNoPagesIsNotAFailure(t *testing.T) {
	p := newPipeline()

	products, err := p.Run(nil)
	if err != nil {
		t.Errorf("err = %v; want nil for an empty page set", err)
	}
	if len(products) != 0 {
		t.Errorf("got %d products; want none", len(products))
	}
}

func TestPipelineEnrichPairsPositionally(t *testing.T) {
	p := newPipeline()

	products, err := p.Run([]string{pageFixture})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	detail := `<div class="x-sellercard-atf__info__about-seller"><a>Bob</a></div>`
	// Only the second record has a detail page; the first passes through.
	enriched := p.Enrich(products, mapSource{2: detail})

	if enriched[0].SellerName != nil {
		t.Errorf("record 1 seller = %v; want untouched", enriched[0].SellerName)
	}
	if enriched[1].SellerName == nil || *enriched[1].SellerName != "Bob" {
		t.Errorf("record 2 seller = %v; want Bob", enriched[1].SellerName)
	}

	report := p.Report()
	if report.Enriched != 1 || report.DetailsMissing != 1 {
		t.Errorf("enriched = %d, missing = %d; want 1, 1", report.Enriched, report.DetailsMissing)
	}
}

func TestPipelineEnrichNeverOverwrites(t *testing.T) {
	p := newPipeline()

	alice := "Alice"
	products := []models.Product{{SellerName: &alice}}

	detail := `<div class="x-sellercard-atf__info__about-seller"><a>Bob</a></div>`
	enriched := p.Enrich(products, mapSource{1: detail})

	if *enriched[0].SellerName != "Alice" {
		t.Errorf("seller = %q; listing value must win", *enriched[0].SellerName)
	}
}
