package services

import (
	"errors"
	"time"

	"github.com/itsaril/Data-Collection-SIS-2/models"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

// ErrEmptyBatch is returned when no valid record survives an entire page
// set. An empty result after filtering usually means the upstream markup
// structure changed, so the caller must treat it as fatal.
var ErrEmptyBatch = errors.New("no valid records survived the batch")

// ListingParser extracts raw product cards from one listing page.
type ListingParser interface {
	Parse(markup string) ([]models.RawProduct, int)
}

// DetailParser extracts sparse supplementary fields from one detail page.
type DetailParser interface {
	Parse(markup string) *models.DetailFields
}

// DetailSource supplies detail-page markup per record position (1-based),
// or ok=false when the page is unavailable.
type DetailSource interface {
	DetailPage(position int) (string, bool)
}

// RawSink receives every extracted card before validation, for raw dumps.
type RawSink interface {
	WriteRaw(products []models.RawProduct) error
}

// Pipeline sequences extraction, validation, cleaning, deduplication and
// enrichment over a batch of listing pages, accumulating statistics.
type Pipeline struct {
	logger   *utils.Logger
	listings ListingParser
	details  DetailParser
	cleaner  *Cleaner
	deduper  *Deduplicator
	enricher *Enricher

	concurrency int
	report      *models.Report
	rawSink     RawSink
}

// NewPipeline wires a Pipeline. concurrency bounds parallel page parsing;
// values below 1 are clamped to 1.
func NewPipeline(listings ListingParser, details DetailParser, concurrency int, logger *utils.Logger) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		logger:      logger,
		listings:    listings,
		details:     details,
		cleaner:     NewCleaner(logger),
		deduper:     NewDeduplicator(logger),
		enricher:    NewEnricher(logger),
		concurrency: concurrency,
		report:      models.NewReport(),
	}
}

// SetRawSink attaches a sink that receives every extracted card before any
// filtering. A write failure is logged, not fatal.
func (p *Pipeline) SetRawSink(sink RawSink) {
	p.rawSink = sink
}

// Report exposes the statistics accumulated so far.
func (p *Pipeline) Report() *models.Report {
	return p.report
}

// Run processes a batch of listing pages: extract every card, gate on raw
// validity, clean, deduplicate, gate again on the normalized values. Pages
// are parsed in parallel but results keep page order, so dedup's
// first-seen-wins outcome is deterministic.
func (p *Pipeline) Run(pages []string) ([]models.Product, error) {
	started := time.Now()
	defer func() { p.report.Elapsed = time.Since(started) }()

	// An empty page set is not evidence of a markup change; only a wipeout
	// over real pages is fatal.
	if len(pages) == 0 {
		return nil, nil
	}

	perPage := make([][]models.RawProduct, len(pages))
	skips := make([]int, len(pages))

	pool := utils.NewWorkerPool(p.concurrency, 0)
	for i := range pages {
		i, page := i, pages[i]
		pool.Submit(func() {
			perPage[i], skips[i] = p.listings.Parse(page)
		})
	}
	pool.Wait()

	var raw []models.RawProduct
	for i := range perPage {
		raw = append(raw, perPage[i]...)
		p.report.CardsSkipped += skips[i]
	}
	p.report.PagesParsed = len(pages)
	p.report.CardsFound = len(raw)
	p.logger.Info("[pipeline] Pages parsed: %d, cards found: %d", len(pages), len(raw))

	if p.rawSink != nil && len(raw) > 0 {
		if err := p.rawSink.WriteRaw(raw); err != nil {
			p.logger.Warn("[pipeline] Raw dump failed: %v", err)
		}
	}

	valid := make([]models.RawProduct, 0, len(raw))
	for _, r := range raw {
		if p.cleaner.IsRawValid(r) {
			valid = append(valid, r)
		} else {
			p.report.InvalidDropped++
		}
	}

	cleaned := p.cleaner.CleanAll(valid)

	unique, duplicates := p.deduper.Dedupe(cleaned)
	p.report.DuplicatesRemoved = duplicates

	final := make([]models.Product, 0, len(unique))
	for _, prod := range unique {
		if p.cleaner.IsValid(prod) {
			final = append(final, prod)
		} else {
			p.report.InvalidDropped++
		}
	}
	p.report.FinalCount = len(final)

	if len(final) == 0 {
		return nil, ErrEmptyBatch
	}
	return final, nil
}

// Enrich merges detail-page data into each record. Pairing is strictly
// positional: the Nth record gets the Nth detail page. Records whose detail
// page is unavailable pass through unchanged.
func (p *Pipeline) Enrich(products []models.Product, source DetailSource) []models.Product {
	enriched := make([]models.Product, len(products))
	for i, prod := range products {
		markup, ok := source.DetailPage(i + 1)
		if !ok || markup == "" {
			p.report.DetailsMissing++
			enriched[i] = prod
			continue
		}
		fields := p.details.Parse(markup)
		if fields.Empty() {
			p.report.DetailsMissing++
			enriched[i] = prod
			continue
		}
		enriched[i] = p.enricher.Merge(prod, fields)
		p.report.Enriched++
	}
	p.logger.Info("[pipeline] Enriched %d/%d records (%d detail pages unavailable)",
		p.report.Enriched, len(products), p.report.DetailsMissing)
	return enriched
}
