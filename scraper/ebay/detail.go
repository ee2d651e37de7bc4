package ebay

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/itsaril/Data-Collection-SIS-2/models"
	"github.com/itsaril/Data-Collection-SIS-2/services"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

var (
	percentRegexp = regexp.MustCompile(`([\d.]+)%`)
	parenRegexp   = regexp.MustCompile(`\((\d+)\)`)
	countRegexp   = regexp.MustCompile(`([\d,]+)`)
)

// DetailExtractor parses one product detail page into a sparse field set.
// Every lookup is best-effort: a missing element yields no entry, never an
// error, and a malformed embedded JSON block is skipped. For any given key
// the first source that produces a value wins.
type DetailExtractor struct {
	logger *utils.Logger
}

// NewDetailExtractor creates a DetailExtractor with the given logger.
func NewDetailExtractor(logger *utils.Logger) *DetailExtractor {
	return &DetailExtractor{logger: logger}
}

// Parse extracts supplementary fields from detail-page markup. The result
// may be empty; it is never nil.
func (e *DetailExtractor) Parse(markup string) *models.DetailFields {
	d := &models.DetailFields{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		e.logger.Warn("[detail] Unreadable markup: %v", err)
		return d
	}

	e.scanEmbeddedJSON(doc, d)
	e.scanSelectors(doc, d)
	e.scanSpecRows(doc, d)

	return d
}

// scanEmbeddedJSON walks the page's application/json script blocks for trust
// signals (positive-feedback percentage, items-sold count) and the
// "about this item" feature table.
func (e *DetailExtractor) scanEmbeddedJSON(doc *goquery.Document, d *models.DetailFields) {
	doc.Find(qEmbeddedJSON.selector).Each(func(_ int, script *goquery.Selection) {
		var payload map[string]any
		if err := json.Unmarshal([]byte(script.Text()), &payload); err != nil {
			return
		}

		if signals, ok := payload["trustSignals"].([]any); ok {
			e.readTrustSignals(signals, d)
		}

		if specs := aboutThisItemSpecs(payload); len(specs) > 0 && len(d.Specifications) == 0 {
			d.Specifications = specs
		}
	})
}

func (e *DetailExtractor) readTrustSignals(signals []any, d *models.DetailFields) {
	for _, s := range signals {
		signal, ok := s.(map[string]any)
		if !ok {
			continue
		}
		for _, span := range textSpans(signal) {
			switch {
			case strings.Contains(span, "positive feedback"):
				if d.Rating == nil {
					if m := percentRegexp.FindStringSubmatch(span); m != nil {
						if v, err := strconv.ParseFloat(m[1], 64); err == nil {
							d.Rating = &v
						}
					}
				}
			case strings.Contains(span, "sold"):
				if d.ReviewsCount == nil {
					if n, ok := parseSoldCount(span); ok {
						d.ReviewsCount = &n
					}
				}
			}
		}
	}
}

// parseSoldCount reads counts like "1,234 items sold" or "2.4K sold",
// applying the "K" thousands multiplier when present.
func parseSoldCount(text string) (int, bool) {
	text = strings.ReplaceAll(text, "items sold", "")
	text = strings.TrimSpace(strings.ReplaceAll(text, "sold", ""))
	if strings.Contains(text, "K") {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text, "K", "")), 64)
		if err != nil {
			return 0, false
		}
		return int(v * 1000), true
	}
	if m := countRegexp.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			return n, true
		}
	}
	return 0, false
}

// aboutThisItemSpecs digs the label/value feature table out of the
// ABOUT_THIS_ITEM payload. Any structural mismatch yields nothing.
func aboutThisItemSpecs(payload map[string]any) map[string]string {
	about, ok := payload["ABOUT_THIS_ITEM"].(map[string]any)
	if !ok {
		return nil
	}
	sections, ok := about["sections"].(map[string]any)
	if !ok {
		return nil
	}
	features, ok := sections["features"].(map[string]any)
	if !ok {
		return nil
	}
	dataItems, ok := features["dataItems"].(map[string]any)
	if !ok {
		return nil
	}

	specs := make(map[string]string)
	for _, item := range dataItems {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		label := firstSpanText(entry["labels"])
		value := firstSpanText(entry["values"])
		if label != "" && value != "" {
			specs[label] = value
		}
	}
	if len(specs) == 0 {
		return nil
	}
	return specs
}

// textSpans flattens a block's textSpans into plain strings.
func textSpans(block map[string]any) []string {
	spans, ok := block["textSpans"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, s := range spans {
		if span, ok := s.(map[string]any); ok {
			if text, ok := span["text"].(string); ok {
				out = append(out, text)
			}
		}
	}
	return out
}

// firstSpanText returns the text of the first textSpan of the first block in
// a labels/values list.
func firstSpanText(v any) string {
	blocks, ok := v.([]any)
	if !ok || len(blocks) == 0 {
		return ""
	}
	block, ok := blocks[0].(map[string]any)
	if !ok {
		return ""
	}
	if spans := textSpans(block); len(spans) > 0 {
		return spans[0]
	}
	return ""
}

// scanSelectors reads the targeted per-field selectors.
func (e *DetailExtractor) scanSelectors(doc *goquery.Document, d *models.DetailFields) {
	if d.SellerName == nil {
		d.SellerName = services.NormalizeText(textOf(doc.Selection, qSeller))
	}

	if d.SellerFeedbackCount == nil {
		if m := parenRegexp.FindStringSubmatch(textOf(doc.Selection, qFeedback)); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				d.SellerFeedbackCount = &n
			}
		}
	}

	if d.SellerPositivePercent == nil {
		if m := percentRegexp.FindStringSubmatch(textOf(doc.Selection, qPositivePct)); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				d.SellerPositivePercent = &v
			}
		}
	}

	if d.Location == nil {
		d.Location = services.NormalizeLocation(textOf(doc.Selection, qItemLocation))
	}

	if d.ShippingPrice == nil {
		if text := textOf(doc.Selection, qShipping); text != "" {
			// Free shipping normalizes to absent, matching the canonical
			// "absent if 0" shipping invariant.
			if !strings.Contains(text, "Free") && !strings.Contains(text, "Бесплатно") {
				if m := shippingPriceRegexp.FindString(text); m != "" {
					d.ShippingPrice = services.NormalizePrice(services.ParseRawPrice(m))
				}
			}
		}
	}

	if d.Condition == nil {
		d.Condition = services.NormalizeCondition(textOf(doc.Selection, qCondition))
	}

	if d.QuantitySold == nil {
		if m := countRegexp.FindStringSubmatch(textOf(doc.Selection, qQtySold)); m != nil {
			if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
				d.QuantitySold = &n
			}
		}
	}

	if d.ViewsCount == nil {
		if m := countRegexp.FindStringSubmatch(textOf(doc.Selection, qViews)); m != nil {
			if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
				d.ViewsCount = &n
			}
		}
	}

	if d.Description == nil {
		d.Description = services.NormalizeText(textOf(doc.Selection, qDescription))
	}
}

// scanSpecRows runs the generic label/value row scan over the specifications
// block, pairing bold labels with non-bold values. Keys already present from
// the embedded payload are kept.
func (e *DetailExtractor) scanSpecRows(doc *goquery.Document, d *models.DetailFields) {
	doc.Find(qSpecRow.selector).Each(func(_ int, row *goquery.Selection) {
		label := services.NormalizeText(textOf(row, qSpecLabel))
		value := services.NormalizeText(textOf(row, qSpecValue))
		if label == nil || value == nil {
			return
		}
		if d.Specifications == nil {
			d.Specifications = make(map[string]string)
		}
		if _, exists := d.Specifications[*label]; !exists {
			d.Specifications[*label] = *value
		}
	})
}
