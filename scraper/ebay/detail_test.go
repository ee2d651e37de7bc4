package ebay

import (
	"testing"
)

const detailFixture = `<html><body>
<script type="application/json">{not valid json</script>
<script type="application/json">{"trustSignals":[
  {"textSpans":[{"text":"98.7% positive feedback"}]},
  {"textSpans":[{"text":"2.4K items sold"}]}
]}</script>
<script type="application/json">{"ABOUT_THIS_ITEM":{"sections":{"features":{"dataItems":{
  "f1":{"labels":[{"textSpans":[{"text":"Brand"}]}],"values":[{"textSpans":[{"text":"Lenovo"}]}]},
  "f2":{"labels":[{"textSpans":[{"text":"Screen Size"}]}],"values":[{"textSpans":[{"text":"14 in"}]}]}
}}}}}</script>
<div class="x-sellercard-atf__info__about-seller"><a>  techdeals   store </a></div>
<span class="ux-textspans--SECONDARY">(1543)</span>
<span class="ux-textspans--POSITIVE">99.1% positive feedback</span>
<div class="ux-labels-values--shipping"><span class="ux-textspans--SECONDARY">из: Москва</span></div>
<span data-testid="ux-labels-values__values-content"><span class="ux-textspans">$12.50 Standard</span></span>
<div class="x-item-condition-text"><span class="ux-textspans">Pre-Owned</span></div>
<span class="ux-textspans--SECONDARY" data-testid="qty-sold">3,120 sold</span>
<span class="ux-textspans--SECONDARY vim-views">1,050 viewed in 24h</span>
<div class="ux-layout-section__item--description">  Solid   machine, light wear.  </div>
<div class="ux-labels-values">
  <span class="ux-textspans ux-textspans--BOLD">Model</span>
  <span class="ux-textspans">X1 Carbon</span>
</div>
<div class="ux-labels-values">
  <span class="ux-textspans ux-textspans--BOLD">Brand</span>
  <span class="ux-textspans">ThinkPad</span>
</div>
</body></html>`

func TestDetailExtractorFullPage(t *testing.T) {
	e := NewDetailExtractor(newTestLogger())

	d := e.Parse(detailFixture)

	if d.Rating == nil || *d.Rating != 98.7 {
		t.Errorf("rating = %v; want 98.7 from trust signals", d.Rating)
	}
	if d.ReviewsCount == nil || *d.ReviewsCount != 2400 {
		t.Errorf("reviews_count = %v; want 2400 (K multiplier applied)", d.ReviewsCount)
	}
	if d.SellerName == nil || *d.SellerName != "techdeals store" {
		t.Errorf("seller_name = %v; want whitespace collapsed", d.SellerName)
	}
	if d.SellerFeedbackCount == nil || *d.SellerFeedbackCount != 1543 {
		t.Errorf("seller_feedback_count = %v; want 1543", d.SellerFeedbackCount)
	}
	if d.SellerPositivePercent == nil || *d.SellerPositivePercent != 99.1 {
		t.Errorf("seller_positive = %v; want 99.1", d.SellerPositivePercent)
	}
	if d.Location == nil || *d.Location != "Москва" {
		t.Errorf("location = %v; want Москва", d.Location)
	}
	if d.ShippingPrice == nil || *d.ShippingPrice != 12.50 {
		t.Errorf("shipping_price = %v; want 12.50", d.ShippingPrice)
	}
	if d.Condition == nil || *d.Condition != "Used" {
		t.Errorf("condition = %v; want Used", d.Condition)
	}
	if d.QuantitySold == nil || *d.QuantitySold != 3120 {
		t.Errorf("quantity_sold = %v; want 3120", d.QuantitySold)
	}
	if d.ViewsCount == nil || *d.ViewsCount != 1050 {
		t.Errorf("views_count = %v; want 1050", d.ViewsCount)
	}
	if d.Description == nil || *d.Description != "Solid machine, light wear." {
		t.Errorf("description = %v; want collapsed text", d.Description)
	}

	// Embedded payload wins for keys it produced; the row scan only adds new ones.
	if d.Specifications["Brand"] != "Lenovo" {
		t.Errorf("specifications[Brand] = %q; first source must win", d.Specifications["Brand"])
	}
	if d.Specifications["Screen Size"] != "14 in" {
		t.Errorf("specifications[Screen Size] = %q; want 14 in", d.Specifications["Screen Size"])
	}
	if d.Specifications["Model"] != "X1 Carbon" {
		t.Errorf("specifications[Model] = %q; row scan should add new keys", d.Specifications["Model"])
	}
}

func TestDetailExtractorEmptyPage(t *testing.T) {
	e := NewDetailExtractor(newTestLogger())

	d := e.Parse("<html><body><p>nothing useful</p></body></html>")
	if !d.Empty() {
		t.Errorf("expected empty detail fields, got %+v", d)
	}
}

func TestDetailExtractorSkipsMalformedJSON(t *testing.T) {
	e := NewDetailExtractor(newTestLogger())

	markup := `<script type="application/json">{"broken":</script>
		<script type="application/json">{"trustSignals":[{"textSpans":[{"text":"95% positive feedback"}]}]}</script>`

	d := e.Parse(markup)
	if d.Rating == nil || *d.Rating != 95 {
		t.Errorf("rating = %v; a malformed block must not stop the scan", d.Rating)
	}
}

func TestDetailExtractorPlainSoldCount(t *testing.T) {
	e := NewDetailExtractor(newTestLogger())

	markup := `<script type="application/json">{"trustSignals":[{"textSpans":[{"text":"1,234 items sold"}]}]}</script>`

	d := e.Parse(markup)
	if d.ReviewsCount == nil || *d.ReviewsCount != 1234 {
		t.Errorf("reviews_count = %v; want 1234", d.ReviewsCount)
	}
}
