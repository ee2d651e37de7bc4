// Package ebay extracts product records from saved eBay markup: listing
// (search-results) pages and product detail pages.
package ebay

// fieldQuery names one markup lookup. Selectors are held as data, one per
// field, so each extraction can be unit-tested against a minimal fragment.
type fieldQuery struct {
	name     string
	selector string
}

// Listing-page queries.
var (
	qCard       = fieldQuery{"card", "div.su-card-container"}
	qTitle      = fieldQuery{"title", "span.su-styled-text--header"}
	qTitleAlt   = fieldQuery{"title_alt", "div.s-card__title"}
	qPrice      = fieldQuery{"price", "span.s-card__price"}
	qSubtitle   = fieldQuery{"subtitle", "div.s-card__subtitle"}
	qStyledText = fieldQuery{"styled_text", "span.su-styled-text"}
)

// Detail-page queries.
var (
	qEmbeddedJSON = fieldQuery{"embedded_json", `script[type="application/json"]`}
	qSeller       = fieldQuery{"seller_name", "div.x-sellercard-atf__info__about-seller a"}
	qFeedback     = fieldQuery{"seller_feedback", "span.ux-textspans--SECONDARY"}
	qPositivePct  = fieldQuery{"seller_positive", "span.ux-textspans--POSITIVE"}
	qItemLocation = fieldQuery{"item_location", "div.ux-labels-values--shipping span.ux-textspans--SECONDARY"}
	qShipping     = fieldQuery{"shipping", `span[data-testid="ux-labels-values__values-content"] span.ux-textspans`}
	qCondition    = fieldQuery{"condition", "div.x-item-condition-text span.ux-textspans"}
	qQtySold      = fieldQuery{"quantity_sold", `span.ux-textspans--SECONDARY[data-testid="qty-sold"]`}
	qViews        = fieldQuery{"views", `span.ux-textspans--SECONDARY[class*="views"]`}
	qDescription  = fieldQuery{"description", "div.ux-layout-section__item--description"}
	qSpecRow      = fieldQuery{"spec_row", "div.ux-labels-values"}
	qSpecLabel    = fieldQuery{"spec_label", "span.ux-textspans--BOLD"}
	qSpecValue    = fieldQuery{"spec_value", "span.ux-textspans:not(.ux-textspans--BOLD)"}
)
