package ebay

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/itsaril/Data-Collection-SIS-2/models"
	"github.com/itsaril/Data-Collection-SIS-2/services"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

const (
	maxTitleLen     = 150
	maxURLLen       = 200
	trackingMarker  = "&itmprp="
	placeholderCard = "Shop on eBay"
)

// Text scrubbed from titles before use.
var titleNoise = []string{"New ad", "Opens in a new window or tab"}

// shippingPriceRegexp matches a currency-prefixed amount inside shipping text.
var shippingPriceRegexp = regexp.MustCompile(`[\$€£]\s*[\d,\.]+`)

// Skip reasons for a single card. Neither aborts the page.
var (
	errEmptyTitle      = errors.New("card has no usable title")
	errPlaceholderCard = errors.New("card is a non-product placeholder")
)

// ListingExtractor parses search-results markup into raw product records,
// one per card, in document order.
type ListingExtractor struct {
	logger *utils.Logger
}

// NewListingExtractor creates a ListingExtractor with the given logger.
func NewListingExtractor(logger *utils.Logger) *ListingExtractor {
	return &ListingExtractor{logger: logger}
}

// Parse extracts every product card from one listing page. Cards that cannot
// be parsed are skipped and counted; a malformed card never aborts the page.
// Unreadable markup yields zero cards, not an error.
func (e *ListingExtractor) Parse(markup string) ([]models.RawProduct, int) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		e.logger.Warn("[listing] Unreadable markup: %v", err)
		return nil, 0
	}

	var products []models.RawProduct
	skipped := 0

	doc.Find(qCard.selector).Each(func(i int, card *goquery.Selection) {
		raw, err := e.extractCard(card)
		if err != nil {
			skipped++
			e.logger.Debug("[listing] Card #%d skipped: %v", i, err)
			return
		}
		products = append(products, raw)
	})

	e.logger.Info("[listing] Product cards found: %d (skipped %d)", len(products), skipped)
	return products, skipped
}

// extractCard pulls every raw field out of one product card. It returns a
// skip reason instead of a record for placeholder and titleless cards.
func (e *ListingExtractor) extractCard(card *goquery.Selection) (models.RawProduct, error) {
	title := cardTitle(card)
	switch title {
	case "":
		return models.RawProduct{}, errEmptyTitle
	case placeholderCard:
		return models.RawProduct{}, errPlaceholderCard
	}
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen])
	}

	priceText := textOf(card, qPrice)
	if priceText == "" {
		priceText = "$0"
	}

	raw := models.RawProduct{
		Title:      title,
		Price:      services.ParseRawPrice(priceText),
		Currency:   currencyOf(priceText),
		Condition:  conditionOf(textOf(card, qSubtitle)),
		SellerName: "Unknown", // never present on search-results pages
		Location:   "Unknown",
		ItemURL:    "N/A",
		ScrapedAt:  time.Now().Format(services.ScrapedAtLayout),
	}

	// One pass over the styled-text spans covers both location and shipping.
	spans := card.Find(qStyledText.selector)
	if loc, ok := locationOf(spans); ok {
		raw.Location = loc
	}
	raw.ShippingPrice = shippingOf(spans)

	if url, ok := itemURL(card); ok {
		raw.ItemURL = url
	}

	return raw, nil
}

// cardTitle reads the title from its primary location, falling back to the
// alternate card layout, and scrubs overlay noise.
func cardTitle(card *goquery.Selection) string {
	title := textOf(card, qTitle)
	if title == "" {
		title = textOf(card, qTitleAlt)
	}
	for _, noise := range titleNoise {
		title = strings.ReplaceAll(title, noise, "")
	}
	return strings.TrimSpace(title)
}

// currencyOf infers the currency from symbols or codes in raw price text,
// checking EUR and GBP before defaulting to USD.
func currencyOf(priceText string) string {
	switch {
	case strings.Contains(priceText, "EUR") || strings.Contains(priceText, "€"):
		return "EUR"
	case strings.Contains(priceText, "GBP") || strings.Contains(priceText, "£"):
		return "GBP"
	default:
		return "USD"
	}
}

// conditionOf matches the card subtitle against the localized condition
// vocabulary. Unknown stays "Unknown" for the cleaner to absorb.
func conditionOf(subtitle string) string {
	switch {
	case strings.Contains(subtitle, "Совершенно новый"),
		strings.Contains(subtitle, "Brand New"),
		strings.Contains(subtitle, "New"):
		return "New"
	case strings.Contains(subtitle, "Восстановлен"),
		strings.Contains(subtitle, "Refurbished"):
		return "Refurbished"
	case strings.Contains(subtitle, "Б/у"),
		strings.Contains(subtitle, "Used"),
		strings.Contains(subtitle, "Pre-Owned"):
		return "Used"
	default:
		return "Unknown"
	}
}

// locationOf scans styled-text spans for the first one carrying a
// "from:"-style prefix.
func locationOf(spans *goquery.Selection) (string, bool) {
	location := ""
	spans.EachWithBreak(func(_ int, span *goquery.Selection) bool {
		text := strings.TrimSpace(span.Text())
		if strings.HasPrefix(text, "из:") || strings.HasPrefix(text, "from:") ||
			strings.HasPrefix(text, "From:") {
			for _, p := range []string{"из:", "from:", "From:"} {
				text = strings.ReplaceAll(text, p, "")
			}
			location = strings.TrimSpace(text)
			return false
		}
		return true
	})
	return location, location != ""
}

// shippingOf scans styled-text spans for shipping wording: free shipping is
// 0, priced shipping is read from a currency-prefixed amount.
func shippingOf(spans *goquery.Selection) float64 {
	price := 0.0
	spans.EachWithBreak(func(_ int, span *goquery.Selection) bool {
		text := strings.TrimSpace(span.Text())
		if strings.Contains(text, "Бесплатная") || strings.Contains(text, "Free") ||
			strings.Contains(text, "бесплатная") {
			price = 0
			return false
		}
		lower := strings.ToLower(text)
		if strings.Contains(lower, "доставка") || strings.Contains(lower, "shipping") {
			if m := shippingPriceRegexp.FindString(text); m != "" {
				price = services.ParseRawPrice(m)
			}
			return false
		}
		return true
	})
	return price
}

// itemURL resolves the card's link: an enclosing anchor first, then an inner
// one. Overly long URLs are cut at the tracking-parameter marker.
func itemURL(card *goquery.Selection) (string, bool) {
	href, ok := card.Closest("a").Attr("href")
	if !ok || href == "" {
		href, ok = card.Find("a").First().Attr("href")
	}
	if !ok || href == "" {
		return "", false
	}
	if len(href) > maxURLLen {
		if i := strings.Index(href, trackingMarker); i >= 0 {
			href = href[:i]
		}
	}
	return href, true
}

// textOf returns the trimmed text of the first match for q inside sel.
func textOf(sel *goquery.Selection, q fieldQuery) string {
	return strings.TrimSpace(sel.Find(q.selector).First().Text())
}
