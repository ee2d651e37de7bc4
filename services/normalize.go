package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ScrapedAtLayout is the fixed timestamp format carried on every record.
const ScrapedAtLayout = "2006-01-02 15:04:05"

// validCurrencies is the closed set a record's currency may take.
var validCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "RUB": {}, "CNY": {},
}

// placeholders are string sentinels that mean "no value" upstream.
var placeholders = map[string]struct{}{
	"": {}, "N/A": {}, "Unknown": {},
}

// rawPriceRegexp strips everything but digits and separators from price text.
var rawPriceRegexp = regexp.MustCompile(`[^\d.,]`)

// conditionVocab maps localized substrings to a canonical condition, checked
// in order. Refurbished comes first so that "renewed" is never caught by the
// "new" substring.
var conditionVocab = []struct {
	words     []string
	canonical string
}{
	{[]string{"refurbished", "восстановлен", "renewed"}, "Refurbished"},
	{[]string{"new", "новый", "brand new"}, "New"},
	{[]string{"used", "б/у", "pre-owned"}, "Used"},
}

// locationPrefixes are locale markers stripped before title-casing.
var locationPrefixes = []string{"from:", "From:", "из:"}

// NormalizeText collapses internal whitespace runs to single spaces and
// trims. Returns nil for empty input or a known placeholder.
func NormalizeText(s string) *string {
	if _, skip := placeholders[s]; skip {
		return nil
	}
	s = strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
	if _, skip := placeholders[s]; skip {
		return nil
	}
	return &s
}

// NormalizePrice rounds to two fractional digits. Zero and negative values
// mean "no price found" and come back nil.
func NormalizePrice(p float64) *float64 {
	if p <= 0 {
		return nil
	}
	r := round2(p)
	return &r
}

// NormalizeCondition maps localized condition text onto {New, Refurbished,
// Used} by substring match; unrecognized non-empty text is title-cased as-is.
func NormalizeCondition(s string) *string {
	if s == "" || s == "Unknown" {
		return nil
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, group := range conditionVocab {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				c := group.canonical
				return &c
			}
		}
	}
	t := titleCase(s)
	return &t
}

// NormalizeLocation strips "from:"-style locale prefixes and title-cases.
func NormalizeLocation(s string) *string {
	if s == "" || s == "Unknown" {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, p := range locationPrefixes {
		s = strings.ReplaceAll(s, p, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t := titleCase(s)
	return &t
}

// NormalizeCurrency upper-cases and validates against the fixed currency
// set, defaulting to USD.
func NormalizeCurrency(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if _, ok := validCurrencies[s]; ok {
		return s
	}
	return "USD"
}

// NormalizeURL drops everything after the first '&' (tracking parameters).
func NormalizeURL(s string) *string {
	if s == "" || s == "N/A" {
		return nil
	}
	if i := strings.IndexByte(s, '&'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeDatetime validates against ScrapedAtLayout, falling back to the
// current time on mismatch or absence.
func NormalizeDatetime(s string) string {
	if s == "" {
		return time.Now().Format(ScrapedAtLayout)
	}
	if _, err := time.Parse(ScrapedAtLayout, s); err != nil {
		return time.Now().Format(ScrapedAtLayout)
	}
	return s
}

// NormalizeCount treats zero and negative counts as absent.
func NormalizeCount(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

// ParseRawPrice extracts a decimal from freeform price text such as
// "$1,234.00", "1.234,56 €" or "19,99". When both ',' and '.' occur, the
// rightmost one is the decimal separator and the other is discarded as a
// thousands separator. A lone ',' is decimal only when exactly two digits
// follow it. Returns 0 when no price can be read; 0 is the "no price found"
// sentinel, not an error.
func ParseRawPrice(raw string) float64 {
	s := rawPriceRegexp.ReplaceAllString(raw, "")
	if s == "" {
		return 0
	}

	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if len(s)-lastComma-1 == 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// titleCase upper-cases the first letter of every word, lower-casing the
// rest, the way Python's str.title does.
func titleCase(s string) string {
	prevLetter := false
	return strings.Map(func(r rune) rune {
		wasLetter := prevLetter
		prevLetter = unicode.IsLetter(r)
		if !prevLetter {
			return r
		}
		if wasLetter {
			return unicode.ToLower(r)
		}
		return unicode.ToUpper(r)
	}, s)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
