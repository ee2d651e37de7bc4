package services

import (
	"testing"

	"github.com/itsaril/Data-Collection-SIS-2/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestFingerprintPrefersURL(t *testing.T) {
	a := models.Product{Title: strPtr("A"), ItemURL: strPtr("https://x/item1")}
	b := models.Product{Title: strPtr("B"), ItemURL: strPtr("https://x/item1")}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("records sharing a URL must share a fingerprint regardless of title")
	}
}

func TestFingerprintFallsBackToTitleAndPrice(t *testing.T) {
	a := models.Product{Title: strPtr("Laptop"), Price: floatPtr(100)}
	b := models.Product{Title: strPtr("Laptop"), Price: floatPtr(100)}
	c := models.Product{Title: strPtr("Laptop"), Price: floatPtr(200)}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("equal title+price must fingerprint equally when URL is absent")
	}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("different prices must fingerprint differently when URL is absent")
	}
}

func TestDedupeFirstSeenWins(t *testing.T) {
	d := NewDeduplicator(newTestLogger())

	records := []models.Product{
		{Title: strPtr("first"), ItemURL: strPtr("https://x/item1")},
		{Title: strPtr("second"), ItemURL: strPtr("https://x/item2")},
		{Title: strPtr("duplicate"), ItemURL: strPtr("https://x/item1")},
	}

	unique, dups := d.Dedupe(records)
	if len(unique) != 2 || dups != 1 {
		t.Fatalf("got %d unique, %d duplicates; want 2, 1", len(unique), dups)
	}
	if *unique[0].Title != "first" || *unique[1].Title != "second" {
		t.Errorf("order or survivor wrong: %q, %q", *unique[0].Title, *unique[1].Title)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	d := NewDeduplicator(newTestLogger())

	records := []models.Product{
		{Title: strPtr("a"), ItemURL: strPtr("https://x/1")},
		{Title: strPtr("b"), ItemURL: strPtr("https://x/1")},
		{Title: strPtr("c"), ItemURL: strPtr("https://x/2")},
	}

	once, _ := d.Dedupe(records)
	twice, dups := d.Dedupe(once)

	if dups != 0 {
		t.Errorf("second pass removed %d records; want 0", dups)
	}
	if len(twice) != len(once) {
		t.Errorf("second pass changed size: %d vs %d", len(twice), len(once))
	}

	seen := make(map[string]struct{})
	for _, p := range twice {
		fp := Fingerprint(p)
		if _, dup := seen[fp]; dup {
			t.Errorf("output contains duplicate fingerprint %s", fp)
		}
		seen[fp] = struct{}{}
	}
}
