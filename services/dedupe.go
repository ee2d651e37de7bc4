package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/itsaril/Data-Collection-SIS-2/models"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

// Deduplicator removes records that share a content fingerprint, keeping the
// first occurrence.
type Deduplicator struct {
	logger *utils.Logger
}

// NewDeduplicator creates a Deduplicator with the given logger.
func NewDeduplicator(logger *utils.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// Fingerprint returns a 128-bit content hash of the record: md5 of the item
// URL when present, otherwise md5 of title and price concatenated.
func Fingerprint(p models.Product) string {
	var key string
	if p.ItemURL != nil && *p.ItemURL != "" {
		key = *p.ItemURL
	} else {
		var title string
		if p.Title != nil {
			title = *p.Title
		}
		var price float64
		if p.Price != nil {
			price = *p.Price
		}
		key = fmt.Sprintf("%s_%g", title, price)
	}
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Dedupe drops records whose fingerprint was already seen, preserving
// first-seen order. Returns the surviving records and the duplicate count.
func (d *Deduplicator) Dedupe(products []models.Product) ([]models.Product, int) {
	seen := make(map[string]struct{}, len(products))
	unique := make([]models.Product, 0, len(products))
	duplicates := 0

	for _, p := range products {
		fp := Fingerprint(p)
		if _, dup := seen[fp]; dup {
			duplicates++
			continue
		}
		seen[fp] = struct{}{}
		unique = append(unique, p)
	}

	if duplicates > 0 {
		d.logger.Info("[dedupe] Duplicates removed: %d", duplicates)
	}
	return unique, duplicates
}
