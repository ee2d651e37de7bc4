package ebay

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

// FileSource serves page markup from the HTML snapshots the external fetcher
// writes to disk: page_1.html, page_2.html, ... for listing pages and
// product_1.html, product_2.html, ... for detail pages (numbered by record
// position). Acquisition itself — navigation, delays, CAPTCHA — lives in
// that fetcher, not here.
type FileSource struct {
	dir    string
	logger *utils.Logger
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string, logger *utils.Logger) *FileSource {
	return &FileSource{dir: dir, logger: logger}
}

// ListingPages loads consecutive listing-page snapshots, stopping at the
// first missing file or once the page estimate covers maxItems
// (itemsPerPage is a stopping heuristic, not an item count).
func (s *FileSource) ListingPages(maxItems, itemsPerPage int) ([]string, error) {
	var pages []string
	for n := 1; ; n++ {
		path := filepath.Join(s.dir, fmt.Sprintf("page_%d.html", n))
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				break
			}
			return pages, fmt.Errorf("source: read %s: %w", path, err)
		}
		pages = append(pages, string(data))
		s.logger.Debug("[source] Loaded listing page %d (%d bytes)", n, len(data))

		if itemsPerPage > 0 && n*itemsPerPage >= maxItems {
			break
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("source: no listing page snapshots in %s", s.dir)
	}
	s.logger.Info("[source] Listing pages loaded: %d", len(pages))
	return pages, nil
}

// DetailPage returns the detail-page snapshot for the record at the given
// position (1-based), or ok=false when the fetcher never produced one.
func (s *FileSource) DetailPage(position int) (string, bool) {
	path := filepath.Join(s.dir, fmt.Sprintf("product_%d.html", position))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}
