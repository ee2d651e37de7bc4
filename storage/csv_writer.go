package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/itsaril/Data-Collection-SIS-2/models"
)

// CSVWriter writes raw (unnormalized) product records to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"title", "price", "currency", "condition", "seller_name", "location",
		"shipping_price", "rating", "reviews_count", "item_url", "scraped_at",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends the given raw records to the CSV file.
func (c *CSVWriter) WriteRaw(products []models.RawProduct) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range products {
		row := []string{
			p.Title,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			p.Currency,
			p.Condition,
			p.SellerName,
			p.Location,
			strconv.FormatFloat(p.ShippingPrice, 'f', 2, 64),
			strconv.FormatFloat(p.Rating, 'f', 2, 64),
			strconv.Itoa(p.ReviewsCount),
			p.ItemURL,
			p.ScrapedAt,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
