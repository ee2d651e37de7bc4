package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/itsaril/Data-Collection-SIS-2/models"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		title           TEXT NOT NULL,
		price           REAL,
		currency        TEXT,
		condition       TEXT,
		seller_name     TEXT,
		location        TEXT,
		shipping_price  REAL,
		rating          REAL,
		reviews_count   INTEGER,
		item_url        TEXT UNIQUE,
		scraped_at      TEXT,
		search_query    TEXT,
		specifications  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_products_scraped_at   ON products(scraped_at);
	CREATE INDEX IF NOT EXISTS idx_products_search_query ON products(search_query);
	CREATE INDEX IF NOT EXISTS idx_products_price        ON products(price);
`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id              SERIAL PRIMARY KEY,
		title           TEXT NOT NULL,
		price           NUMERIC(12,2),
		currency        VARCHAR(3),
		condition       TEXT,
		seller_name     TEXT,
		location        TEXT,
		shipping_price  NUMERIC(12,2),
		rating          NUMERIC(6,2),
		reviews_count   INTEGER,
		item_url        TEXT UNIQUE,
		scraped_at      TEXT,
		search_query    TEXT,
		specifications  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_products_scraped_at   ON products(scraped_at);
	CREATE INDEX IF NOT EXISTS idx_products_search_query ON products(search_query);
	CREATE INDEX IF NOT EXISTS idx_products_price        ON products(price);
`

// SQLWriter upserts canonical records into a relational store keyed by
// item_url. Both backends share the statement shape and differ only in
// schema dialect and placeholder style.
type SQLWriter struct {
	db           *sql.DB
	logger       *utils.Logger
	placeholders func(n int) []string
}

// NewSQLiteWriter opens (or creates) a SQLite database at path.
func NewSQLiteWriter(path string, logger *utils.Logger) (*SQLWriter, error) {
	return newSQLWriter("sqlite", path, sqliteSchema, questionPlaceholders, logger)
}

// NewPostgresWriter connects to PostgreSQL with the given DSN.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*SQLWriter, error) {
	return newSQLWriter("postgres", dsn, postgresSchema, dollarPlaceholders, logger)
}

func newSQLWriter(driver, dsn, schema string, placeholders func(int) []string, logger *utils.Logger) (*SQLWriter, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do(driver+"-connect", db.Ping); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: create schema: %w", driver, err)
	}

	return &SQLWriter{db: db, logger: logger, placeholders: placeholders}, nil
}

// Write upserts every record: new item URLs insert, known ones update in
// place. Records without a URL are skipped (the unique key cannot hold them).
func (w *SQLWriter) Write(products []models.Product, searchQuery string) error {
	const cols = 13
	ph := w.placeholders(cols)

	query := fmt.Sprintf(`
		INSERT INTO products (
			title, price, currency, condition, seller_name, location,
			shipping_price, rating, reviews_count, item_url, scraped_at,
			search_query, specifications
		) VALUES (%s)
		ON CONFLICT (item_url) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			condition = EXCLUDED.condition,
			seller_name = EXCLUDED.seller_name,
			location = EXCLUDED.location,
			shipping_price = EXCLUDED.shipping_price,
			rating = EXCLUDED.rating,
			reviews_count = EXCLUDED.reviews_count,
			scraped_at = EXCLUDED.scraped_at,
			search_query = EXCLUDED.search_query,
			specifications = EXCLUDED.specifications
	`, strings.Join(ph, ","))

	stored := 0
	for _, p := range products {
		if p.ItemURL == nil || p.Title == nil {
			continue
		}

		specs, err := serializeSpecs(p.Specifications)
		if err != nil {
			return err
		}

		_, err = w.db.Exec(query,
			*p.Title, p.Price, p.Currency, p.Condition, p.SellerName,
			p.Location, p.ShippingPrice, p.Rating, p.ReviewsCount,
			*p.ItemURL, p.ScrapedAt, searchQuery, specs,
		)
		if err != nil {
			return fmt.Errorf("sql: upsert %s: %w", *p.ItemURL, err)
		}
		stored++
	}

	w.logger.Info("[storage] Upserted %d/%d records", stored, len(products))
	return nil
}

// Close closes the underlying database.
func (w *SQLWriter) Close() error {
	return w.db.Close()
}

// Count returns the total number of stored products.
func (w *SQLWriter) Count() (int, error) {
	var n int
	if err := w.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, fmt.Errorf("sql: count: %w", err)
	}
	return n, nil
}

// serializeSpecs flattens the specifications mapping to a JSON string for
// stores without native nested maps. Empty maps become NULL.
func serializeSpecs(specs map[string]string) (*string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(specs)
	if err != nil {
		return nil, fmt.Errorf("sql: serialize specifications: %w", err)
	}
	s := string(data)
	return &s, nil
}

// DeserializeSpecs restores a specifications mapping read back from a SQL
// column.
func DeserializeSpecs(s *string) (map[string]string, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	var specs map[string]string
	if err := json.Unmarshal([]byte(*s), &specs); err != nil {
		return nil, fmt.Errorf("sql: deserialize specifications: %w", err)
	}
	return specs, nil
}

func questionPlaceholders(n int) []string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return ph
}

func dollarPlaceholders(n int) []string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return ph
}
