package storage

import "github.com/itsaril/Data-Collection-SIS-2/models"

// ProductWriter is the interface any canonical-record store must satisfy.
// searchQuery is the batch label the records were collected under.
type ProductWriter interface {
	Write(products []models.Product, searchQuery string) error
	Close() error
}

// RawProductWriter is the interface for persisting unprocessed extracted data.
type RawProductWriter interface {
	WriteRaw(products []models.RawProduct) error
	Close() error
}
