// Package store is the read side of the time series: the ordered per-product
// daily history that every analytics component consumes.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bartek5186/retailmind/internal/db"
)

// ErrNotFound is returned when a referenced product does not exist.
var ErrNotFound = errors.New("product not found")

// DailyRecord is one day of a product's history as the analytics pipeline
// sees it. Expiry carries the earliest remaining batch expiry for the product
// (nil when the product has none).
type DailyRecord struct {
	Date      time.Time
	Sales     int
	Inventory int
	Price     float64
	Category  string
	Expiry    *time.Time
}

type Store struct {
	gdb *gorm.DB
	log zerolog.Logger
}

func New(gdb *gorm.DB, log zerolog.Logger) *Store {
	return &Store{gdb: gdb, log: log}
}

// DB exposes the underlying handle for the write side (ledger).
func (s *Store) DB() *gorm.DB { return s.gdb }

// Product looks a product up by its natural key, case-insensitively.
func (s *Store) Product(name string) (*db.Product, error) {
	var p db.Product
	err := s.gdb.Where("LOWER(name) = LOWER(?)", name).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Products returns all product names, sorted.
func (s *Store) Products() ([]string, error) {
	var names []string
	if err := s.gdb.Model(&db.Product{}).Order("name asc").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// History returns the product's daily records ordered by date ascending,
// annotated with its category and earliest batch expiry.
func (s *Store) History(name string) ([]DailyRecord, error) {
	p, err := s.Product(name)
	if err != nil {
		return nil, err
	}

	var stats []db.DailyStat
	if err := s.gdb.Where("product_id = ?", p.ID).Order("date asc").Find(&stats).Error; err != nil {
		return nil, err
	}

	expiry, err := s.earliestExpiry(p.ID)
	if err != nil {
		return nil, err
	}

	out := make([]DailyRecord, 0, len(stats))
	for _, st := range stats {
		out = append(out, DailyRecord{
			Date:      st.Date,
			Sales:     st.Sales,
			Inventory: st.InventorySnapshot,
			Price:     st.PriceSnapshot,
			Category:  p.Category,
			Expiry:    expiry,
		})
	}
	return out, nil
}

// earliestExpiry picks the soonest expiry across the product's batches, the
// conservative choice when a single date has to stand in for the whole stock.
func (s *Store) earliestExpiry(productID uint) (*time.Time, error) {
	var batches []db.InventoryBatch
	err := s.gdb.Where("product_id = ? AND expiry_date IS NOT NULL", productID).
		Order("expiry_date asc").Limit(1).Find(&batches).Error
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, nil
	}
	return batches[0].ExpiryDate, nil
}

// Empty reports whether the store holds any products yet.
func (s *Store) Empty() (bool, error) {
	var n int64
	if err := s.gdb.Model(&db.Product{}).Count(&n).Error; err != nil {
		return false, err
	}
	return n == 0, nil
}
