// Package ledger is the only mutating path into the inventory time series:
// transactional sale/restock recording with FIFO batch consumption, and bulk
// import merging. Every write happens inside one gorm transaction and rolls
// back as a unit.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bartek5186/retailmind/internal/db"
	"github.com/bartek5186/retailmind/internal/store"
)

// ErrInvalidInput marks malformed caller input (non-positive quantity,
// unknown transaction type).
var ErrInvalidInput = errors.New("invalid input")

// Invalidator receives the product name after every committed write, so
// cached analysis results can be dropped without the ledger knowing about
// the analytics layer.
type Invalidator interface {
	Invalidate(product string)
}

type Ledger struct {
	gdb *gorm.DB
	log zerolog.Logger
	inv Invalidator

	now func() time.Time // injectable clock for tests

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-product write serialization
}

func New(gdb *gorm.DB, log zerolog.Logger) *Ledger {
	return &Ledger{
		gdb:   gdb,
		log:   log,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

// SetInvalidator wires the analysis cache; may stay nil.
func (l *Ledger) SetInvalidator(inv Invalidator) { l.inv = inv }

// SetClock overrides the ledger's notion of "today". Tests only.
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// productLock serializes writes per product. Cross-product transactions have
// no ordering requirement.
func (l *Ledger) productLock(name string) *sync.Mutex {
	key := strings.ToLower(name)
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// TxnResult reports a committed transaction.
type TxnResult struct {
	Product      string `json:"product"`
	TxnID        string `json:"txn_id"`
	NewInventory int    `json:"new_inventory"`
}

// RecordTransaction applies one SALE, RESTOCK or ADJUSTMENT atomically:
// product cache update (clamped at zero), immutable ledger append, today's
// daily snapshot upsert, and on SALE a FIFO deduction across batches ordered
// by expiry. Any failure rolls the whole write back.
//
// A SALE larger than the remaining batch quantity consumes batches until they
// are exhausted while the cached inventory still takes the full (clamped)
// decrement; the ledger records the full requested delta.
func (l *Ledger) RecordTransaction(name string, quantity int, txnType, note string) (*TxnResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, quantity)
	}
	switch txnType {
	case db.TxnSale, db.TxnRestock, db.TxnAdjustment:
	default:
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, txnType)
	}

	lock := l.productLock(name)
	lock.Lock()
	defer lock.Unlock()

	res := &TxnResult{TxnID: uuid.NewString()}

	err := l.gdb.Transaction(func(tx *gorm.DB) error {
		var p db.Product
		err := tx.Where("LOWER(name) = LOWER(?)", name).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", store.ErrNotFound, name)
		}
		if err != nil {
			return err
		}

		delta := quantity
		if txnType == db.TxnSale {
			delta = -quantity
		}
		newInv := p.CurrentInventory + delta
		if newInv < 0 {
			newInv = 0
		}

		if err := tx.Model(&db.Product{}).Where("id = ?", p.ID).
			Update("current_inventory", newInv).Error; err != nil {
			return err
		}

		if note == "" {
			note = fmt.Sprintf("Manual %s", txnType)
		}
		entry := db.LedgerEntry{
			TxnID:           res.TxnID,
			ProductID:       p.ID,
			TransactionType: txnType,
			Quantity:        delta,
			TransactionDate: l.now(),
			Notes:           note,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		salesAdd := 0
		if txnType == db.TxnSale {
			salesAdd = quantity
		}
		if err := l.upsertToday(tx, p.ID, salesAdd, newInv, p.Price); err != nil {
			return err
		}

		if txnType == db.TxnSale {
			if err := l.consumeFIFO(tx, p.ID, quantity); err != nil {
				return err
			}
		}

		res.Product = p.Name
		res.NewInventory = newInv
		return nil
	})
	if err != nil {
		return nil, err
	}

	if l.inv != nil {
		l.inv.Invalidate(res.Product)
	}
	l.log.Info().Str("product", res.Product).Str("type", txnType).
		Int("qty", quantity).Int("new_inventory", res.NewInventory).
		Str("txn_id", res.TxnID).Msg("transaction recorded")
	return res, nil
}

// upsertToday adds to today's sales and overwrites the inventory snapshot;
// daily rows are keyed (product, date) and never duplicated.
func (l *Ledger) upsertToday(tx *gorm.DB, productID uint, salesAdd, newInv int, price float64) error {
	today := dateOnly(l.now())

	var stat db.DailyStat
	err := tx.Where("product_id = ? AND date = ?", productID, today).First(&stat).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		stat = db.DailyStat{
			ProductID:         productID,
			Date:              today,
			Sales:             salesAdd,
			InventorySnapshot: newInv,
			PriceSnapshot:     price,
		}
		return tx.Create(&stat).Error
	case err != nil:
		return err
	}

	return tx.Model(&db.DailyStat{}).Where("id = ?", stat.ID).Updates(map[string]any{
		"sales":              stat.Sales + salesAdd,
		"inventory_snapshot": newInv,
	}).Error
}

// consumeFIFO deducts a sale from the earliest-expiring batches first and
// stops once either the quantity is satisfied or no stock remains. No batch
// ever goes below zero.
func (l *Ledger) consumeFIFO(tx *gorm.DB, productID uint, quantity int) error {
	var batches []db.InventoryBatch
	if err := tx.Where("product_id = ? AND quantity > 0", productID).
		Order("expiry_date asc").Find(&batches).Error; err != nil {
		return err
	}

	remaining := quantity
	for _, b := range batches {
		if remaining <= 0 {
			break
		}
		deduct := b.Quantity
		if remaining < deduct {
			deduct = remaining
		}
		if err := tx.Model(&db.InventoryBatch{}).Where("id = ?", b.ID).
			Update("quantity", gorm.Expr("quantity - ?", deduct)).Error; err != nil {
			return err
		}
		remaining -= deduct
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
