package ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bartek5186/retailmind/internal/db"
	"github.com/bartek5186/retailmind/internal/ingest"
)

// MergeResult summarizes a committed bulk import.
type MergeResult struct {
	ProductsUpdated int `json:"products_updated"`
	HistoryRows     int `json:"history_rows"`
}

// MergeBulkImport merges an already-parsed upload into the store as one
// transaction: products upserted by name, each product's batch set replaced
// wholesale with a single new batch (the net inventory difference logged as a
// CSV_ADJUSTMENT), and daily history rows replaced when the upload carried
// date/sales columns.
func (l *Ledger) MergeBulkImport(ds *ingest.Dataset) (*MergeResult, error) {
	if ds == nil || len(ds.Rows) == 0 {
		return nil, errors.New("empty dataset")
	}

	// Last row per product wins for master data; all rows feed history.
	latest := make(map[string]ingest.Row, len(ds.Rows))
	order := make([]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if _, seen := latest[row.Product]; !seen {
			order = append(order, row.Product)
		}
		latest[row.Product] = row
	}

	res := &MergeResult{}
	today := dateOnly(l.now())

	err := l.gdb.Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]uint, len(order))

		for _, name := range order {
			row := latest[name]
			id, err := l.mergeProduct(tx, row, today)
			if err != nil {
				return err
			}
			ids[name] = id
			res.ProductsUpdated++
		}

		if !ds.HasHistory {
			return nil
		}
		for _, row := range ds.Rows {
			if row.Date == nil || row.Sales == nil {
				continue
			}
			stat := db.DailyStat{
				ProductID:         ids[row.Product],
				Date:              dateOnly(*row.Date),
				Sales:             *row.Sales,
				InventorySnapshot: row.Inventory,
				PriceSnapshot:     row.Price,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_id"}, {Name: "date"}},
				UpdateAll: true,
			}).Create(&stat).Error
			if err != nil {
				return err
			}
			res.HistoryRows++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if l.inv != nil {
		for _, name := range order {
			l.inv.Invalidate(name)
		}
	}
	l.log.Info().Int("products", res.ProductsUpdated).Int("history_rows", res.HistoryRows).
		Msg("bulk import merged")
	return res, nil
}

// mergeProduct upserts one product row and resets its batch set.
func (l *Ledger) mergeProduct(tx *gorm.DB, row ingest.Row, today time.Time) (uint, error) {
	var p db.Product
	err := tx.Where("LOWER(name) = LOWER(?)", row.Product).First(&p).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = db.Product{
			Name:             row.Product,
			Category:         row.Category,
			Price:            row.Price,
			CurrentInventory: row.Inventory,
		}
		if err := tx.Create(&p).Error; err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if diff := row.Inventory - p.CurrentInventory; diff != 0 {
			entry := db.LedgerEntry{
				ProductID:       p.ID,
				TransactionType: db.TxnCSVAdjustment,
				Quantity:        diff,
				TransactionDate: l.now(),
				Notes:           "Bulk upload adjustment",
			}
			if err := tx.Create(&entry).Error; err != nil {
				return 0, err
			}
		}
		updates := map[string]any{
			"price":             row.Price,
			"category":          row.Category,
			"current_inventory": row.Inventory,
		}
		if err := tx.Model(&db.Product{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
			return 0, err
		}
	}

	// Replace the batch set wholesale: the upload is the new truth for what
	// stock is on hand and when it expires.
	if err := tx.Where("product_id = ?", p.ID).Delete(&db.InventoryBatch{}).Error; err != nil {
		return 0, err
	}
	batch := db.InventoryBatch{
		ProductID:  p.ID,
		Quantity:   row.Inventory,
		ExpiryDate: row.Expiry,
		EntryDate:  today,
	}
	if err := tx.Create(&batch).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

// SeedInitial loads a dataset into an empty store only; an already-populated
// store is left untouched so persistent state survives restarts.
func (l *Ledger) SeedInitial(ds *ingest.Dataset) (bool, error) {
	var n int64
	if err := l.gdb.Model(&db.Product{}).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := l.MergeBulkImport(ds); err != nil {
		return false, err
	}
	return true, nil
}
