package db

import "time"

// Transaction types recorded in the inventory ledger.
const (
	TxnSale          = "SALE"
	TxnRestock       = "RESTOCK"
	TxnAdjustment    = "ADJUSTMENT"
	TxnCSVAdjustment = "CSV_ADJUSTMENT"
)

// products
type Product struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"uniqueIndex;not null"`
	Category         string `gorm:"index"`
	Price            float64
	CurrentInventory int       // denormalized cache; equals the latest daily snapshot after every ledger write
	LastUpdated      time.Time `gorm:"autoUpdateTime"`
}

// inventory_batches — one row per received lot, ordered by expiry for FIFO
// consumption. Depleted batches stay (quantity 0) as an audit trail.
type InventoryBatch struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Quantity  int
	ExpiryDate *time.Time `gorm:"index"`
	EntryDate  time.Time
}

// inventory_ledger — immutable, append-only transaction history. Quantity is
// the signed delta (negative for SALE).
type LedgerEntry struct {
	ID              uint   `gorm:"primaryKey"`
	TxnID           string `gorm:"size:36;index"`
	ProductID       uint   `gorm:"index;not null"`
	TransactionType string `gorm:"size:20;index"`
	Quantity        int
	TransactionDate time.Time `gorm:"autoCreateTime"`
	Notes           string    `gorm:"type:text"`
}

// daily_stats — one EOD snapshot per product per day; the forecasting input.
type DailyStat struct {
	ID                uint      `gorm:"primaryKey"`
	ProductID         uint      `gorm:"uniqueIndex:uniq_product_date;not null"`
	Date              time.Time `gorm:"uniqueIndex:uniq_product_date;not null"`
	Sales             int
	InventorySnapshot int
	PriceSnapshot     float64
}
