package db

import "fmt"

// Migrate creates/updates the schema.
func (h *Handle) Migrate() error {
	if err := h.DB.AutoMigrate(
		&Product{},
		&InventoryBatch{},
		&LedgerEntry{},
		&DailyStat{},
	); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}
