package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bartek5186/retailmind/internal/db"
	"github.com/bartek5186/retailmind/internal/store"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestLedger(t *testing.T) (*Ledger, *db.Handle) {
	t.Helper()
	h, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := h.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	led := New(h.DB, zerolog.Nop())
	led.SetClock(func() time.Time { return testNow })
	return led, h
}

func createProduct(t *testing.T, h *db.Handle, name string, price float64, inventory int) uint {
	t.Helper()
	p := db.Product{Name: name, Category: "General", Price: price, CurrentInventory: inventory}
	if err := h.DB.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p.ID
}

func TestRecordTransactionSaleClampsAtZero(t *testing.T) {
	led, h := newTestLedger(t)
	id := createProduct(t, h, "Milk", 5, 5)

	res, err := led.RecordTransaction("Milk", 7, db.TxnSale, "")
	if err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}
	if res.NewInventory != 0 {
		t.Errorf("NewInventory = %d, want clamp to 0", res.NewInventory)
	}
	if res.TxnID == "" {
		t.Error("TxnID must be assigned")
	}

	// The cached inventory clamps, the ledger still records the full delta.
	var p db.Product
	if err := h.DB.First(&p, id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if p.CurrentInventory != 0 {
		t.Errorf("CurrentInventory = %d, want 0", p.CurrentInventory)
	}

	var entry db.LedgerEntry
	if err := h.DB.Where("txn_id = ?", res.TxnID).First(&entry).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.Quantity != -7 {
		t.Errorf("ledger Quantity = %d, want -7 (full requested delta)", entry.Quantity)
	}
	if entry.TransactionType != db.TxnSale {
		t.Errorf("TransactionType = %q, want SALE", entry.TransactionType)
	}
	if entry.Notes != "Manual SALE" {
		t.Errorf("Notes = %q, want default note", entry.Notes)
	}
}

func TestRecordTransactionRestockAndAdjust(t *testing.T) {
	led, h := newTestLedger(t)
	createProduct(t, h, "Milk", 5, 5)

	res, err := led.RecordTransaction("milk", 10, db.TxnRestock, "weekly delivery")
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if res.NewInventory != 15 {
		t.Errorf("NewInventory = %d, want 15", res.NewInventory)
	}
	if res.Product != "Milk" {
		t.Errorf("Product = %q, want canonical name despite lowercase input", res.Product)
	}

	res, err = led.RecordTransaction("Milk", 3, db.TxnAdjustment, "")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if res.NewInventory != 18 {
		t.Errorf("NewInventory = %d, want 18", res.NewInventory)
	}
}

func TestRecordTransactionValidation(t *testing.T) {
	led, h := newTestLedger(t)
	createProduct(t, h, "Milk", 5, 5)

	if _, err := led.RecordTransaction("Milk", 0, db.TxnSale, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero quantity: err = %v, want ErrInvalidInput", err)
	}
	if _, err := led.RecordTransaction("Milk", -2, db.TxnSale, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative quantity: err = %v, want ErrInvalidInput", err)
	}
	if _, err := led.RecordTransaction("Milk", 1, "GIVEAWAY", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown type: err = %v, want ErrInvalidInput", err)
	}
	if _, err := led.RecordTransaction("Nope", 1, db.TxnSale, ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown product: err = %v, want ErrNotFound", err)
	}
}

func TestSaleConsumesBatchesFIFOByExpiry(t *testing.T) {
	led, h := newTestLedger(t)
	id := createProduct(t, h, "Yogurt", 3, 10)

	late := testNow.AddDate(0, 0, 10)
	soon := testNow.AddDate(0, 0, 2)
	batches := []db.InventoryBatch{
		{ProductID: id, Quantity: 5, ExpiryDate: &late, EntryDate: testNow},
		{ProductID: id, Quantity: 5, ExpiryDate: &soon, EntryDate: testNow},
	}
	for i := range batches {
		if err := h.DB.Create(&batches[i]).Error; err != nil {
			t.Fatalf("create batch: %v", err)
		}
	}

	if _, err := led.RecordTransaction("Yogurt", 6, db.TxnSale, ""); err != nil {
		t.Fatalf("sale: %v", err)
	}

	var got []db.InventoryBatch
	if err := h.DB.Where("product_id = ?", id).Order("expiry_date asc").Find(&got).Error; err != nil {
		t.Fatalf("load batches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(batches) = %d, want 2 (depleted batches stay)", len(got))
	}
	// The soon-expiring batch drains first, the remainder comes off the later one.
	if got[0].Quantity != 0 {
		t.Errorf("earliest batch Quantity = %d, want 0", got[0].Quantity)
	}
	if got[1].Quantity != 4 {
		t.Errorf("later batch Quantity = %d, want 4", got[1].Quantity)
	}
	for _, b := range got {
		if b.Quantity < 0 {
			t.Errorf("batch %d went negative: %d", b.ID, b.Quantity)
		}
	}
}

func TestSaleOverdrawnBatchesNeverGoNegative(t *testing.T) {
	led, h := newTestLedger(t)
	id := createProduct(t, h, "Yogurt", 3, 4)

	soon := testNow.AddDate(0, 0, 2)
	batch := db.InventoryBatch{ProductID: id, Quantity: 4, ExpiryDate: &soon, EntryDate: testNow}
	if err := h.DB.Create(&batch).Error; err != nil {
		t.Fatalf("create batch: %v", err)
	}

	if _, err := led.RecordTransaction("Yogurt", 9, db.TxnSale, ""); err != nil {
		t.Fatalf("sale: %v", err)
	}

	var got db.InventoryBatch
	if err := h.DB.First(&got, batch.ID).Error; err != nil {
		t.Fatalf("load batch: %v", err)
	}
	if got.Quantity != 0 {
		t.Errorf("batch Quantity = %d, want 0", got.Quantity)
	}
}

func TestSalesUpsertIntoOneDailyRow(t *testing.T) {
	led, h := newTestLedger(t)
	id := createProduct(t, h, "Milk", 5, 20)

	if _, err := led.RecordTransaction("Milk", 2, db.TxnSale, ""); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	if _, err := led.RecordTransaction("Milk", 3, db.TxnSale, ""); err != nil {
		t.Fatalf("second sale: %v", err)
	}

	var stats []db.DailyStat
	if err := h.DB.Where("product_id = ?", id).Find(&stats).Error; err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("len(stats) = %d, want 1 row per product per day", len(stats))
	}
	if stats[0].Sales != 5 {
		t.Errorf("Sales = %d, want accumulated 5", stats[0].Sales)
	}
	if stats[0].InventorySnapshot != 15 {
		t.Errorf("InventorySnapshot = %d, want latest 15", stats[0].InventorySnapshot)
	}
	if stats[0].PriceSnapshot != 5 {
		t.Errorf("PriceSnapshot = %v, want 5", stats[0].PriceSnapshot)
	}

	wantDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !stats[0].Date.Equal(wantDate) {
		t.Errorf("Date = %v, want %v", stats[0].Date, wantDate)
	}
}

func TestRestockDoesNotAddSales(t *testing.T) {
	led, h := newTestLedger(t)
	id := createProduct(t, h, "Milk", 5, 20)

	if _, err := led.RecordTransaction("Milk", 10, db.TxnRestock, ""); err != nil {
		t.Fatalf("restock: %v", err)
	}

	var stat db.DailyStat
	if err := h.DB.Where("product_id = ?", id).First(&stat).Error; err != nil {
		t.Fatalf("load stat: %v", err)
	}
	if stat.Sales != 0 {
		t.Errorf("Sales = %d, want 0 after restock", stat.Sales)
	}
	if stat.InventorySnapshot != 30 {
		t.Errorf("InventorySnapshot = %d, want 30", stat.InventorySnapshot)
	}
}

type recordingInvalidator struct {
	products []string
}

func (r *recordingInvalidator) Invalidate(product string) {
	r.products = append(r.products, product)
}

func TestCommittedWritesInvalidateCache(t *testing.T) {
	led, h := newTestLedger(t)
	createProduct(t, h, "Milk", 5, 20)

	rec := &recordingInvalidator{}
	led.SetInvalidator(rec)

	if _, err := led.RecordTransaction("Milk", 1, db.TxnSale, ""); err != nil {
		t.Fatalf("sale: %v", err)
	}
	if len(rec.products) != 1 || rec.products[0] != "Milk" {
		t.Errorf("invalidations = %v, want [Milk]", rec.products)
	}

	// A rejected write must not invalidate anything.
	if _, err := led.RecordTransaction("Milk", 0, db.TxnSale, ""); err == nil {
		t.Fatal("expected validation error")
	}
	if len(rec.products) != 1 {
		t.Errorf("invalidations = %v, want no growth after a failed write", rec.products)
	}
}
