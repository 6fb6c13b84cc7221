package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quickmeds/pharmacy-api/internal/domains/inventory/ports"
)

var _ ports.Ledger = (*Ledger)(nil)

// Ledger persists stock entries in PostgreSQL. Decrements run as a single
// conditional UPDATE so concurrent order creations cannot oversell.
type Ledger struct {
	db *gorm.DB
}

// NewLedger wires a PostgreSQL-backed stock ledger. The caller owns the DB lifecycle.
func NewLedger(db *gorm.DB) *Ledger {
	ledger := &Ledger{db: db}
	if db != nil {
		if err := db.AutoMigrate(&stockRecord{}); err != nil {
			log.Printf("postgres stock ledger migration failed: %v", err)
		}
	}
	return ledger
}

type stockRecord struct {
	ItemID    string    `gorm:"primaryKey;column:item_id"`
	Quantity  int       `gorm:"column:quantity;check:quantity >= 0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock_entries" }

func (l *Ledger) Quantity(ctx context.Context, itemID string) (int, error) {
	if err := l.ensureDB(); err != nil {
		return 0, err
	}
	var record stockRecord
	if err := l.db.WithContext(ctx).First(&record, "item_id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ports.ErrEntryNotFound
		}
		return 0, err
	}
	return record.Quantity, nil
}

// Decrement atomically subtracts qty when enough stock remains.
func (l *Ledger) Decrement(ctx context.Context, itemID string, qty int) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	if qty <= 0 {
		return fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}
	result := l.db.WithContext(ctx).Model(&stockRecord{}).
		Where("item_id = ? AND quantity >= ?", itemID, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		qtyNow, err := l.Quantity(ctx, itemID)
		if errors.Is(err, ports.ErrEntryNotFound) {
			return ports.ErrEntryNotFound
		}
		return fmt.Errorf("%w: item %s has %d, requested %d", ports.ErrInsufficientStock, itemID, qtyNow, qty)
	}
	return nil
}

func (l *Ledger) Restock(ctx context.Context, itemID string, qty int) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	if qty <= 0 {
		return fmt.Errorf("restock quantity must be positive, got %d", qty)
	}
	record := stockRecord{ItemID: itemID, Quantity: qty}
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("stock_entries.quantity + ?", qty),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

func (l *Ledger) ensureDB() error {
	if l.db == nil {
		return errors.New("postgres stock ledger is not configured")
	}
	return nil
}
