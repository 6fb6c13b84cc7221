package postgres

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM-mapped columns. Nested
// value objects (lines, timeline, snapshots, geo points) are stored as JSON
// documents; the timeline is only ever appended to through version-gated
// updates.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		if err := db.AutoMigrate(&orderRecord{}); err != nil {
			log.Printf("postgres order repository migration failed: %v", err)
		}
	}
	return repo
}

type orderRecord struct {
	ID            string                 `gorm:"primaryKey;column:id"`
	Number        string                 `gorm:"column:number;uniqueIndex"`
	UserID        string                 `gorm:"column:user_id;index"`
	Lines         []domain.LineItem      `gorm:"column:lines;serializer:json"`
	Address       domain.Address         `gorm:"column:address;serializer:json"`
	Subtotal      float64                `gorm:"column:subtotal"`
	Tax           float64                `gorm:"column:tax"`
	ShippingFee   float64                `gorm:"column:shipping_fee"`
	Discount      float64                `gorm:"column:discount"`
	Total         float64                `gorm:"column:total"`
	PromoCode     string                 `gorm:"column:promo_code"`
	PaymentMethod string                 `gorm:"column:payment_method;type:varchar(16)"`
	PaymentStatus string                 `gorm:"column:payment_status;type:varchar(16)"`
	Gateway       *domain.GatewayProof   `gorm:"column:gateway;serializer:json"`
	Status        string                 `gorm:"column:status;type:varchar(32);index"`
	Agent         *domain.AgentSnapshot  `gorm:"column:agent;serializer:json"`
	Pharmacy      *domain.GeoPoint       `gorm:"column:pharmacy;serializer:json"`
	Destination   *domain.GeoPoint       `gorm:"column:destination;serializer:json"`
	AgentPosition *domain.GeoPoint       `gorm:"column:agent_position;serializer:json"`
	Timeline      []domain.TrackingEvent `gorm:"column:timeline;serializer:json"`
	Version       int64                  `gorm:"column:version"`
	CreatedAt     time.Time              `gorm:"column:created_at;index"`
	UpdatedAt     time.Time              `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func newOrderRecord(o *domain.Order) orderRecord {
	return orderRecord{
		ID:            o.ID,
		Number:        o.Number,
		UserID:        o.UserID,
		Lines:         o.Lines,
		Address:       o.Address,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		ShippingFee:   o.ShippingFee,
		Discount:      o.Discount,
		Total:         o.Total,
		PromoCode:     o.PromoCode,
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		Gateway:       o.Gateway,
		Status:        string(o.Status),
		Agent:         o.Agent,
		Pharmacy:      o.Pharmacy,
		Destination:   o.Destination,
		AgentPosition: o.AgentPosition,
		Timeline:      o.Timeline,
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:            r.ID,
		Number:        r.Number,
		UserID:        r.UserID,
		Lines:         r.Lines,
		Address:       r.Address,
		Subtotal:      r.Subtotal,
		Tax:           r.Tax,
		ShippingFee:   r.ShippingFee,
		Discount:      r.Discount,
		Total:         r.Total,
		PromoCode:     r.PromoCode,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		PaymentStatus: domain.PaymentStatus(r.PaymentStatus),
		Gateway:       r.Gateway,
		Status:        domain.Status(r.Status),
		Agent:         r.Agent,
		Pharmacy:      r.Pharmacy,
		Destination:   r.Destination,
		AgentPosition: r.AgentPosition,
		Timeline:      r.Timeline,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// Create inserts a new order at version 1.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("cannot save nil order")
	}
	record := newOrderRecord(order)
	record.Version = 1
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByNumber fetches an order by its customer-facing number.
func (r *Repository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Update writes the order back, gated on the version read earlier. A stale
// version loses the race and surfaces ErrVersionConflict.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("cannot save nil order")
	}
	record := newOrderRecord(order)
	record.Version = order.Version + 1
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"payment_status": record.PaymentStatus,
			"gateway":        record.Gateway,
			"status":         record.Status,
			"agent":          record.Agent,
			"pharmacy":       record.Pharmacy,
			"destination":    record.Destination,
			"agent_position": record.AgentPosition,
			"timeline":       record.Timeline,
			"version":        record.Version,
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, order.ID); errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, order.ID)
}

// ListByUser returns all orders placed by a user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, record.toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r.db == nil {
		return errors.New("postgres order repository is not configured")
	}
	return nil
}
