package postgres

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/quickmeds/pharmacy-api/internal/domains/delivery/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/delivery/ports"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists delivery agents in PostgreSQL. Updates are version-gated
// so two orders can never both win the same available agent.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed agent directory. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		if err := db.AutoMigrate(&agentRecord{}); err != nil {
			log.Printf("postgres agent repository migration failed: %v", err)
		}
	}
	return repo
}

type agentRecord struct {
	ID             string                 `gorm:"primaryKey;column:id"`
	Name           string                 `gorm:"column:name"`
	Phone          string                 `gorm:"column:phone"`
	Vehicle        string                 `gorm:"column:vehicle"`
	Status         string                 `gorm:"column:status;type:varchar(16);index"`
	Location       *ordersdomain.GeoPoint `gorm:"column:location;serializer:json"`
	AssignedOrders pq.StringArray         `gorm:"column:assigned_orders;type:text[]"`
	Deliveries     int                    `gorm:"column:deliveries"`
	Rating         float64                `gorm:"column:rating"`
	Version        int64                  `gorm:"column:version"`
	CreatedAt      time.Time              `gorm:"column:created_at"`
	UpdatedAt      time.Time              `gorm:"column:updated_at"`
}

func (agentRecord) TableName() string { return "delivery_agents" }

func newAgentRecord(a *domain.Agent) agentRecord {
	return agentRecord{
		ID:             a.ID,
		Name:           a.Name,
		Phone:          a.Phone,
		Vehicle:        a.Vehicle,
		Status:         string(a.Status),
		Location:       a.Location,
		AssignedOrders: append(pq.StringArray(nil), a.AssignedOrders...),
		Deliveries:     a.Deliveries,
		Rating:         a.Rating,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (r agentRecord) toDomain() *domain.Agent {
	return &domain.Agent{
		ID:             r.ID,
		Name:           r.Name,
		Phone:          r.Phone,
		Vehicle:        r.Vehicle,
		Status:         domain.Status(r.Status),
		Location:       r.Location,
		AssignedOrders: append([]string(nil), r.AssignedOrders...),
		Deliveries:     r.Deliveries,
		Rating:         r.Rating,
		Version:        r.Version,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r *Repository) Create(ctx context.Context, agent *domain.Agent) (*domain.Agent, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, errors.New("cannot save nil agent")
	}
	record := newAgentRecord(agent)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = string(domain.StatusAvailable)
	}
	record.Version = 1
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record agentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Update(ctx context.Context, agent *domain.Agent) (*domain.Agent, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, errors.New("cannot save nil agent")
	}
	record := newAgentRecord(agent)
	record.Version = agent.Version + 1
	result := r.db.WithContext(ctx).Model(&agentRecord{}).
		Where("id = ? AND version = ?", agent.ID, agent.Version).
		Updates(map[string]any{
			"status":          record.Status,
			"location":        record.Location,
			"assigned_orders": record.AssignedOrders,
			"deliveries":      record.Deliveries,
			"rating":          record.Rating,
			"version":         record.Version,
			"updated_at":      gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, agent.ID); errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, agent.ID)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Agent, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []agentRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&records).Error; err != nil {
		return nil, err
	}
	agents := make([]*domain.Agent, 0, len(records))
	for _, record := range records {
		agents = append(agents, record.toDomain())
	}
	return agents, nil
}

func (r *Repository) ListAvailable(ctx context.Context) ([]*domain.Agent, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []agentRecord
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusAvailable)).
		Find(&records).Error; err != nil {
		return nil, err
	}
	agents := make([]*domain.Agent, 0, len(records))
	for _, record := range records {
		agents = append(agents, record.toDomain())
	}
	return agents, nil
}

func (r *Repository) ensureDB() error {
	if r.db == nil {
		return errors.New("postgres agent repository is not configured")
	}
	return nil
}
