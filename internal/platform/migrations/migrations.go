package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&stockRecord{},
		&agentRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID            string                       `gorm:"primaryKey;column:id"`
	Number        string                       `gorm:"column:number;uniqueIndex"`
	UserID        string                       `gorm:"column:user_id;index"`
	Lines         []ordersdomain.LineItem      `gorm:"column:lines;serializer:json"`
	Address       ordersdomain.Address         `gorm:"column:address;serializer:json"`
	Subtotal      float64                      `gorm:"column:subtotal"`
	Tax           float64                      `gorm:"column:tax"`
	ShippingFee   float64                      `gorm:"column:shipping_fee"`
	Discount      float64                      `gorm:"column:discount"`
	Total         float64                      `gorm:"column:total"`
	PromoCode     string                       `gorm:"column:promo_code"`
	PaymentMethod string                       `gorm:"column:payment_method;type:varchar(16)"`
	PaymentStatus string                       `gorm:"column:payment_status;type:varchar(16)"`
	Gateway       *ordersdomain.GatewayProof   `gorm:"column:gateway;serializer:json"`
	Status        string                       `gorm:"column:status;type:varchar(32);index"`
	Agent         *ordersdomain.AgentSnapshot  `gorm:"column:agent;serializer:json"`
	Pharmacy      *ordersdomain.GeoPoint       `gorm:"column:pharmacy;serializer:json"`
	Destination   *ordersdomain.GeoPoint       `gorm:"column:destination;serializer:json"`
	AgentPosition *ordersdomain.GeoPoint       `gorm:"column:agent_position;serializer:json"`
	Timeline      []ordersdomain.TrackingEvent `gorm:"column:timeline;serializer:json"`
	Version       int64                        `gorm:"column:version"`
	CreatedAt     time.Time                    `gorm:"column:created_at;index"`
	UpdatedAt     time.Time                    `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Stock schema mirrors the inventory Postgres ledger.
type stockRecord struct {
	ItemID    string    `gorm:"primaryKey;column:item_id"`
	Quantity  int       `gorm:"column:quantity"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock_entries" }

// Agent schema mirrors the delivery Postgres adapter.
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
