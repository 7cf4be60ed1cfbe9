package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

var validOrderStatuses = map[string]bool{
	OrderStatusPending:   true,
	OrderStatusConfirmed: true,
	OrderStatusShipped:   true,
	OrderStatusDelivered: true,
	OrderStatusCancelled: true,
}

func IsValidOrderStatus(status string) bool {
	return validOrderStatuses[status]
}

// Order references its user and card by id only. The referenced rows may be
// gone, in which case User and Card stay nil after preloading.
type Order struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	UserID             uint            `gorm:"column:user_id;not null;index" json:"user_id"`
	CardID             uint            `gorm:"column:card_id;not null;index" json:"card_id"`
	Quantity           int             `gorm:"column:quantity;not null" json:"quantity"`
	TotalPriceEth      decimal.Decimal `gorm:"column:total_price_eth;type:numeric(20,8);not null" json:"total_price_eth"`
	TransactionHash    *string         `gorm:"column:transaction_hash;type:varchar(66);uniqueIndex" json:"transaction_hash"`
	Status             string          `gorm:"column:status;type:varchar(50);not null" json:"status"`
	BuyerWalletAddress string          `gorm:"column:buyer_wallet_address;type:varchar(42);not null" json:"buyer_wallet_address"`
	CustomerInfo       datatypes.JSON  `gorm:"column:customer_info;type:jsonb" json:"customer_info,omitempty"`
	CreatedAt          time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at" json:"updated_at"`

	Card *Card `gorm:"foreignKey:CardID;constraint:false" json:"card"`
	User *User `gorm:"foreignKey:UserID;constraint:false" json:"user"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderFilter narrows order listings. Zero values do not filter.
type OrderFilter struct {
	UserID uint
	Status string
}

// CreateOrderInput is what a buyer submits to place an order.
type CreateOrderInput struct {
	BuyerWalletAddress string
	CardID             uint
	Quantity           int
	Email              *string
	CustomerInfo       datatypes.JSON
}
