package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CREATE TABLE public.cards (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name            VARCHAR(100) NOT NULL,
//     description     TEXT,
//     price_eth       NUMERIC(20,8) NOT NULL,
//     image_url       VARCHAR(255),
//     rarity          VARCHAR(50),
//     set_name        VARCHAR(100),
//     card_number     VARCHAR(20),
//     condition       VARCHAR(50),
//     stock_quantity  INTEGER NOT NULL DEFAULT 1 CHECK (stock_quantity >= 0),
//     is_active       BOOLEAN NOT NULL DEFAULT TRUE,
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     updated_at      TIMESTAMPTZ DEFAULT NOW()
// );

func init() {
	// prices are rendered as JSON numbers, the way clients already read them
	decimal.MarshalJSONWithoutQuotes = true
}

const DefaultStockQuantity = 1

type Card struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description   *string         `gorm:"column:description;type:text" json:"description"`
	PriceEth      decimal.Decimal `gorm:"column:price_eth;type:numeric(20,8);not null" json:"price_eth"`
	ImageURL      *string         `gorm:"column:image_url;type:varchar(255)" json:"image_url"`
	Rarity        *string         `gorm:"column:rarity;type:varchar(50)" json:"rarity"`
	SetName       *string         `gorm:"column:set_name;type:varchar(100)" json:"set_name"`
	CardNumber    *string         `gorm:"column:card_number;type:varchar(20)" json:"card_number"`
	Condition     *string         `gorm:"column:condition;type:varchar(50)" json:"condition"`
	StockQuantity int             `gorm:"column:stock_quantity;not null" json:"stock_quantity"`
	IsActive      bool            `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Card) TableName() string {
	return "cards"
}

// CardFilter narrows catalog listings. Empty fields do not filter.
type CardFilter struct {
	Rarity  string
	SetName string
}

// CardInput holds the fields accepted when a card is created.
type CardInput struct {
	Name          string
	Description   *string
	PriceEth      decimal.Decimal
	ImageURL      *string
	Rarity        *string
	SetName       *string
	CardNumber    *string
	Condition     *string
	StockQuantity *int
}

// CardPatch is a partial card update; only non-nil fields are written.
type CardPatch struct {
	Name          *string
	Description   *string
	PriceEth      *decimal.Decimal
	ImageURL      *string
	Rarity        *string
	SetName       *string
	CardNumber    *string
	Condition     *string
	StockQuantity *int
	IsActive      *bool
}

// Empty reports whether the patch carries no field at all.
func (p CardPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.PriceEth == nil &&
		p.ImageURL == nil && p.Rarity == nil && p.SetName == nil &&
		p.CardNumber == nil && p.Condition == nil && p.StockQuantity == nil &&
		p.IsActive == nil
}
