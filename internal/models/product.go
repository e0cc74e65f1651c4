package models

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/gorm"
)

// Product represents a product in the store. Prices are whole VND.
type Product struct {
	ID          string         `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name        string         `json:"name" gorm:"type:varchar(200)" validate:"required,min=3,max=200"`
	Description string         `json:"description" validate:"omitempty,max=2000"`
	Category    string         `json:"category" gorm:"type:varchar(50);index"`
	Price       int64          `json:"price" validate:"required,gt=0"`
	SalePrice   int64          `json:"salePrice" validate:"gte=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	Image       string         `json:"image"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// EffectivePrice is what a customer pays for one unit right now.
func (p *Product) EffectivePrice() int64 {
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return p.SalePrice
	}
	return p.Price
}

// DiscountPercent is the rounded sale discount, 0 when there is no valid sale price.
func (p *Product) DiscountPercent() int {
	if p.Price <= 0 || p.SalePrice <= 0 || p.SalePrice >= p.Price {
		return 0
	}
	return int(math.Round(float64(p.Price-p.SalePrice) * 100 / float64(p.Price)))
}

func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		DiscountPercent int `json:"discountPercent"`
	}{alias(p), p.DiscountPercent()})
}
