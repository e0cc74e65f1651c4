package models

import "time"

// CartItem is one product line in a user's cart.
type CartItem struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Cart is the computed view of a user's cart items.
type Cart struct {
	Items    []CartItem `json:"items"`
	Count    int        `json:"count"`
	Subtotal int64      `json:"subtotal"`
}

// NewCart totals the given items. Items whose product is missing are skipped.
func NewCart(items []CartItem) Cart {
	cart := Cart{Items: make([]CartItem, 0, len(items))}
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		cart.Items = append(cart.Items, item)
		cart.Count += item.Quantity
		cart.Subtotal += item.Product.EffectivePrice() * int64(item.Quantity)
	}
	return cart
}
