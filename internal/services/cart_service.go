package services

import (
	"errors"
	"fmt"

	"care4pets/internal/apperrors"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"go.uber.org/zap"
)

// CartService manages the per-user shopping cart.
type CartService struct {
	cart     repositories.CartRepository
	products repositories.ProductRepository
	log      *zap.Logger
}

func NewCartService(cart repositories.CartRepository, products repositories.ProductRepository, log *zap.Logger) *CartService {
	return &CartService{cart: cart, products: products, log: log}
}

// GetCart returns the user's cart with totals computed from current prices.
func (s *CartService) GetCart(userID string) (models.Cart, error) {
	items, err := s.cart.ListByUser(userID)
	if err != nil {
		return models.Cart{}, repoError(err, "Cart not found")
	}
	return models.NewCart(items), nil
}

// AddItem adds quantity units of a product, merging with an existing line.
func (s *CartService) AddItem(userID, productID string, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, apperrors.Validation(map[string]string{"quantity": "Quantity must be at least 1"})
	}
	product, err := s.products.GetByID(productID)
	if err != nil {
		return models.Cart{}, repoError(err, "Product not found")
	}

	item, err := s.cart.Get(userID, productID)
	switch {
	case err == nil:
		item.Quantity += quantity
	case errors.Is(err, repositories.ErrNotFound):
		item = &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	default:
		return models.Cart{}, repoError(err, "Cart not found")
	}

	if err := checkStock(product, item.Quantity); err != nil {
		s.log.Debug("Cart quantity exceeds stock",
			zap.String("user_id", userID),
			zap.String("product_id", productID),
			zap.Int("requested", item.Quantity),
			zap.Int("stock", product.Stock))
		return models.Cart{}, err
	}
	if err := s.cart.Save(item); err != nil {
		return models.Cart{}, repoError(err, "Cart not found")
	}
	s.log.Info("Cart item added",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Int("quantity", item.Quantity))
	return s.GetCart(userID)
}

// UpdateItem sets the quantity of a line. Zero removes it.
func (s *CartService) UpdateItem(userID, productID string, quantity int) (models.Cart, error) {
	if quantity < 0 {
		return models.Cart{}, apperrors.Validation(map[string]string{"quantity": "Quantity cannot be negative"})
	}
	if quantity == 0 {
		return s.RemoveItem(userID, productID)
	}

	item, err := s.cart.Get(userID, productID)
	if err != nil {
		return models.Cart{}, repoError(err, "Product is not in the cart")
	}
	product, err := s.products.GetByID(productID)
	if err != nil {
		return models.Cart{}, repoError(err, "Product not found")
	}
	if err := checkStock(product, quantity); err != nil {
		return models.Cart{}, err
	}

	item.Quantity = quantity
	if err := s.cart.Save(item); err != nil {
		return models.Cart{}, repoError(err, "Cart not found")
	}
	return s.GetCart(userID)
}

func (s *CartService) RemoveItem(userID, productID string) (models.Cart, error) {
	if err := s.cart.Delete(userID, productID); err != nil {
		return models.Cart{}, repoError(err, "Product is not in the cart")
	}
	return s.GetCart(userID)
}

func (s *CartService) Clear(userID string) error {
	if err := s.cart.Clear(userID); err != nil {
		return repoError(err, "Cart not found")
	}
	s.log.Info("Cart cleared", zap.String("user_id", userID))
	return nil
}

func checkStock(product *models.Product, quantity int) error {
	if quantity > product.Stock {
		return apperrors.Validation(map[string]string{
			"quantity": fmt.Sprintf("Only %d of %s left in stock", product.Stock, product.Name),
		})
	}
	return nil
}
