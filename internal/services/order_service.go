package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"care4pets/internal/apperrors"
	"care4pets/internal/config"
	"care4pets/internal/events"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	noteOrderCreated  = "Đơn hàng đã được tạo"
	orderNumberPrefix = "C4P"
)

// Next step the client should take after checkout.
const (
	NextActionQRPayment = "qr_payment"
	NextActionEWallet   = "e_wallet"
)

// CheckoutInput is the body of a checkout request.
type CheckoutInput struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required,oneof=cod bank_transfer e_wallet credit_card"`
	Note            string                 `json:"note" validate:"max=500"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orders    repositories.OrderRepository
	cart      repositories.CartRepository
	publisher events.Publisher
	shipping  config.ShippingConfig
	log       *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orders repositories.OrderRepository,
	cart repositories.CartRepository,
	publisher events.Publisher,
	shipping config.ShippingConfig,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		cart:      cart,
		publisher: publisher,
		shipping:  shipping,
		log:       log,
		now:       time.Now,
	}
}

// ShippingFee is free at or above the configured threshold.
func (s *OrderService) ShippingFee(subtotal int64) int64 {
	if subtotal >= s.shipping.FreeShippingThreshold {
		return 0
	}
	return s.shipping.Fee
}

// NextAction tells the client which payment step follows checkout.
func NextAction(paymentMethod string) string {
	switch paymentMethod {
	case models.PaymentMethodBankTransfer:
		return NextActionQRPayment
	case models.PaymentMethodEWallet, models.PaymentMethodCreditCard:
		return NextActionEWallet
	}
	return ""
}

func newOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return orderNumberPrefix + at.Format("060102") + suffix
}

// Checkout turns the user's cart into a pending order. Stock is reserved in
// the same transaction that stores the order and the cart is emptied after.
func (s *OrderService) Checkout(ctx context.Context, userID string, in CheckoutInput) (*models.Order, error) {
	in.ShippingAddress = trimAddress(in.ShippingAddress)
	if fields := missingAddressFields(in.ShippingAddress); len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	items, err := s.cart.ListByUser(userID)
	if err != nil {
		return nil, repoError(err, "Cart not found")
	}
	cart := models.NewCart(items)
	if len(cart.Items) == 0 {
		return nil, apperrors.BadRequest("Your cart is empty")
	}

	now := s.now()
	order := &models.Order{
		OrderNumber:     newOrderNumber(now),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: in.ShippingAddress,
		Note:            strings.TrimSpace(in.Note),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.PaymentMethod == models.PaymentMethodCOD {
		order.PaymentStatus = models.PaymentStatusUnpaid
	}

	for _, item := range cart.Items {
		if item.Quantity > item.Product.Stock {
			return nil, apperrors.BadRequest(fmt.Sprintf("Only %d of %s left in stock", item.Product.Stock, item.Product.Name))
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     item.Product.EffectivePrice(),
			Quantity:  item.Quantity,
			Image:     item.Product.Image,
		})
	}
	order.Subtotal = cart.Subtotal
	order.ShippingFee = s.ShippingFee(order.Subtotal)
	order.Total = order.Subtotal + order.ShippingFee - order.Discount
	order.StatusHistory = []models.OrderStatusEntry{{
		Status:    models.OrderStatusPending,
		Note:      noteOrderCreated,
		Timestamp: now,
	}}

	if err := s.orders.Create(order); err != nil {
		return nil, repoError(err, "Product not found")
	}

	if err := s.cart.Clear(userID); err != nil {
		s.log.Warn("Failed to clear cart after checkout", zap.String("user_id", userID), zap.Error(err))
	}

	s.log.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_method", order.PaymentMethod),
		zap.Int64("total", order.Total))

	events.Emit(ctx, s.publisher, s.log, events.Event{
		Type:      events.OrderCreated,
		UserID:    order.UserID,
		SubjectID: order.ID,
		Reference: order.OrderNumber,
		Status:    order.Status,
		Amount:    order.Total,
	})
	return order, nil
}

// missingAddressFields lists the recipient fields left empty after trimming.
func missingAddressFields(a models.ShippingAddress) map[string]string {
	fields := map[string]string{}
	if a.FullName == "" {
		fields["fullName"] = "fullName is required"
	}
	if a.Phone == "" {
		fields["phone"] = "phone is required"
	}
	if a.Address == "" {
		fields["address"] = "address is required"
	}
	return fields
}

func trimAddress(a models.ShippingAddress) models.ShippingAddress {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Address = strings.TrimSpace(a.Address)
	a.Ward = strings.TrimSpace(a.Ward)
	a.District = strings.TrimSpace(a.District)
	a.City = strings.TrimSpace(a.City)
	a.Note = strings.TrimSpace(a.Note)
	return a
}

// GetOrder returns an order visible to the actor. Other users' orders are reported as missing.
func (s *OrderService) GetOrder(actor Actor, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, repoError(err, "Order not found")
	}
	if !actor.owns(order.UserID) {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, nil
}

// ListOrders lists the user's own orders, newest first.
func (s *OrderService) ListOrders(userID, status string, p repositories.Pagination) ([]models.Order, int64, error) {
	return s.list(repositories.OrderFilter{UserID: userID, Status: status, Pagination: p})
}

// ListAllOrders lists every order for the admin screen.
func (s *OrderService) ListAllOrders(status string, p repositories.Pagination) ([]models.Order, int64, error) {
	return s.list(repositories.OrderFilter{Status: status, Pagination: p})
}

func (s *OrderService) list(filter repositories.OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != "" {
		filter.Status = models.NormalizeOrderStatus(filter.Status)
		if !models.IsOrderStatus(filter.Status) {
			return nil, 0, apperrors.Validation(map[string]string{"status": "Invalid order status"})
		}
	}
	orders, total, err := s.orders.List(filter)
	if err != nil {
		return nil, 0, repoError(err, "Orders not found")
	}
	return orders, total, nil
}

// CancelOrder lets the owner cancel an order that has not been processed yet.
// Reserved stock is returned in the same transaction.
func (s *OrderService) CancelOrder(ctx context.Context, actor Actor, id, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validation(map[string]string{"reason": "Please give a reason for cancelling"})
	}

	order, err := s.GetOrder(actor, id)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel() {
		return nil, apperrors.BadRequest(fmt.Sprintf("Order in status %s can no longer be cancelled", order.Status))
	}

	now := s.now()
	guard := repositories.OrderGuard{Status: order.Status}
	order.Status = models.OrderStatusCancelled
	order.CancelReason = reason
	order.CancelledAt = &now
	entry := &models.OrderStatusEntry{
		Status:    models.OrderStatusCancelled,
		Note:      "Khách hàng hủy đơn: " + reason,
		Timestamp: now,
	}
	if err := s.orders.Update(order, guard, entry, true); err != nil {
		return nil, repoError(err, "Order not found")
	}

	s.log.Info("Order cancelled", zap.String("order_id", order.ID), zap.String("user_id", actor.UserID))
	s.emitStatusChanged(ctx, order, entry.Note)
	return order, nil
}

// UpdateStatus moves an order along the fulfilment state machine on behalf of an admin.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status, note string) (*models.Order, error) {
	next := models.NormalizeOrderStatus(status)
	if !models.IsOrderStatus(next) {
		return nil, apperrors.Validation(map[string]string{"status": "Invalid order status"})
	}

	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, repoError(err, "Order not found")
	}
	if !models.CanTransitionOrder(order.Status, next) {
		return nil, apperrors.BadRequest(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, next))
	}

	now := s.now()
	prev := order.Status
	guard := repositories.OrderGuard{Status: prev}
	restock := false
	order.Status = next

	switch next {
	case models.OrderStatusCancelled:
		order.CancelledAt = &now
		order.CancelReason = strings.TrimSpace(note)
		restock = true
	case models.OrderStatusDelivered:
		order.DeliveredAt = &now
		if order.PaymentMethod == models.PaymentMethodCOD && order.PaymentStatus != models.PaymentStatusPaid {
			order.PaymentStatus = models.PaymentStatusPaid
			order.PaidAt = &now
		}
	case models.OrderStatusRefunded:
		order.PaymentStatus = models.PaymentStatusRefunded
		// Goods that never left the warehouse go back on the shelf.
		restock = prev == models.OrderStatusPending || prev == models.OrderStatusConfirmed || prev == models.OrderStatusProcessing
	}

	if strings.TrimSpace(note) == "" {
		note = "Trạng thái đơn hàng: " + next
	}
	entry := &models.OrderStatusEntry{Status: next, Note: strings.TrimSpace(note), Timestamp: now}
	if err := s.orders.Update(order, guard, entry, restock); err != nil {
		return nil, repoError(err, "Order not found")
	}

	s.log.Info("Order status changed",
		zap.String("order_id", order.ID),
		zap.String("from", prev),
		zap.String("to", next))
	s.emitStatusChanged(ctx, order, entry.Note)
	return order, nil
}

func (s *OrderService) emitStatusChanged(ctx context.Context, order *models.Order, note string) {
	events.Emit(ctx, s.publisher, s.log, events.Event{
		Type:      events.OrderStatusChanged,
		UserID:    order.UserID,
		SubjectID: order.ID,
		Reference: order.OrderNumber,
		Status:    order.Status,
		Note:      note,
	})
}
