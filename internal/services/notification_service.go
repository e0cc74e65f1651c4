package services

import (
	"context"
	"fmt"

	"care4pets/internal/cache"
	"care4pets/internal/events"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"go.uber.org/zap"
)

var orderStatusLabels = map[string]string{
	models.OrderStatusPending:    "Chờ xác nhận",
	models.OrderStatusConfirmed:  "Đã xác nhận",
	models.OrderStatusProcessing: "Đang xử lý",
	models.OrderStatusShipping:   "Đang giao hàng",
	models.OrderStatusDelivered:  "Đã giao hàng",
	models.OrderStatusCancelled:  "Đã hủy",
	models.OrderStatusRefunded:   "Đã hoàn tiền",
}

var appointmentStatusLabels = map[string]string{
	models.AppointmentStatusPending:    "Chờ xác nhận",
	models.AppointmentStatusConfirmed:  "Đã xác nhận",
	models.AppointmentStatusInProgress: "Đang thực hiện",
	models.AppointmentStatusCompleted:  "Đã hoàn thành",
	models.AppointmentStatusCancelled:  "Đã hủy",
}

func label(labels map[string]string, status string) string {
	if l, ok := labels[status]; ok {
		return l
	}
	return status
}

// NotificationService serves the notification bell and turns domain events into notifications.
type NotificationService struct {
	repo  repositories.NotificationRepository
	cache cache.UnreadCache
	log   *zap.Logger
}

func NewNotificationService(repo repositories.NotificationRepository, unread cache.UnreadCache, log *zap.Logger) *NotificationService {
	if unread == nil {
		unread = cache.NoopUnreadCache{}
	}
	return &NotificationService{repo: repo, cache: unread, log: log}
}

func (s *NotificationService) List(userID string, p repositories.Pagination) ([]models.Notification, int64, error) {
	items, total, err := s.repo.List(userID, p)
	if err != nil {
		return nil, 0, repoError(err, "Notifications not found")
	}
	return items, total, nil
}

// UnreadCount is polled by every open client, so it is served from the cache when possible.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if n, ok, err := s.cache.Get(ctx, userID); err != nil {
		s.log.Warn("Unread cache read failed", zap.String("user_id", userID), zap.Error(err))
	} else if ok {
		return n, nil
	}

	n, err := s.repo.CountUnread(userID)
	if err != nil {
		return 0, repoError(err, "Notifications not found")
	}
	if err := s.cache.Set(ctx, userID, n); err != nil {
		s.log.Warn("Unread cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return n, nil
}

func (s *NotificationService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("Unread cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(userID, id); err != nil {
		return repoError(err, "Notification not found")
	}
	s.invalidate(ctx, userID)
	return nil
}

// MarkAllRead returns how many notifications changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(userID)
	if err != nil {
		return 0, repoError(err, "Notifications not found")
	}
	s.invalidate(ctx, userID)
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(userID, id); err != nil {
		return repoError(err, "Notification not found")
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	if err := s.repo.Create(n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	s.invalidate(ctx, n.UserID)
	return nil
}

// HandleEvent is the event consumer. Unknown event types and events without a
// recipient are dropped.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	if event.UserID == "" {
		return nil
	}
	n := notificationFor(event)
	if n == nil {
		s.log.Debug("Ignoring event", zap.String("type", event.Type))
		return nil
	}
	return s.Notify(ctx, n)
}

func notificationFor(event events.Event) *models.Notification {
	n := &models.Notification{UserID: event.UserID}
	switch event.Type {
	case events.OrderCreated:
		n.Type = models.NotificationOrder
		n.Title = "Đặt hàng thành công"
		n.Message = fmt.Sprintf("Đơn hàng %s đã được tạo", event.Reference)
		n.Link = "/orders/" + event.SubjectID
	case events.OrderStatusChanged:
		n.Type = models.NotificationOrder
		n.Title = "Cập nhật đơn hàng"
		n.Message = fmt.Sprintf("Đơn hàng %s: %s", event.Reference, label(orderStatusLabels, event.Status))
		n.Link = "/orders/" + event.SubjectID
	case events.PaymentTransferReported:
		n.Type = models.NotificationPayment
		n.Title = "Đã ghi nhận chuyển khoản"
		n.Message = fmt.Sprintf("Chúng tôi đang xác minh thanh toán cho đơn hàng %s", event.Reference)
		n.Link = "/orders/" + event.SubjectID
	case events.PaymentConfirmed:
		n.Type = models.NotificationPayment
		n.Title = "Thanh toán thành công"
		n.Message = fmt.Sprintf("Đơn hàng %s đã được thanh toán", event.Reference)
		n.Link = "/orders/" + event.SubjectID
	case events.AppointmentCreated:
		n.Type = models.NotificationAppointment
		n.Title = "Đặt lịch thành công"
		n.Message = fmt.Sprintf("Lịch hẹn %s đã được ghi nhận", event.Reference)
		n.Link = "/appointments/" + event.SubjectID
	case events.AppointmentStatusChanged:
		n.Type = models.NotificationAppointment
		n.Title = "Cập nhật lịch hẹn"
		n.Message = fmt.Sprintf("Lịch hẹn %s: %s", event.Reference, label(appointmentStatusLabels, event.Status))
		n.Link = "/appointments/" + event.SubjectID
	default:
		return nil
	}
	return n
}
