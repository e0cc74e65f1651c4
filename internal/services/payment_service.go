package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"care4pets/internal/apperrors"
	"care4pets/internal/config"
	"care4pets/internal/events"
	"care4pets/internal/gateways"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	noteTransferReported  = "Khách hàng báo đã chuyển khoản"
	noteTransferConfirmed = "Đã xác nhận thanh toán chuyển khoản"
	vietQRBaseURL         = "https://img.vietqr.io/image/"
)

// BankInfo is the receiving account shown next to the QR code.
type BankInfo struct {
	BankID      string `json:"bankId"`
	BankName    string `json:"bankName"`
	AccountNo   string `json:"accountNo"`
	AccountName string `json:"accountName"`
}

// QRPayment is everything the client needs to render the bank transfer modal.
type QRPayment struct {
	OrderID         string   `json:"orderId"`
	OrderNumber     string   `json:"orderNumber"`
	QRCodeURL       string   `json:"qrCodeUrl"`
	BankInfo        BankInfo `json:"bankInfo"`
	TransferContent string   `json:"transferContent"`
	Amount          int64    `json:"amount"`
	Instructions    []string `json:"instructions"`
}

// EWallet is one selectable wallet in the e-wallet modal.
type EWallet struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

var eWallets = []EWallet{
	{ID: models.GatewayVNPay, Name: "VNPay", Enabled: true},
	{ID: models.GatewayMoMo, Name: "MoMo", Enabled: true},
	{ID: models.GatewayZaloPay, Name: "ZaloPay", Enabled: false},
}

// MoMoGateway is the part of the MoMo client the payment flow relies on.
type MoMoGateway interface {
	CreatePayment(ctx context.Context, req gateways.MoMoRequest) (string, error)
	VerifyIPN(ipn gateways.MoMoIPN) bool
}

// PaymentService runs bank transfer, e-wallet and admin payment confirmation flows.
type PaymentService struct {
	orders    repositories.OrderRepository
	payments  repositories.PaymentRepository
	publisher events.Publisher
	bank      config.BankConfig
	vnpay     *gateways.VNPay
	momo      MoMoGateway
	log       *zap.Logger
	now       func() time.Time
}

func NewPaymentService(
	orders repositories.OrderRepository,
	payments repositories.PaymentRepository,
	publisher events.Publisher,
	bank config.BankConfig,
	vnpay *gateways.VNPay,
	momo MoMoGateway,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orders:    orders,
		payments:  payments,
		publisher: publisher,
		bank:      bank,
		vnpay:     vnpay,
		momo:      momo,
		log:       log,
		now:       time.Now,
	}
}

// ownOrder loads an order that must belong to userID.
func (s *PaymentService) ownOrder(userID, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, repoError(err, "Order not found")
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, nil
}

func checkPayable(order *models.Order) error {
	if order.Status == models.OrderStatusCancelled || order.Status == models.OrderStatusRefunded {
		return apperrors.BadRequest("Order has been cancelled")
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return apperrors.BadRequest("Order is already paid")
	}
	return nil
}

// TransferContent is the memo a customer must put on the bank transfer.
func (s *PaymentService) TransferContent(order *models.Order) string {
	return s.bank.TransferPrefix + " " + order.OrderNumber
}

// QRPayment builds a VietQR code for a bank transfer order. A fresh payload
// is generated on every call and the pending payment record is kept in sync.
func (s *PaymentService) QRPayment(ctx context.Context, userID, orderID string) (*QRPayment, error) {
	order, err := s.ownOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodBankTransfer {
		return nil, apperrors.BadRequest("QR payment is only available for bank transfer orders")
	}
	if err := checkPayable(order); err != nil {
		return nil, err
	}

	content := s.TransferContent(order)
	query := url.Values{}
	query.Set("amount", strconv.FormatInt(order.Total, 10))
	query.Set("addInfo", content)
	query.Set("accountName", s.bank.AccountName)
	qrURL := fmt.Sprintf("%s%s-%s-%s.png?%s", vietQRBaseURL, s.bank.BankID, s.bank.AccountNo, s.bank.QRTemplate, query.Encode())

	if err := s.syncTransferRecord(order, content, qrURL); err != nil {
		return nil, err
	}

	return &QRPayment{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		QRCodeURL:   qrURL,
		BankInfo: BankInfo{
			BankID:      s.bank.BankID,
			BankName:    s.bank.BankName,
			AccountNo:   s.bank.AccountNo,
			AccountName: s.bank.AccountName,
		},
		TransferContent: content,
		Amount:          order.Total,
		Instructions: []string{
			"Mở ứng dụng ngân hàng và quét mã QR",
			fmt.Sprintf("Kiểm tra số tiền %d VND và nội dung chuyển khoản %s", order.Total, content),
			"Xác nhận chuyển khoản rồi bấm \"Tôi đã chuyển khoản\"",
			"Đơn hàng sẽ được xác nhận sau khi chúng tôi nhận được thanh toán",
		},
	}, nil
}

func (s *PaymentService) syncTransferRecord(order *models.Order, content, qrURL string) error {
	existing, err := s.pendingRecord(order.ID, models.GatewayBankTransfer)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Amount = order.Total
		existing.PaymentURL = qrURL
		return repoError(s.payments.Update(existing), "Payment not found")
	}
	return repoError(s.payments.Create(&models.Payment{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Gateway:    models.GatewayBankTransfer,
		Amount:     order.Total,
		Status:     models.PaymentRecordPending,
		Reference:  content,
		PaymentURL: qrURL,
	}), "Payment not found")
}

func (s *PaymentService) pendingRecord(orderID, gateway string) (*models.Payment, error) {
	records, err := s.payments.ListByOrder(orderID)
	if err != nil {
		return nil, repoError(err, "Payment not found")
	}
	for i := range records {
		if records[i].Gateway == gateway && records[i].Status == models.PaymentRecordPending {
			return &records[i], nil
		}
	}
	return nil, nil
}

// ConfirmTransfer records the customer's claim that the transfer was sent.
// Reporting twice is a no-op.
func (s *PaymentService) ConfirmTransfer(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.ownOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodBankTransfer {
		return nil, apperrors.BadRequest("Only bank transfer orders can be reported as transferred")
	}
	if err := checkPayable(order); err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentStatusAwaitingConfirmation {
		return order, nil
	}

	now := s.now()
	guard := repositories.OrderGuard{Status: order.Status, PaymentStatus: order.PaymentStatus}
	order.PaymentStatus = models.PaymentStatusAwaitingConfirmation
	entry := &models.OrderStatusEntry{Status: order.Status, Note: noteTransferReported, Timestamp: now}
	if err := s.orders.Update(order, guard, entry, false); err != nil {
		return nil, repoError(err, "Order not found")
	}

	s.log.Info("Bank transfer reported", zap.String("order_id", order.ID), zap.String("order_number", order.OrderNumber))
	events.Emit(ctx, s.publisher, s.log, events.Event{
		Type:      events.PaymentTransferReported,
		UserID:    order.UserID,
		SubjectID: order.ID,
		Reference: order.OrderNumber,
		Status:    order.PaymentStatus,
		Amount:    order.Total,
	})
	return order, nil
}

// ListAwaitingPayment lists bank transfer orders an admin still has to verify, newest first.
func (s *PaymentService) ListAwaitingPayment(p repositories.Pagination) ([]models.Order, int64, error) {
	orders, total, err := s.orders.List(repositories.OrderFilter{AwaitingTransfer: true, Pagination: p})
	if err != nil {
		return nil, 0, repoError(err, "Orders not found")
	}
	return orders, total, nil
}

// ConfirmPayment is the admin's verification that the money arrived.
func (s *PaymentService) ConfirmPayment(ctx context.Context, orderID, note string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, repoError(err, "Order not found")
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, apperrors.Conflict("Order is already paid")
	}
	if err := checkPayable(order); err != nil {
		return nil, err
	}
	if !order.AwaitsBankTransfer() {
		return nil, apperrors.BadRequest("Only bank transfer orders awaiting payment can be confirmed")
	}

	note = strings.TrimSpace(note)
	if note == "" {
		note = noteTransferConfirmed
	}
	if err := s.markPaid(ctx, order, note); err != nil {
		return nil, err
	}
	if err := s.settleRecord(order.ID, models.GatewayBankTransfer, ""); err != nil {
		s.log.Warn("Failed to settle transfer record", zap.String("order_id", order.ID), zap.Error(err))
	}
	return order, nil
}

// markPaid sets the order paid and confirms it if nobody has handled it yet.
func (s *PaymentService) markPaid(ctx context.Context, order *models.Order, note string) error {
	now := s.now()
	guard := repositories.OrderGuard{Status: order.Status, PaymentStatus: order.PaymentStatus}
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaidAt = &now
	if order.Status == models.OrderStatusPending {
		order.Status = models.OrderStatusConfirmed
	}
	entry := &models.OrderStatusEntry{Status: order.Status, Note: note, Timestamp: now}
	if err := s.orders.Update(order, guard, entry, false); err != nil {
		return repoError(err, "Order not found")
	}

	s.log.Info("Payment confirmed",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("amount", order.Total))
	events.Emit(ctx, s.publisher, s.log, events.Event{
		Type:      events.PaymentConfirmed,
		UserID:    order.UserID,
		SubjectID: order.ID,
		Reference: order.OrderNumber,
		Status:    order.Status,
		Note:      note,
		Amount:    order.Total,
	})
	return nil
}

func (s *PaymentService) settleRecord(orderID, gateway, transactionID string) error {
	record, err := s.pendingRecord(orderID, gateway)
	if err != nil || record == nil {
		return err
	}
	now := s.now()
	record.Status = models.PaymentRecordSucceeded
	record.GatewayTransactionID = transactionID
	record.PaidAt = &now
	return s.payments.Update(record)
}

// EWallets lists the wallets the client may offer.
func (s *PaymentService) EWallets() []EWallet {
	return append([]EWallet(nil), eWallets...)
}

func walletEnabled(wallet string) bool {
	for _, w := range eWallets {
		if w.ID == wallet {
			return w.Enabled
		}
	}
	return false
}

// CreatePaymentURL opens a payment with the chosen wallet and returns the URL
// the customer is sent to.
func (s *PaymentService) CreatePaymentURL(ctx context.Context, userID, wallet, orderID, clientIP string) (string, error) {
	wallet = strings.ToLower(strings.TrimSpace(wallet))
	if !walletEnabled(wallet) {
		return "", apperrors.BadRequest("Payment method not supported")
	}
	if strings.TrimSpace(orderID) == "" {
		return "", apperrors.Validation(map[string]string{"orderId": "Order id is required"})
	}

	order, err := s.ownOrder(userID, orderID)
	if err != nil {
		return "", err
	}
	if order.PaymentMethod != models.PaymentMethodEWallet && order.PaymentMethod != models.PaymentMethodCreditCard {
		return "", apperrors.BadRequest("Order was not placed with e-wallet payment")
	}
	if err := checkPayable(order); err != nil {
		return "", err
	}

	now := s.now()
	info := "Thanh toan don hang " + order.OrderNumber
	record := &models.Payment{
		OrderID: order.ID,
		UserID:  order.UserID,
		Gateway: wallet,
		Amount:  order.Total,
		Status:  models.PaymentRecordPending,
	}

	switch wallet {
	case models.GatewayVNPay:
		record.Reference = order.OrderNumber
		record.PaymentURL, err = s.vnpay.PaymentURL(gateways.VNPayRequest{
			TxnRef:    order.OrderNumber,
			Amount:    order.Total,
			OrderInfo: info,
			ClientIP:  clientIP,
			CreatedAt: now,
		})
	case models.GatewayMoMo:
		// MoMo refuses a repeated orderId, so every attempt gets its own.
		record.Reference = order.OrderNumber + "-" + strconv.FormatInt(now.UnixMilli(), 10)
		record.PaymentURL, err = s.momo.CreatePayment(ctx, gateways.MoMoRequest{
			OrderID:   record.Reference,
			RequestID: uuid.New().String(),
			Amount:    order.Total,
			OrderInfo: info,
		})
	}
	if err != nil {
		s.log.Error("Failed to create e-wallet payment",
			zap.String("wallet", wallet),
			zap.String("order_id", order.ID),
			zap.Error(err))
		return "", apperrors.New(http.StatusBadGateway, "Could not create the payment, please try again", err)
	}

	if err := s.payments.Create(record); err != nil {
		return "", repoError(err, "Payment not found")
	}
	return record.PaymentURL, nil
}

// HandleVNPayReturn verifies a VNPay return query and settles the order on
// success. The bool reports whether the payment went through.
func (s *PaymentService) HandleVNPayReturn(ctx context.Context, query url.Values) (*models.Order, bool, error) {
	result, err := s.vnpay.Verify(query)
	if err != nil {
		s.log.Warn("Rejected VNPay callback", zap.Error(err))
		return nil, false, apperrors.BadRequest("Invalid payment signature")
	}

	order, err := s.orders.GetByOrderNumber(result.TxnRef)
	if err != nil {
		return nil, false, repoError(err, "Order not found")
	}
	if result.Amount != order.Total {
		return nil, false, apperrors.BadRequest("Payment amount does not match the order")
	}

	ok, err := s.settleGateway(ctx, order, models.GatewayVNPay, result.TxnRef, result.TransactionNo, result.Success, "Đã thanh toán qua VNPay")
	return order, ok, err
}

// HandleMoMoIPN verifies and applies a MoMo instant payment notification.
func (s *PaymentService) HandleMoMoIPN(ctx context.Context, ipn gateways.MoMoIPN) error {
	if !s.momo.VerifyIPN(ipn) {
		s.log.Warn("Rejected MoMo IPN", zap.String("momo_order_id", ipn.OrderID))
		return apperrors.BadRequest("Invalid payment signature")
	}

	record, err := s.payments.GetByReference(models.GatewayMoMo, ipn.OrderID)
	if err != nil {
		return repoError(err, "Payment not found")
	}
	order, err := s.orders.GetByID(record.OrderID)
	if err != nil {
		return repoError(err, "Order not found")
	}
	if ipn.Amount != order.Total {
		return apperrors.BadRequest("Payment amount does not match the order")
	}

	_, err = s.settleGateway(ctx, order, models.GatewayMoMo, ipn.OrderID, strconv.FormatInt(ipn.TransID, 10), ipn.ResultCode == 0, "Đã thanh toán qua MoMo")
	return err
}

// settleGateway applies a verified gateway outcome. Callbacks are retried by
// the providers, so an order that is already paid is left untouched.
func (s *PaymentService) settleGateway(ctx context.Context, order *models.Order, gateway, reference, transactionID string, success bool, note string) (bool, error) {
	record, err := s.payments.GetByReference(gateway, reference)
	if err != nil {
		s.log.Warn("No payment record for callback",
			zap.String("gateway", gateway),
			zap.String("reference", reference),
			zap.Error(err))
	}

	if !success {
		if record != nil && record.Status == models.PaymentRecordPending {
			record.Status = models.PaymentRecordFailed
			record.GatewayTransactionID = transactionID
			if err := s.payments.Update(record); err != nil {
				s.log.Warn("Failed to mark payment failed", zap.String("payment_id", record.ID), zap.Error(err))
			}
		}
		return false, nil
	}

	if order.PaymentStatus != models.PaymentStatusPaid {
		if err := checkPayable(order); err != nil {
			return false, err
		}
		if err := s.markPaid(ctx, order, note); err != nil {
			return false, err
		}
	}

	if record != nil && record.Status != models.PaymentRecordSucceeded {
		now := s.now()
		record.Status = models.PaymentRecordSucceeded
		record.GatewayTransactionID = transactionID
		record.PaidAt = &now
		if err := s.payments.Update(record); err != nil {
			s.log.Warn("Failed to settle payment record", zap.String("payment_id", record.ID), zap.Error(err))
		}
	}
	return true, nil
}
