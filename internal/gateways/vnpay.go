// Package gateways talks to the e-wallet payment providers.
package gateways

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"care4pets/internal/config"
)

const (
	vnpVersion = "2.1.0"
	vnpSuccess = "00"
)

var vnpLocation = time.FixedZone("ICT", 7*60*60)

// VNPayRequest describes one payment to open on the VNPay portal.
type VNPayRequest struct {
	TxnRef    string
	Amount    int64 // VND
	OrderInfo string
	ClientIP  string
	CreatedAt time.Time
}

// VNPayResult is what a signed return or IPN query tells us about a payment.
type VNPayResult struct {
	TxnRef        string
	Amount        int64 // VND
	TransactionNo string
	ResponseCode  string
	Success       bool
}

// VNPay builds and verifies VNPay 2.1.0 redirect URLs.
type VNPay struct {
	cfg config.VNPayConfig
}

func NewVNPay(cfg config.VNPayConfig) *VNPay {
	return &VNPay{cfg: cfg}
}

func (v *VNPay) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(v.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// PaymentURL returns the portal URL the customer is redirected to. The hash
// covers every vnp_ parameter, sorted by key and query-encoded.
func (v *VNPay) PaymentURL(req VNPayRequest) (string, error) {
	if v.cfg.TmnCode == "" || v.cfg.HashSecret == "" {
		return "", fmt.Errorf("vnpay is not configured")
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("vnpay amount must be positive, got %d", req.Amount)
	}
	created := req.CreatedAt.In(vnpLocation)

	params := url.Values{}
	params.Set("vnp_Version", vnpVersion)
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", v.cfg.TmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(req.Amount*100, 10))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", req.TxnRef)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", v.cfg.ReturnURL)
	params.Set("vnp_IpAddr", req.ClientIP)
	params.Set("vnp_CreateDate", created.Format("20060102150405"))
	params.Set("vnp_ExpireDate", created.Add(15*time.Minute).Format("20060102150405"))

	return v.cfg.PayURL + "?" + params.Encode() + "&vnp_SecureHash=" + v.Sign(params), nil
}

// Sign returns the secure hash of query. Hash parameters already present are
// not part of the signed data.
func (v *VNPay) Sign(query url.Values) string {
	signed := url.Values{}
	for key, values := range query {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		signed[key] = values
	}
	return v.sign(signed.Encode())
}

// Verify checks the secure hash of a return or IPN query and decodes it.
func (v *VNPay) Verify(query url.Values) (*VNPayResult, error) {
	hash := query.Get("vnp_SecureHash")
	if hash == "" {
		return nil, fmt.Errorf("missing vnp_SecureHash")
	}

	if !hmac.Equal([]byte(v.Sign(query)), []byte(hash)) {
		return nil, fmt.Errorf("invalid vnpay signature")
	}

	amount, err := strconv.ParseInt(query.Get("vnp_Amount"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid vnp_Amount: %w", err)
	}
	code := query.Get("vnp_ResponseCode")
	status := query.Get("vnp_TransactionStatus")
	return &VNPayResult{
		TxnRef:        query.Get("vnp_TxnRef"),
		Amount:        amount / 100,
		TransactionNo: query.Get("vnp_TransactionNo"),
		ResponseCode:  code,
		Success:       code == vnpSuccess && (status == "" || status == vnpSuccess),
	}, nil
}
