package gateways

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"care4pets/internal/config"
)

const momoRequestType = "captureWallet"

// MoMoRequest describes one payment to open in the MoMo app.
type MoMoRequest struct {
	OrderID   string // unique per attempt
	RequestID string
	Amount    int64
	OrderInfo string
}

type momoCreateBody struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	PartnerCode string `json:"partnerCode"`
	OrderID     string `json:"orderId"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	ResultCode  int    `json:"resultCode"`
	Message     string `json:"message"`
	PayURL      string `json:"payUrl"`
}

// MoMoIPN is the instant payment notification MoMo posts after a payment.
type MoMoIPN struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// MoMoClient calls the MoMo v2 gateway.
type MoMoClient struct {
	cfg    config.MoMoConfig
	client *http.Client
}

func NewMoMoClient(cfg config.MoMoConfig, timeout time.Duration) *MoMoClient {
	return &MoMoClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (m *MoMoClient) sign(raw string) string {
	mac := hmac.New(sha256.New, []byte(m.cfg.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreatePayment registers a captureWallet payment and returns MoMo's payUrl.
func (m *MoMoClient) CreatePayment(ctx context.Context, req MoMoRequest) (string, error) {
	body := momoCreateBody{
		PartnerCode: m.cfg.PartnerCode,
		RequestID:   req.RequestID,
		Amount:      req.Amount,
		OrderID:     req.OrderID,
		OrderInfo:   req.OrderInfo,
		RedirectURL: m.cfg.RedirectURL,
		IpnURL:      m.cfg.IPNURL,
		RequestType: momoRequestType,
		Lang:        "vi",
	}
	raw := "accessKey=" + m.cfg.AccessKey +
		"&amount=" + strconv.FormatInt(body.Amount, 10) +
		"&extraData=" + body.ExtraData +
		"&ipnUrl=" + body.IpnURL +
		"&orderId=" + body.OrderID +
		"&orderInfo=" + body.OrderInfo +
		"&partnerCode=" + body.PartnerCode +
		"&redirectUrl=" + body.RedirectURL +
		"&requestId=" + body.RequestID +
		"&requestType=" + body.RequestType
	body.Signature = m.sign(raw)

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode momo request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build momo request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("momo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("momo upstream error: status=%d body=%s", resp.StatusCode, string(b))
	}

	var out momoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode momo response: %w", err)
	}
	if out.ResultCode != 0 {
		return "", fmt.Errorf("momo rejected payment: resultCode=%d message=%s", out.ResultCode, out.Message)
	}
	if out.PayURL == "" {
		return "", fmt.Errorf("momo response has no payUrl")
	}
	return out.PayURL, nil
}

// IPNSignature is the signature MoMo is expected to put on ipn.
func (m *MoMoClient) IPNSignature(ipn MoMoIPN) string {
	raw := "accessKey=" + m.cfg.AccessKey +
		"&amount=" + strconv.FormatInt(ipn.Amount, 10) +
		"&extraData=" + ipn.ExtraData +
		"&message=" + ipn.Message +
		"&orderId=" + ipn.OrderID +
		"&orderInfo=" + ipn.OrderInfo +
		"&orderType=" + ipn.OrderType +
		"&partnerCode=" + ipn.PartnerCode +
		"&payType=" + ipn.PayType +
		"&requestId=" + ipn.RequestID +
		"&responseTime=" + strconv.FormatInt(ipn.ResponseTime, 10) +
		"&resultCode=" + strconv.Itoa(ipn.ResultCode) +
		"&transId=" + strconv.FormatInt(ipn.TransID, 10)
	return m.sign(raw)
}

// VerifyIPN reports whether ipn carries a valid signature.
func (m *MoMoClient) VerifyIPN(ipn MoMoIPN) bool {
	return hmac.Equal([]byte(m.IPNSignature(ipn)), []byte(ipn.Signature))
}
