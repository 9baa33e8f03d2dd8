// Package zarinpal wraps the ZarinPal hosted-payment-page protocol behind
// two operations: creating a payment request and verifying a completed
// payment. Expected failures of every kind (transport errors, malformed
// responses, provider rejections) come back inside the result value; the
// client never returns an error to its callers.
package zarinpal

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
)

const (
	sandboxRequestURL  = "https://sandbox.zarinpal.com/pg/rest/WebGate/PaymentRequest.json"
	sandboxVerifyURL   = "https://sandbox.zarinpal.com/pg/rest/WebGate/PaymentVerification.json"
	sandboxStartPayURL = "https://sandbox.zarinpal.com/pg/StartPay/"

	liveRequestURL  = "https://api.zarinpal.com/pg/v4/payment/request.json"
	liveVerifyURL   = "https://api.zarinpal.com/pg/v4/payment/verify.json"
	liveStartPayURL = "https://www.zarinpal.com/pg/StartPay/"

	// provider code meaning success
	codeOK = 100

	requestTimeout = 10 * time.Second
)

type Config struct {
	MerchantID  string
	Sandbox     bool
	CallbackURL string

	// Mock short-circuits both operations: no network calls are made and a
	// locally-resolvable payment URL under MockBaseURL is returned.
	Mock        bool
	MockBaseURL string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	rand       io.Reader

	requestURL  string
	verifyURL   string
	startPayURL string
}

type Option func(*Client)

// WithHTTPClient replaces the default client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoints overrides the provider URLs, mainly for tests.
func WithEndpoints(requestURL, verifyURL, startPayURL string) Option {
	return func(c *Client) {
		c.requestURL = requestURL
		c.verifyURL = verifyURL
		c.startPayURL = startPayURL
	}
}

// WithRandSource replaces the mock-authority random source.
func WithRandSource(r io.Reader) Option {
	return func(c *Client) { c.rand = r }
}

func New(cfg Config, opts ...Option) port.PaymentGateway {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		rand:       rand.Reader,

		requestURL:  liveRequestURL,
		verifyURL:   liveVerifyURL,
		startPayURL: liveStartPayURL,
	}

	if cfg.Sandbox {
		c.requestURL = sandboxRequestURL
		c.verifyURL = sandboxVerifyURL
		c.startPayURL = sandboxStartPayURL
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// gatewayResponse covers both the request and verify response bodies.
type gatewayResponse struct {
	Data struct {
		Code      int             `json:"code"`
		Authority string          `json:"authority"`
		RefID     json.RawMessage `json:"ref_id"`
		CardPan   string          `json:"card_pan"`
		CardHash  string          `json:"card_hash"`
		FeeType   string          `json:"fee_type"`
		Fee       int64           `json:"fee"`
	} `json:"data"`
	Errors struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) CreatePaymentRequest(ctx context.Context, req domain.PaymentRequest) domain.PaymentRequestResult {
	if req.Amount <= 0 {
		return domain.PaymentRequestResult{Error: "amount must be positive"}
	}

	if c.cfg.Mock {
		return c.mockPaymentRequest(req)
	}

	body := map[string]any{
		"merchant_id":  c.cfg.MerchantID,
		"amount":       req.Amount,
		"description":  req.Description,
		"callback_url": c.cfg.CallbackURL,
		"metadata": map[string]any{
			"order_id":   req.OrderID.String(),
			"user_email": req.Email,
			"user_phone": req.Phone,
		},
	}

	result, errMsg := c.post(ctx, c.requestURL, body)
	if errMsg != "" {
		return domain.PaymentRequestResult{Error: errMsg}
	}

	if result.Data.Code != codeOK {
		msg := result.Errors.Message
		if msg == "" {
			msg = "payment request failed"
		}
		return domain.PaymentRequestResult{Error: msg}
	}

	return domain.PaymentRequestResult{
		Success:    true,
		Authority:  result.Data.Authority,
		PaymentURL: c.startPayURL + result.Data.Authority,
	}
}

func (c *Client) mockPaymentRequest(req domain.PaymentRequest) domain.PaymentRequestResult {
	buf := make([]byte, 16)
	if _, err := io.ReadFull(c.rand, buf); err != nil {
		return domain.PaymentRequestResult{Error: fmt.Sprintf("mock authority: %s", err)}
	}
	authority := hex.EncodeToString(buf)

	params := url.Values{}
	params.Set("authority", authority)
	params.Set("amount", strconv.FormatInt(req.Amount, 10))
	params.Set("description", req.Description)
	params.Set("order_id", req.OrderID.String())

	return domain.PaymentRequestResult{
		Success:    true,
		Authority:  authority,
		PaymentURL: strings.TrimSuffix(c.cfg.MockBaseURL, "/") + "/payment/mock/?" + params.Encode(),
	}
}

func (c *Client) VerifyPayment(ctx context.Context, authority string, amount int64) domain.PaymentVerification {
	if c.cfg.Mock {
		return mockVerification(authority)
	}

	body := map[string]any{
		"merchant_id": c.cfg.MerchantID,
		"amount":      amount,
		"authority":   authority,
	}

	result, errMsg := c.post(ctx, c.verifyURL, body)
	if errMsg != "" {
		return domain.PaymentVerification{Error: errMsg}
	}

	if result.Data.Code != codeOK {
		msg := result.Errors.Message
		if msg == "" {
			msg = "payment verification failed"
		}
		return domain.PaymentVerification{Error: msg}
	}

	return domain.PaymentVerification{
		Success:  true,
		RefID:    refIDString(result.Data.RefID),
		CardPAN:  result.Data.CardPan,
		CardHash: result.Data.CardHash,
		FeeType:  result.Data.FeeType,
		Fee:      result.Data.Fee,
	}
}

func mockVerification(authority string) domain.PaymentVerification {
	ref := authority
	if len(ref) > 10 {
		ref = ref[:10]
	}

	return domain.PaymentVerification{
		Success:  true,
		RefID:    "MOCK" + ref,
		CardPAN:  "123456****1234",
		CardHash: "mock_hash",
		FeeType:  "Payer",
		Fee:      0,
	}
}

// post issues one bounded-timeout request and translates every failure mode
// into a message; the second return value is empty on success.
func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) (gatewayResponse, string) {
	var parsed gatewayResponse

	payload, err := json.Marshal(body)
	if err != nil {
		return parsed, fmt.Sprintf("encode request: %s", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return parsed, fmt.Sprintf("build request: %s", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return parsed, fmt.Sprintf("network error: %s", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return parsed, fmt.Sprintf("read response: %s", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return parsed, "empty response from payment gateway"
	}

	if err := json.Unmarshal(raw, &parsed); err != nil {
		return parsed, fmt.Sprintf("invalid response from payment gateway: %s", err)
	}

	return parsed, ""
}

// refIDString normalizes ref_id, which the provider returns as a number.
func refIDString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatInt(asNumber, 10)
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	return string(raw)
}
