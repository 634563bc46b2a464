package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// GatewayOrder is the gateway-side session record for one payment attempt.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Gateway creates payment sessions with the external provider. It never
// verifies payments; that is the reconciler's job.
type Gateway interface {
	Configured() bool
	CreateOrder(amount float64, currency, receipt string) (GatewayOrder, error)
}

// RazorpayClient talks to the Razorpay orders API. The underlying HTTP
// client is initialized exactly once per process; concurrent callers share
// the single in-flight initialization.
type RazorpayClient struct {
	keyID     string
	keySecret string
	baseURL   string

	once    sync.Once
	client  *http.Client
	initErr error
}

func NewRazorpayClient(keyID, keySecret, baseURL string) *RazorpayClient {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	return &RazorpayClient{keyID: keyID, keySecret: keySecret, baseURL: baseURL}
}

// Configured reports whether gateway credentials are present. When false the
// caller must fall back to cash-on-delivery without touching the gateway.
func (c *RazorpayClient) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

// KeyID is the public key a client embeds in the gateway widget.
func (c *RazorpayClient) KeyID() string {
	return c.keyID
}

func (c *RazorpayClient) init() error {
	c.once.Do(func() {
		if !c.Configured() {
			c.initErr = ErrGatewayUnavailable
			return
		}
		c.client = &http.Client{Timeout: 15 * time.Second}
	})
	return c.initErr
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder opens a gateway order for the given amount. The amount is
// converted to the currency's smallest unit as the API requires.
func (c *RazorpayClient) CreateOrder(amount float64, currency, receipt string) (GatewayOrder, error) {
	if err := c.init(); err != nil {
		return GatewayOrder{}, err
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return GatewayOrder{}, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return GatewayOrder{}, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return GatewayOrder{}, fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, res.StatusCode)
	}

	var out GatewayOrder
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return out, nil
}
