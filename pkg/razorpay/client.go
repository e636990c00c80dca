package razorpay

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/closetly/closetly-backend/pkg/config"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errInvalidEnv = fmt.Errorf("razorpay environment must be %q or %q", testEnv, liveEnv)

	// ErrLiveNotSupported is returned when the stub is configured for live
	// traffic. Checkout is a demo placeholder and never reaches Razorpay.
	ErrLiveNotSupported = errors.New("razorpay live mode is not supported by the checkout stub")
)

// Order mirrors the subset of a Razorpay order the app consumes.
type Order struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Client is a deliberately offline stand-in for the Razorpay checkout API.
// Orders are fabricated locally and signature checks use the same HMAC scheme
// Razorpay documents, so swapping in the real SDK later changes no callers.
type Client struct {
	keyID       string
	keySecret   string
	environment string
}

// NewClient validates the configured environment and returns the stub client.
func NewClient(cfg config.RazorpayConfig) (*Client, error) {
	env := cfg.Environment()
	if env != testEnv && env != liveEnv {
		return nil, errInvalidEnv
	}
	if env == liveEnv {
		return nil, ErrLiveNotSupported
	}
	return &Client{
		keyID:       strings.TrimSpace(cfg.KeyID),
		keySecret:   strings.TrimSpace(cfg.KeySecret),
		environment: env,
	}, nil
}

// Environment returns the normalized environment the client was built with.
func (c *Client) Environment() string {
	return c.environment
}

// KeyID returns the public key id embedded into client checkout options.
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder fabricates a local order in the created state.
func (c *Client) CreateOrder(amount int, currency string) (*Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive")
	}
	if currency == "" {
		currency = "INR"
	}
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return nil, fmt.Errorf("generate order id: %w", err)
	}
	return &Order{
		ID:       "order_" + hex.EncodeToString(suffix),
		Amount:   amount,
		Currency: currency,
		Status:   "created",
	}, nil
}

// VerifySignature checks the checkout callback signature. With no key secret
// configured (the demo default) every callback is accepted.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if c.keySecret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
