package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/closetly/closetly-backend/pkg/config"
)

func TestNewClientRejectsLiveMode(t *testing.T) {
	_, err := NewClient(config.RazorpayConfig{Env: "live"})
	if err != ErrLiveNotSupported {
		t.Fatalf("expected ErrLiveNotSupported, got %v", err)
	}
}

func TestNewClientRejectsUnknownEnv(t *testing.T) {
	if _, err := NewClient(config.RazorpayConfig{Env: "staging"}); err == nil {
		t.Fatal("expected unknown environment to error")
	}
}

func TestCreateOrder(t *testing.T) {
	client, err := NewClient(config.RazorpayConfig{Env: "test"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	order, err := client.CreateOrder(19900, "INR")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !strings.HasPrefix(order.ID, "order_") {
		t.Fatalf("unexpected order id %q", order.ID)
	}
	if order.Amount != 19900 || order.Currency != "INR" || order.Status != "created" {
		t.Fatalf("unexpected order %+v", order)
	}

	if _, err := client.CreateOrder(0, "INR"); err == nil {
		t.Fatal("expected zero amount to error")
	}
}

func TestVerifySignatureWithoutSecretAcceptsAll(t *testing.T) {
	client, _ := NewClient(config.RazorpayConfig{Env: "test"})
	if !client.VerifySignature("order_x", "pay_y", "anything") {
		t.Fatal("expected secretless stub to accept any signature")
	}
}

func TestVerifySignatureWithSecret(t *testing.T) {
	client, _ := NewClient(config.RazorpayConfig{Env: "test", KeySecret: "s3cret"})

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write([]byte("order_x|pay_y"))
	valid := hex.EncodeToString(mac.Sum(nil))

	if !client.VerifySignature("order_x", "pay_y", valid) {
		t.Fatal("expected valid signature to pass")
	}
	if client.VerifySignature("order_x", "pay_y", "bogus") {
		t.Fatal("expected bogus signature to fail")
	}
}
