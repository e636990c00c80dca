package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/closetly/closetly-backend/pkg/auth"
	"github.com/closetly/closetly-backend/pkg/config"
	"github.com/closetly/closetly-backend/pkg/db/models"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
	"github.com/closetly/closetly-backend/pkg/logger"
	"github.com/closetly/closetly-backend/pkg/razorpay"
)

// CheckoutOrder is the payload clients need to open the payment widget.
type CheckoutOrder struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// ConfirmRequest carries the checkout callback fields.
type ConfirmRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature"`
}

// PremiumStatus reports the account's premium state. A fresh token carries
// the updated premium claim so clients do not need to re-login.
type PremiumStatus struct {
	Premium bool   `json:"premium"`
	Token   string `json:"token,omitempty"`
}

// Service covers the premium upgrade flow.
type Service interface {
	PremiumStatus(ctx context.Context, userID uuid.UUID) (*PremiumStatus, error)
	CreateUpgradeOrder(ctx context.Context, userID uuid.UUID) (*CheckoutOrder, error)
	ConfirmUpgrade(ctx context.Context, userID uuid.UUID, req ConfirmRequest) (*PremiumStatus, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetPremium(ctx context.Context, id uuid.UUID, premium bool) error
}

type checkoutClient interface {
	CreateOrder(amount int, currency string) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// ServiceParams bundles the dependencies for the billing service.
type ServiceParams struct {
	UserRepo       userRepository
	Checkout       checkoutClient
	RazorpayConfig config.RazorpayConfig
	JWTConfig      config.JWTConfig
	Logger         *logger.Logger
}

type service struct {
	users    userRepository
	checkout checkoutClient
	cfg      config.RazorpayConfig
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
}

// NewService constructs the billing service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Checkout == nil {
		return nil, fmt.Errorf("checkout client is required")
	}
	return &service{
		users:    params.UserRepo,
		checkout: params.Checkout,
		cfg:      params.RazorpayConfig,
		jwtCfg:   params.JWTConfig,
		logg:     params.Logger,
	}, nil
}

func (s *service) PremiumStatus(ctx context.Context, userID uuid.UUID) (*PremiumStatus, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PremiumStatus{Premium: user.Premium}, nil
}

// CreateUpgradeOrder fabricates a checkout order for the fixed premium
// price. Already-premium accounts get a conflict instead of a second charge.
func (s *service) CreateUpgradeOrder(ctx context.Context, userID uuid.UUID) (*CheckoutOrder, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Premium {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "account is already premium")
	}

	order, err := s.checkout.CreateOrder(s.cfg.PremiumAmount, s.cfg.Currency)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout order")
	}
	return &CheckoutOrder{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.checkout.KeyID(),
	}, nil
}

// ConfirmUpgrade verifies the checkout callback, flips the premium flag, and
// mints a token that carries the new claim.
func (s *service) ConfirmUpgrade(ctx context.Context, userID uuid.UUID, req ConfirmRequest) (*PremiumStatus, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.checkout.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment signature verification failed")
	}

	if err := s.users.SetPremium(ctx, userID, true); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set premium flag")
	}
	user.Premium = true

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), s.jwtCfg.TTL(false), pkgAuth.AccessTokenPayload{
		UserID:  user.ID,
		Email:   user.Email,
		Premium: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, userID.String()), "premium upgrade confirmed")
	}
	return &PremiumStatus{Premium: true, Token: token}, nil
}

func (s *service) findUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}
