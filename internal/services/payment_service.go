// internal/services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/spicepop/storefront/internal/config"
	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/storage"
	"github.com/spicepop/storefront/internal/utils"
)

var (
	ErrOrderAlreadyPaid    = errors.New("order already paid")
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")
	ErrPaymentFailed       = errors.New("payment provider error")
)

const stubReferencePrefix = "stub_"

// PaymentProvider creates and checks payment intents for orders.
type PaymentProvider interface {
	Name() string
	CreateIntent(ctx context.Context, order *models.Order, currency string) (*PaymentIntentResponse, error)
	// Succeeded reports whether paymentID was paid in full for order.
	Succeeded(ctx context.Context, paymentID string, order *models.Order) (bool, error)
}

type CreatePaymentRequest struct {
	OrderID uint `json:"orderId" validate:"required,min=1"`
}

type ConfirmPaymentRequest struct {
	OrderID   uint   `json:"orderId" validate:"required,min=1"`
	PaymentID string `json:"paymentId" validate:"required,max=255"`
}

type PaymentIntentResponse struct {
	Provider     string `json:"provider"`
	PaymentID    string `json:"paymentId"`
	ClientSecret string `json:"clientSecret,omitempty"`
	Status       string `json:"status"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

type PaymentService struct {
	store    storage.Storage
	provider PaymentProvider
	cfg      *config.Config
	log      logrus.FieldLogger
}

// NewPaymentService uses Stripe when a secret key is configured and the stub
// provider otherwise.
func NewPaymentService(store storage.Storage, cfg *config.Config, log logrus.FieldLogger) *PaymentService {
	var provider PaymentProvider = StubProvider{}
	if cfg.Payment.StripeSecretKey != "" {
		provider = NewStripeProvider(cfg.Payment.StripeSecretKey)
	}
	return NewPaymentServiceWithProvider(store, provider, cfg, log)
}

func NewPaymentServiceWithProvider(store storage.Storage, provider PaymentProvider, cfg *config.Config, log logrus.FieldLogger) *PaymentService {
	return &PaymentService{
		store:    store,
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
}

func (s *PaymentService) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	order, err := s.store.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrOrderAlreadyPaid
	}

	intent, err := s.provider.CreateIntent(ctx, order, s.cfg.Payment.Currency)
	if err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Error("Failed to create payment intent")
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	// Confirmation only accepts the reference issued here.
	if _, err := s.store.SetOrderPaymentReference(ctx, order.ID, intent.PaymentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOrderAlreadyPaid
		}
		return nil, fmt.Errorf("failed to record payment reference: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"payment_id": intent.PaymentID,
		"provider":   intent.Provider,
	}).Info("Payment intent created")

	return intent, nil
}

// ConfirmPayment marks the order paid once the provider reports success.
// Confirming the same payment twice returns the paid order.
func (s *PaymentService) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	order, err := s.store.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		if order.PaymentReference != nil && *order.PaymentReference == req.PaymentID {
			return order, nil
		}
		return nil, ErrOrderAlreadyPaid
	}

	if order.PaymentReference == nil || *order.PaymentReference != req.PaymentID {
		return nil, ErrPaymentNotSucceeded
	}

	ok, err := s.provider.Succeeded(ctx, req.PaymentID, order)
	if err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Error("Failed to check payment")
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if !ok {
		return nil, ErrPaymentNotSucceeded
	}

	order, err = s.store.UpdateOrderPayment(ctx, order.ID, req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.log.WithFields(logrus.Fields{"order_id": order.ID, "payment_id": req.PaymentID}).Info("Order paid")
	return order, nil
}

// StubProvider treats an issued stub reference as paid. It stands in for a
// real gateway when no Stripe key is configured.
type StubProvider struct{}

func (StubProvider) Name() string { return "stub" }

func (StubProvider) CreateIntent(_ context.Context, order *models.Order, currency string) (*PaymentIntentResponse, error) {
	return &PaymentIntentResponse{
		Provider:  "stub",
		PaymentID: stubReferencePrefix + uuid.NewString(),
		Status:    "requires_confirmation",
		Amount:    order.TotalAmount.String(),
		Currency:  currency,
	}, nil
}

func (StubProvider) Succeeded(_ context.Context, paymentID string, order *models.Order) (bool, error) {
	if !strings.HasPrefix(paymentID, stubReferencePrefix) {
		return false, nil
	}
	return order.PaymentReference != nil && *order.PaymentReference == paymentID, nil
}

type StripeProvider struct{}

func NewStripeProvider(secretKey string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{}
}

func (*StripeProvider) Name() string { return "stripe" }

func (*StripeProvider) CreateIntent(ctx context.Context, order *models.Order, currency string) (*PaymentIntentResponse, error) {
	// Stripe amounts are in the currency's minor unit.
	amount := order.TotalAmount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		ReceiptEmail: stripe.String(order.CustomerEmail),
	}
	params.Context = ctx
	params.AddMetadata("order_id", strconv.FormatUint(uint64(order.ID), 10))

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		Provider:     "stripe",
		PaymentID:    pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       order.TotalAmount.String(),
		Currency:     string(pi.Currency),
	}, nil
}

func (*StripeProvider) Succeeded(ctx context.Context, paymentID string, order *models.Order) (bool, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(paymentID, params)
	if err != nil {
		return false, fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Metadata["order_id"] != strconv.FormatUint(uint64(order.ID), 10) {
		return false, nil
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}
