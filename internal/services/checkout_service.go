// internal/services/checkout_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/leekchan/accounting"
	"github.com/skip2/go-qrcode"

	"github.com/spicepop/storefront/internal/config"
	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/utils"
)

// ErrNoWhatsAppNumber is returned when neither the whatsapp_number setting
// nor WHATSAPP_NUMBER is set.
var ErrNoWhatsAppNumber = errors.New("no whatsapp number configured")

const qrCodeSize = 320

type CheckoutService struct {
	settings *SettingService
	cfg      *config.Config
	money    *accounting.Accounting
}

type WhatsAppCheckoutRequest struct {
	models.CustomerDetails
	Items []models.OrderItem `json:"items" validate:"required,min=1,dive"`
}

type WhatsAppCheckoutResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Total   string `json:"total"`
}

func NewCheckoutService(settings *SettingService, cfg *config.Config) *CheckoutService {
	return &CheckoutService{
		settings: settings,
		cfg:      cfg,
		money: &accounting.Accounting{
			Symbol:    cfg.Checkout.CurrencySymbol,
			Precision: 2,
			Thousand:  ",",
			Decimal:   ".",
		},
	}
}

// WhatsAppLink composes the order message and the wa.me link that opens a
// chat with the shop pre-filled with it.
func (s *CheckoutService) WhatsAppLink(ctx context.Context, req *WhatsAppCheckoutRequest) (*WhatsAppCheckoutResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	number, err := s.whatsAppNumber(ctx)
	if err != nil {
		return nil, err
	}

	items := models.OrderItems(req.Items)
	message := s.FormatOrderMessage(req.CustomerDetails, items)

	return &WhatsAppCheckoutResponse{
		Message: message,
		URL:     "https://wa.me/" + number + "?text=" + escapeText(message),
		Total:   items.Total().String(),
	}, nil
}

// WhatsAppQRCode renders the checkout link as a PNG QR code.
func (s *CheckoutService) WhatsAppQRCode(ctx context.Context, req *WhatsAppCheckoutRequest) ([]byte, error) {
	link, err := s.WhatsAppLink(ctx, req)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(link.URL, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

func (s *CheckoutService) FormatOrderMessage(customer models.CustomerDetails, items models.OrderItems) string {
	var b strings.Builder

	b.WriteString("*New order from SpicePop*\n\n")
	fmt.Fprintf(&b, "Name: %s\n", customer.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", customer.CustomerPhone)
	fmt.Fprintf(&b, "Email: %s\n", customer.CustomerEmail)
	fmt.Fprintf(&b, "Address: %s\n\n", customer.ShippingAddress)

	b.WriteString("*Items*\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s x%d - %s\n", i+1, item.Name, item.Quantity, s.money.FormatMoneyDecimal(item.Subtotal()))
	}

	fmt.Fprintf(&b, "\n*Total: %s*", s.money.FormatMoneyDecimal(items.Total().Decimal))
	return b.String()
}

func (s *CheckoutService) whatsAppNumber(ctx context.Context) (string, error) {
	number, err := s.settings.Lookup(ctx, SettingKeyWhatsAppNumber)
	if err != nil {
		return "", err
	}
	if number == "" {
		number = s.cfg.Checkout.WhatsAppNumber
	}

	number = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if number == "" {
		return "", ErrNoWhatsAppNumber
	}
	return number, nil
}

// escapeText query-escapes s, encoding spaces as %20.
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
