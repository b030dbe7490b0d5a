// internal/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/utils"
)

type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	paymentService  *services.PaymentService
}

func NewCheckoutHandler(checkoutService *services.CheckoutService, paymentService *services.PaymentService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		paymentService:  paymentService,
	}
}

// POST /api/checkout/whatsapp
//
// ?format=qr answers with a PNG QR code of the link instead of JSON.
func (h *CheckoutHandler) WhatsApp(c *gin.Context) {
	var req services.WhatsAppCheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	if c.Query("format") == "qr" {
		png, err := h.checkoutService.WhatsAppQRCode(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err, "order")
			return
		}
		c.Data(http.StatusOK, "image/png", png)
		return
	}

	resp, err := h.checkoutService.WhatsAppLink(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, resp)
}

// POST /api/checkout/payment
func (h *CheckoutHandler) CreatePayment(c *gin.Context) {
	var req services.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	intent, err := h.paymentService.CreatePayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.CreatedResponse(c, intent)
}

// POST /api/checkout/payment/confirm
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	var req services.ConfirmPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.paymentService.ConfirmPayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, order)
}
