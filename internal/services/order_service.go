// internal/services/order_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/storage"
	"github.com/spicepop/storefront/internal/utils"
)

type OrderService struct {
	store storage.Storage
	log   logrus.FieldLogger
}

func NewOrderService(store storage.Storage, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		store: store,
		log:   log,
	}
}

// orderTotal bounds the summed amount to what numeric(10,2) can hold.
type orderTotal struct {
	TotalAmount models.Money `json:"totalAmount" validate:"money"`
}

// CreateOrder records a checkout. Items are stored as submitted and the total
// is recomputed from them; product stock is left untouched.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	items := models.OrderItems(req.Items)
	total := orderTotal{TotalAmount: items.Total()}
	if err := utils.ValidateStruct(&total); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodWhatsApp
	}

	order := &models.Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		TotalAmount:     total.TotalAmount,
		Status:          models.OrderStatusPending,
		PaymentMethod:   method,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.TotalAmount.String(),
		"items":    len(order.Items),
	}).Info("Order created")

	return order, nil
}

// ListOrders returns newest orders first. A nil page lists every order.
func (s *OrderService) ListOrders(ctx context.Context, page *utils.PaginationParams) ([]models.Order, int64, error) {
	var p storage.Page
	if page != nil {
		p = storage.Page{Offset: page.Offset(), Limit: page.Limit}
	}

	orders, total, err := s.store.GetOrders(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.store.GetOrderByID(ctx, id)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	order, err := s.store.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.log.WithFields(logrus.Fields{"order_id": id, "status": req.Status}).Info("Order status updated")
	return order, nil
}
