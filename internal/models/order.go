// internal/models/order.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderItem is a snapshot of a product line at checkout time; name and price
// are copied, never re-read from the product.
type OrderItem struct {
	ProductID uint   `json:"productId" validate:"required,min=1"`
	Name      string `json:"name" validate:"required,max=255"`
	Price     Money  `json:"price" validate:"money"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=1000"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderItems []OrderItem

func (items OrderItems) Total() Money {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return NewMoney(total)
}

func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (items *OrderItems) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*items = OrderItems{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported order items type %T", value)
	}
	return json.Unmarshal(data, items)
}

type Order struct {
	BaseModel
	CustomerName     string        `json:"customerName" gorm:"size:255;not null"`
	CustomerEmail    string        `json:"customerEmail" gorm:"size:255;not null"`
	CustomerPhone    string        `json:"customerPhone" gorm:"size:50;not null"`
	ShippingAddress  string        `json:"shippingAddress" gorm:"type:text;not null"`
	Items            OrderItems    `json:"items" gorm:"type:jsonb;not null"`
	TotalAmount      Money         `json:"totalAmount" gorm:"type:numeric(10,2);not null"`
	Status           OrderStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod    PaymentMethod `json:"paymentMethod" gorm:"type:varchar(20);not null;default:'whatsapp'"`
	PaymentReference *string       `json:"paymentReference" gorm:"size:255"`
}

type CustomerDetails struct {
	CustomerName    string `json:"customerName" validate:"required,max=255"`
	CustomerEmail   string `json:"customerEmail" validate:"required,email,max=255"`
	CustomerPhone   string `json:"customerPhone" validate:"required,min=6,max=50"`
	ShippingAddress string `json:"shippingAddress" validate:"required,min=5"`
}

type CreateOrderRequest struct {
	CustomerDetails
	Items         []OrderItem   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty" validate:"omitempty,oneof=whatsapp card"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,order_status"`
}
