package handler

import (
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/order"
)

type AddItemRequest struct {
	ProductID  int64  `json:"productId"`
	Quantity   int    `json:"quantity"`
	GuestToken string `json:"guestToken,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type PlaceOrderRequest struct {
	order.ShippingInfo
	PaymentMethod string `json:"paymentMethod"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

type CartItemResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Subtotal  string `json:"subtotal"`
}

type CartResponse struct {
	ID          int64              `json:"id"`
	GuestToken  *string            `json:"guestToken,omitempty"`
	UserID      *int64             `json:"userId,omitempty"`
	Items       []CartItemResponse `json:"items"`
	ItemCount   int                `json:"itemCount"`
	TotalAmount string             `json:"totalAmount"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type OrderItemResponse struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductImageURL *string `json:"productImageUrl,omitempty"`
	Price           string  `json:"price"`
	Quantity        int     `json:"quantity"`
	Subtotal        string  `json:"subtotal"`
}

type OrderResponse struct {
	ID            int64               `json:"id"`
	OrderNumber   string              `json:"orderNumber"`
	UserID        int64               `json:"userId"`
	Items         []OrderItemResponse `json:"items"`
	ItemCount     int                 `json:"itemCount"`
	TotalAmount   string              `json:"totalAmount"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"paymentStatus"`
	PaymentMethod string              `json:"paymentMethod"`
	order.ShippingInfo
	OrderDate time.Time `json:"orderDate"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCartResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
			Subtotal:  it.Subtotal().StringFixed(2),
		})
	}
	return CartResponse{
		ID:          c.ID,
		GuestToken:  c.GuestToken,
		UserID:      c.UserID,
		Items:       items,
		ItemCount:   c.ItemCount(),
		TotalAmount: c.TotalAmount.StringFixed(2),
		UpdatedAt:   c.UpdatedAt,
	}
}

func toOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			ProductImageURL: it.ProductImageURL,
			Price:           it.Price.StringFixed(2),
			Quantity:        it.Quantity,
			Subtotal:        it.Subtotal.StringFixed(2),
		})
	}
	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Items:         items,
		ItemCount:     o.ItemCount(),
		TotalAmount:   o.TotalAmount.StringFixed(2),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: string(o.PaymentMethod),
		ShippingInfo:  o.Shipping,
		OrderDate:     o.OrderDate,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderResponses(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
