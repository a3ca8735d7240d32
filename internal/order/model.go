package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", ErrUnknownStatus
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch ps := PaymentStatus(strings.ToUpper(strings.TrimSpace(s))); ps {
	case PaymentUnpaid, PaymentPaid, PaymentFailed, PaymentRefunded:
		return ps, nil
	}
	return "", ErrUnknownPaymentStatus
}

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentCard PaymentMethod = "CARD"
	PaymentUPI  PaymentMethod = "UPI"
)

// ShippingInfo is copied onto the order at placement and never changes.
type ShippingInfo struct {
	Address string `json:"shippingAddress"`
	City    string `json:"shippingCity"`
	State   string `json:"shippingState"`
	Zip     string `json:"shippingZip"`
	Phone   string `json:"shippingPhone"`
}

type PlaceOrderRequest struct {
	Shipping      ShippingInfo
	PaymentMethod string
}

// Validate checks every field and returns the normalized payment method.
func (r PlaceOrderRequest) Validate() (PaymentMethod, error) {
	s := r.Shipping
	for _, f := range []string{s.Address, s.City, s.State, s.Zip, s.Phone} {
		if strings.TrimSpace(f) == "" {
			return "", ErrMissingShipping
		}
	}

	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(r.PaymentMethod))); m {
	case PaymentCOD, PaymentCard, PaymentUPI:
		return m, nil
	case "":
		return "", ErrMissingPaymentMethod
	}
	return "", ErrUnsupportedPaymentMethod
}

type Order struct {
	ID            int64
	OrderNumber   string
	UserID        int64
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	Status        Status
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	Shipping      ShippingInfo
	OrderDate     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is a frozen copy of what was bought. ProductID may point at a
// product that has since been deleted.
type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	ProductName     string
	ProductImageURL *string
	Price           decimal.Decimal
	Quantity        int
	Subtotal        decimal.Decimal
}

func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
