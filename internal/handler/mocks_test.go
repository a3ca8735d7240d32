package handler

import (
	"context"

	"storefront-be/internal/auth"
	"storefront-be/internal/cart"
	"storefront-be/internal/order"

	"github.com/stretchr/testify/mock"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, id cart.Identity, productID int64, quantity int) (*cart.Cart, error) {
	args := m.Called(ctx, id, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, id cart.Identity) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, id cart.Identity, itemID int64) (*cart.Cart, error) {
	args := m.Called(ctx, id, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, id cart.Identity, itemID int64, quantity int) (*cart.Cart, error) {
	args := m.Called(ctx, id, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) Merge(ctx context.Context, guestToken string, userID int64) (*cart.Cart, error) {
	args := m.Called(ctx, guestToken, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) orderResult(args mock.Arguments) (*order.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ordersResult(args mock.Arguments) ([]*order.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID int64, req order.PlaceOrderRequest) (*order.Order, error) {
	return m.orderResult(m.Called(ctx, userID, req))
}

func (m *MockOrderService) GetOrder(ctx context.Context, p auth.Principal, orderID int64) (*order.Order, error) {
	return m.orderResult(m.Called(ctx, p, orderID))
}

func (m *MockOrderService) GetOrderByNumber(ctx context.Context, p auth.Principal, number string) (*order.Order, error) {
	return m.orderResult(m.Called(ctx, p, number))
}

func (m *MockOrderService) ListOrdersForUser(ctx context.Context, userID int64) ([]*order.Order, error) {
	return m.ordersResult(m.Called(ctx, userID))
}

func (m *MockOrderService) ListAllOrders(ctx context.Context, p auth.Principal) ([]*order.Order, error) {
	return m.ordersResult(m.Called(ctx, p))
}

func (m *MockOrderService) ListOrdersByStatus(ctx context.Context, p auth.Principal, status order.Status) ([]*order.Order, error) {
	return m.ordersResult(m.Called(ctx, p, status))
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, p auth.Principal, orderID int64, status order.Status) (*order.Order, error) {
	return m.orderResult(m.Called(ctx, p, orderID, status))
}

func (m *MockOrderService) UpdatePaymentStatus(ctx context.Context, p auth.Principal, orderID int64, status order.PaymentStatus) (*order.Order, error) {
	return m.orderResult(m.Called(ctx, p, orderID, status))
}

func (m *MockOrderService) CancelOrder(ctx context.Context, userID, orderID int64) (*order.Order, error) {
	return m.orderResult(m.Called(ctx, userID, orderID))
}
