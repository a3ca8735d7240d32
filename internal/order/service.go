package order

import (
	"context"
	"errors"
	"time"

	"storefront-be/internal/apperror"
	"storefront-be/internal/auth"
	"storefront-be/internal/cart"
	"storefront-be/internal/db"
	"storefront-be/internal/inventory"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	// PlaceOrder turns the user's cart into an order in one transaction:
	// stock is taken, the order is written and the cart is emptied.
	PlaceOrder(ctx context.Context, userID int64, req PlaceOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, p auth.Principal, orderID int64) (*Order, error)
	GetOrderByNumber(ctx context.Context, p auth.Principal, number string) (*Order, error)
	ListOrdersForUser(ctx context.Context, userID int64) ([]*Order, error)
	ListAllOrders(ctx context.Context, p auth.Principal) ([]*Order, error)
	ListOrdersByStatus(ctx context.Context, p auth.Principal, status Status) ([]*Order, error)
	UpdateStatus(ctx context.Context, p auth.Principal, orderID int64, status Status) (*Order, error)
	// UpdatePaymentStatus confirms a pending order when it becomes PAID.
	UpdatePaymentStatus(ctx context.Context, p auth.Principal, orderID int64, status PaymentStatus) (*Order, error)
	CancelOrder(ctx context.Context, userID, orderID int64) (*Order, error)
}

type Options struct {
	// MaxAttempts bounds how often PlaceOrder retries after an order
	// number clash. Values below 1 mean 1.
	MaxAttempts int
	// StrictTransitions rejects admin status changes outside the
	// lifecycle graph.
	StrictTransitions bool
	Now               func() time.Time
	Metrics           *metrics.Checkout
}

type service struct {
	repo    Repository
	carts   cart.Repository
	ledger  inventory.Ledger
	tx      db.Transactor
	numbers *NumberGenerator
	now     func() time.Time
	metrics *metrics.Checkout
	opts    Options
}

func NewService(repo Repository, carts cart.Repository, ledger inventory.Ledger, tx db.Transactor, opts Options) Service {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = &metrics.Checkout{}
	}
	return &service{
		repo:    repo,
		carts:   carts,
		ledger:  ledger,
		tx:      tx,
		numbers: NewNumberGenerator(repo, opts.Now),
		now:     opts.Now,
		metrics: opts.Metrics,
		opts:    opts,
	}
}

func (s *service) PlaceOrder(ctx context.Context, userID int64, req PlaceOrderRequest) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Int64("user_id", userID),
	)

	method, err := req.Validate()
	if err != nil {
		return nil, err
	}

	timer := metrics.StartTimer()
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		o, err := s.placeOnce(ctx, userID, req.Shipping, method)
		if errors.Is(err, ErrOrderNumberTaken) {
			s.metrics.NumberRetries.Inc()
			log.Warn("order number clash, retrying", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			if apperror.Is(err, apperror.KindInsufficientStock) {
				s.metrics.StockRejections.Inc()
			}
			s.metrics.Failed.Inc()
			log.Warn("order placement failed", zap.Error(err))
			return nil, err
		}

		s.metrics.Placed.Inc()
		s.metrics.ObservePlace(timer)

		log.Info("order placed",
			zap.Int64("order_id", o.ID),
			zap.String("order_number", o.OrderNumber),
			zap.Int("items", len(o.Items)),
			zap.String("total", o.TotalAmount.StringFixed(2)),
		)
		return o, nil
	}

	s.metrics.Failed.Inc()
	log.Error("order number retries exhausted", zap.Int("attempts", s.opts.MaxAttempts))
	return nil, ErrOrderNumberTaken
}

func (s *service) placeOnce(ctx context.Context, userID int64, shipping ShippingInfo, method PaymentMethod) (*Order, error) {
	var order *Order
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.carts.FindForUpdate(ctx, cart.User(userID))
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			return ErrEmptyCart
		}

		lines := make([]inventory.Line, 0, len(c.Items))
		for _, it := range c.Items {
			lines = append(lines, inventory.Line{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		products, err := s.ledger.Reserve(ctx, lines)
		if err != nil {
			return err
		}

		number, err := s.numbers.Next(ctx)
		if err != nil {
			return err
		}

		now := s.now()
		order = &Order{
			OrderNumber:   number,
			UserID:        userID,
			Status:        StatusPending,
			PaymentStatus: PaymentUnpaid,
			PaymentMethod: method,
			Shipping:      shipping,
			OrderDate:     now,
			Items:         make([]OrderItem, 0, len(c.Items)),
		}

		total := decimal.Zero
		for _, it := range c.Items {
			p := products[it.ProductID]
			item := OrderItem{
				ProductID:       it.ProductID,
				ProductName:     p.Name,
				ProductImageURL: p.ImageURL,
				Price:           it.Price,
				Quantity:        it.Quantity,
				Subtotal:        it.Subtotal(),
			}
			total = total.Add(item.Subtotal)
			order.Items = append(order.Items, item)
		}
		order.TotalAmount = total

		if err := s.repo.Create(ctx, order); err != nil {
			return err
		}
		return s.carts.Clear(ctx, c.ID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, p auth.Principal, orderID int64) (*Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && o.UserID != p.UserID {
		return nil, ErrNotOwner
	}
	return o, nil
}

func (s *service) GetOrderByNumber(ctx context.Context, p auth.Principal, number string) (*Order, error) {
	o, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && o.UserID != p.UserID {
		return nil, ErrNotOwner
	}
	return o, nil
}

func (s *service) ListOrdersForUser(ctx context.Context, userID int64) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAllOrders(ctx context.Context, p auth.Principal) ([]*Order, error) {
	if !p.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return s.repo.ListAll(ctx)
}

func (s *service) ListOrdersByStatus(ctx context.Context, p auth.Principal, status Status) ([]*Order, error) {
	if !p.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	return s.repo.ListByStatus(ctx, status)
}

func (s *service) UpdateStatus(ctx context.Context, p auth.Principal, orderID int64, status Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Int64("order_id", orderID),
		zap.String("status", string(status)),
	)

	if !p.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	var order *Order
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if s.opts.StrictTransitions && o.Status != status && !o.Status.CanTransitionTo(status) {
			return ErrInvalidTransition
		}

		previous := o.Status
		o.Status = status
		if err := s.repo.SaveStatus(ctx, o); err != nil {
			return err
		}
		log.Info("order status updated", zap.String("from", string(previous)))
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, p auth.Principal, orderID int64, status PaymentStatus) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdatePaymentStatus"),
		zap.Int64("order_id", orderID),
		zap.String("payment_status", string(status)),
	)

	if !p.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if _, err := ParsePaymentStatus(string(status)); err != nil {
		return nil, err
	}

	var order *Order
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		o.PaymentStatus = status
		if status == PaymentPaid && o.Status == StatusPending {
			o.Status = StatusConfirmed
			log.Info("paid order confirmed")
		}
		if err := s.repo.SaveStatus(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) CancelOrder(ctx context.Context, userID, orderID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CancelOrder"),
		zap.Int64("user_id", userID),
		zap.Int64("order_id", orderID),
	)

	var order *Order
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return ErrNotOwner
		}
		if !o.Status.Cancellable() {
			return ErrNotCancellable
		}

		lines := make([]inventory.Line, 0, len(o.Items))
		for _, it := range o.Items {
			lines = append(lines, inventory.Line{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		if err := s.ledger.Release(ctx, lines); err != nil {
			return err
		}

		o.Status = StatusCancelled
		if err := s.repo.SaveStatus(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		log.Warn("order cancellation failed", zap.Error(err))
		return nil, err
	}

	s.metrics.Cancelled.Inc()
	log.Info("order cancelled", zap.String("order_number", order.OrderNumber))
	return order, nil
}
