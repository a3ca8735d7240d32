package cart

import (
	"context"
	"errors"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts. Every call names the cart
// it works on through an Identity; nothing is read from ambient state.
type Service interface {
	AddItem(ctx context.Context, id Identity, productID int64, quantity int) (*Cart, error)
	GetCart(ctx context.Context, id Identity) (*Cart, error)
	RemoveItem(ctx context.Context, id Identity, itemID int64) (*Cart, error)
	// UpdateQuantity sets the quantity exactly. Below 1 the item is removed.
	UpdateQuantity(ctx context.Context, id Identity, itemID int64, quantity int) (*Cart, error)
	// Merge folds the guest cart into the user's cart and deletes it.
	Merge(ctx context.Context, guestToken string, userID int64) (*Cart, error)
}

type service struct {
	repo     Repository
	products product.Repository
	tx       db.Transactor
}

func NewService(repo Repository, products product.Repository, tx db.Transactor) Service {
	return &service{repo: repo, products: products, tx: tx}
}

func (s *service) AddItem(ctx context.Context, id Identity, productID int64, quantity int) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Stringer("identity", id),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
	)

	if !id.Valid() {
		return nil, ErrMissingIdentity
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var cart *Cart
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.products.FindByID(ctx, productID)
		if errors.Is(err, product.ErrProductNotFound) {
			return ErrProductUnavailable
		}
		if err != nil {
			return err
		}
		if !p.Active {
			return ErrProductUnavailable
		}

		cart, err = s.repo.GetOrCreateForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if existing := cart.ItemByProduct(productID); existing != nil {
			next := existing.Quantity + quantity
			if err := s.repo.UpdateItemQuantity(ctx, existing.ID, next); err != nil {
				return err
			}
			existing.Quantity = next
		} else {
			item := CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				Price:     p.Price,
			}
			if err := s.repo.InsertItem(ctx, &item); err != nil {
				return err
			}
			cart.Items = append(cart.Items, item)
		}

		return s.repo.UpdateTotal(ctx, cart.ID, cart.Recalculate())
	})
	if err != nil {
		log.Warn("failed to add item to cart", zap.Error(err))
		return nil, err
	}

	log.Info("item added to cart",
		zap.Int64("cart_id", cart.ID),
		zap.String("total", cart.TotalAmount.StringFixed(2)),
	)
	return cart, nil
}

func (s *service) GetCart(ctx context.Context, id Identity) (*Cart, error) {
	if !id.Valid() {
		return nil, ErrMissingIdentity
	}
	return s.repo.Find(ctx, id)
}

func (s *service) RemoveItem(ctx context.Context, id Identity, itemID int64) (*Cart, error) {
	return s.mutateItem(ctx, "RemoveItem", id, itemID, func(ctx context.Context, cart *Cart, item *CartItem) error {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		cart.removeItem(item.ID)
		return nil
	})
}

func (s *service) UpdateQuantity(ctx context.Context, id Identity, itemID int64, quantity int) (*Cart, error) {
	return s.mutateItem(ctx, "UpdateQuantity", id, itemID, func(ctx context.Context, cart *Cart, item *CartItem) error {
		if quantity < 1 {
			if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
				return err
			}
			cart.removeItem(item.ID)
			return nil
		}
		if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
			return err
		}
		item.Quantity = quantity
		return nil
	})
}

// mutateItem locks the caller's cart, checks the item is in it, applies fn
// and persists the recomputed total.
func (s *service) mutateItem(
	ctx context.Context,
	method string,
	id Identity,
	itemID int64,
	fn func(ctx context.Context, cart *Cart, item *CartItem) error,
) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", method),
		zap.Stringer("identity", id),
		zap.Int64("item_id", itemID),
	)

	if !id.Valid() {
		return nil, ErrMissingIdentity
	}

	var cart *Cart
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindItem(ctx, itemID); err != nil {
			return err
		}

		var err error
		cart, err = s.repo.FindForUpdate(ctx, id)
		if errors.Is(err, ErrCartNotFound) {
			return ErrItemNotInCart
		}
		if err != nil {
			return err
		}

		item := cart.Item(itemID)
		if item == nil {
			// gone since the lookup, or never ours
			if _, err := s.repo.FindItem(ctx, itemID); err != nil {
				return err
			}
			return ErrItemNotInCart
		}

		if err := fn(ctx, cart, item); err != nil {
			return err
		}
		return s.repo.UpdateTotal(ctx, cart.ID, cart.Recalculate())
	})
	if err != nil {
		log.Warn("cart item mutation failed", zap.Error(err))
		return nil, err
	}

	log.Info("cart updated",
		zap.Int64("cart_id", cart.ID),
		zap.String("total", cart.TotalAmount.StringFixed(2)),
	)
	return cart, nil
}
