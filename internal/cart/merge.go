package cart

import (
	"context"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// Merge runs at login. Guest lines for a product the user already has add
// to that line's quantity; the rest move over with their price snapshot.
// The guest cart is locked before the user cart.
func (s *service) Merge(ctx context.Context, guestToken string, userID int64) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Merge"),
		zap.Int64("user_id", userID),
	)

	if guestToken == "" || userID == 0 {
		return nil, ErrMissingIdentity
	}

	var userCart *Cart
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		guestCart, err := s.repo.FindForUpdate(ctx, Guest(guestToken))
		if err != nil {
			return err
		}
		if guestCart.UserID != nil && *guestCart.UserID == userID {
			return ErrMergeIntoSelf
		}

		userCart, err = s.repo.GetOrCreateForUpdate(ctx, User(userID))
		if err != nil {
			return err
		}
		if userCart.ID == guestCart.ID {
			return ErrMergeIntoSelf
		}

		for _, gi := range guestCart.Items {
			if existing := userCart.ItemByProduct(gi.ProductID); existing != nil {
				next := existing.Quantity + gi.Quantity
				if err := s.repo.UpdateItemQuantity(ctx, existing.ID, next); err != nil {
					return err
				}
				existing.Quantity = next
				continue
			}

			if err := s.repo.MoveItem(ctx, gi.ID, userCart.ID); err != nil {
				return err
			}
			gi.CartID = userCart.ID
			userCart.Items = append(userCart.Items, gi)
		}

		if err := s.repo.UpdateTotal(ctx, userCart.ID, userCart.Recalculate()); err != nil {
			return err
		}
		return s.repo.Delete(ctx, guestCart.ID)
	})
	if err != nil {
		log.Warn("cart merge failed", zap.Error(err))
		return nil, err
	}

	log.Info("guest cart merged",
		zap.Int64("cart_id", userCart.ID),
		zap.Int("items", len(userCart.Items)),
		zap.String("total", userCart.TotalAmount.StringFixed(2)),
	)
	return userCart, nil
}
