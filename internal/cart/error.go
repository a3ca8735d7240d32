package cart

import "storefront-be/internal/apperror"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = apperror.New(apperror.KindInvalidInput, "quantity must be at least 1")
	ErrMissingIdentity = apperror.New(apperror.KindInvalidInput, "a guest token or a signed in user is required")

	// -- Authorization --
	ErrItemNotInCart = apperror.New(apperror.KindForbidden, "cart item belongs to another cart")

	// -- Resource State --
	ErrCartNotFound       = apperror.New(apperror.KindNotFound, "cart not found")
	ErrCartItemNotFound   = apperror.New(apperror.KindNotFound, "cart item not found")
	ErrProductUnavailable = apperror.New(apperror.KindNotFound, "product not found or inactive")
	ErrMergeIntoSelf      = apperror.New(apperror.KindInvalidState, "guest cart already belongs to this user")
)
