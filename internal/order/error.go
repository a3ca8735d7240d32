package order

import "storefront-be/internal/apperror"

var (
	// -- Validation & Input --
	ErrMissingShipping          = apperror.New(apperror.KindInvalidInput, "shipping address, city, state, zip and phone are required")
	ErrMissingPaymentMethod     = apperror.New(apperror.KindInvalidInput, "payment method is required")
	ErrUnsupportedPaymentMethod = apperror.New(apperror.KindInvalidInput, "payment method must be one of COD, CARD, UPI")
	ErrUnknownStatus            = apperror.New(apperror.KindInvalidInput, "unknown order status")
	ErrUnknownPaymentStatus     = apperror.New(apperror.KindInvalidInput, "unknown payment status")

	// -- Authorization --
	ErrAdminOnly = apperror.New(apperror.KindForbidden, "admin access required")
	ErrNotOwner  = apperror.New(apperror.KindForbidden, "order belongs to another user")

	// -- Resource State --
	ErrOrderNotFound      = apperror.New(apperror.KindNotFound, "order not found")
	ErrEmptyCart          = apperror.New(apperror.KindInvalidState, "cart is empty")
	ErrNotCancellable     = apperror.New(apperror.KindInvalidState, "order can no longer be cancelled")
	ErrInvalidTransition  = apperror.New(apperror.KindInvalidState, "order status transition not allowed")
	ErrOrderNumberTaken   = apperror.New(apperror.KindConflict, "order number already taken")
	ErrNumberSpaceBlocked = apperror.New(apperror.KindConflict, "no free order number found")

	// -- Constants (External Systems) --
	PgUniqueViolation     = "23505"
	orderNumberConstraint = "orders_order_number_key"
)
