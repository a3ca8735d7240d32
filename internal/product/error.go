package product

import "storefront-be/internal/apperror"

var (
	ErrProductNotFound = apperror.New(apperror.KindNotFound, "product not found")
	ErrInvalidProduct  = apperror.New(apperror.KindInvalidInput, "product price and stock must not be negative")
)
