package cart

import "github.com/mmenu/backend/internal/domain/shared"

// MaxLineQuantity caps the quantity of a single line item
const MaxLineQuantity = 999

var (
	ErrInvalidQuantity  = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 0 and 999")
	ErrMissingProduct   = shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	ErrLineItemNotFound = shared.NewDomainError("LINE_ITEM_NOT_FOUND", "Cart item not found")
	ErrInvalidLineItem  = shared.NewDomainError("INVALID_LINE_ITEM", "Cart item is invalid")
	ErrCurrencyMismatch = shared.NewDomainError("CURRENCY_MISMATCH", "Product is priced in a different currency than the cart")
)
