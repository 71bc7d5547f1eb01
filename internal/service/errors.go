package service

import "errors"

// Business-rule errors surfaced to handlers. Handlers map these to HTTP
// statuses instead of leaking internal error text.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrOrderNotFound     = errors.New("purchase order not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrInsufficientFunds = errors.New("insufficient funds in cash drawer")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrReferenceExists   = errors.New("reference already exists")
	ErrSaleCancelled     = errors.New("sale is already cancelled")
	ErrOrderClosed       = errors.New("purchase order is already received or cancelled")
	ErrPaymentTarget     = errors.New("payment must reference a sale or a purchase order")
)
