package token

import "errors"

// Set of error variables for token operations that callers branch on.
var (
	ErrInvalidAddress       = errors.New("invalid base58 address")
	ErrInsufficientFunds    = errors.New("fee payer balance below configured minimum")
	ErrSourceAccountMissing = errors.New("source token account does not exist")
)
