package service

import "errors"

// Sentinel errors mapped by handlers onto HTTP status codes
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyInvoiced   = errors.New("sale is already invoiced")
)
