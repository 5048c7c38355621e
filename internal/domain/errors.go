package domain

import "errors"

var (
	// ErrNotFound indicates the product is not in the current catalog snapshot.
	ErrNotFound = errors.New("not found")
	// ErrNegativePrice rejects catalog records priced below zero.
	ErrNegativePrice = errors.New("negative price")
)
