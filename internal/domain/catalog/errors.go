package catalog

import "github.com/warelog/handheld-go/internal/domain/shared"

// Domain errors for catalog lookups

type InvalidProductDataError struct {
	*shared.DomainError
}

func NewInvalidProductDataError(message string) *InvalidProductDataError {
	return &InvalidProductDataError{DomainError: shared.NewDomainError(message)}
}
