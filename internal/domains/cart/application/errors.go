package application

import (
	"errors"
	"fmt"

	catalogports "github.com/quickmeds/pharmacy-api/internal/domains/catalog/ports"
	"github.com/quickmeds/pharmacy-api/internal/domains/cart/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
)

var (
	// ErrInvalidInput signals the request violated a basket invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrNotFound signals the cart or one of its referents does not exist.
	ErrNotFound = errors.New("cart resource not found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrItemNotInCart),
		errors.Is(err, catalogports.ErrItemNotFound),
		errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
