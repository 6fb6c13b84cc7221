package application

import (
	"errors"
	"fmt"

	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a fulfillment invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrItemUnavailable signals a requested catalog item is missing or inactive.
	ErrItemUnavailable = errors.New("item unavailable")
	// ErrPaymentSignatureInvalid signals the gateway proof failed verification.
	ErrPaymentSignatureInvalid = errors.New("payment signature invalid")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNoLineItems),
		errors.Is(err, domain.ErrInvalidOrderStatus):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrPromoInvalid):
		return err
	}
	return err
}
