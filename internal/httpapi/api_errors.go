package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"

	cartapp "github.com/quickmeds/pharmacy-api/internal/domains/cart/application"
	deliveryapp "github.com/quickmeds/pharmacy-api/internal/domains/delivery/application"
	deliverydomain "github.com/quickmeds/pharmacy-api/internal/domains/delivery/domain"
	deliveryports "github.com/quickmeds/pharmacy-api/internal/domains/delivery/ports"
	inventoryports "github.com/quickmeds/pharmacy-api/internal/domains/inventory/ports"
	ordersapp "github.com/quickmeds/pharmacy-api/internal/domains/orders/application"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	ordersports "github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
	"github.com/quickmeds/pharmacy-api/internal/domains/payments"
	apierrors "github.com/quickmeds/pharmacy-api/internal/shared/errors"
)

// responder maps application errors onto RFC 7807 problem responses. Unknown
// errors fall through to a generic 500 without echoing internal detail.
var responder = apierrors.NewChainedResponder("", mapDomainError)

func mapDomainError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, deliveryports.ErrNotFound),
		errors.Is(err, cartapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, inventoryports.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrPaymentSignatureInvalid):
		return apierrors.ErrPaymentRejected.WithDetail(err.Error()), true
	case errors.Is(err, payments.ErrGatewayUnavailable):
		return apierrors.ErrGatewayUnavailable.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrItemUnavailable),
		errors.Is(err, ordersports.ErrPromoInvalid):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, ordersdomain.ErrIllegalTransition),
		errors.Is(err, deliverydomain.ErrAgentUnavailable),
		errors.Is(err, deliverydomain.ErrOrderNotAssigned),
		errors.Is(err, deliveryapp.ErrOrderNotAssignable),
		errors.Is(err, deliveryapp.ErrNoAgentsAvailable),
		errors.Is(err, ordersports.ErrVersionConflict),
		errors.Is(err, deliveryports.ErrVersionConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, cartapp.ErrInvalidInput),
		errors.Is(err, ordersdomain.ErrInvalidQuantity),
		errors.Is(err, ordersdomain.ErrNoLineItems),
		errors.Is(err, ordersdomain.ErrInvalidOrderStatus):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
