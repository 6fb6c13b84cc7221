package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrGatewayUnavailable = errors.New("payment gateway is not configured")

// Gateway creates gateway-side orders ahead of client checkout. The real
// gateway SDK lives behind this port; the stub exists for local runs.
type Gateway interface {
	CreateGatewayOrder(ctx context.Context, amount float64, currency string) (string, error)
}

// StubGateway fabricates gateway order identifiers locally. Signatures for
// stub orders can be produced with Verifier.Sign for end-to-end smoke tests.
type StubGateway struct{}

func (StubGateway) CreateGatewayOrder(_ context.Context, amount float64, currency string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("gateway order amount must be positive, got %.2f %s", amount, currency)
	}
	return "gw_" + uuid.NewString()[:12], nil
}

// UnavailableGateway always fails; wired when no gateway secret is configured
// so gateway-paid checkouts surface a dependency error instead of a panic.
type UnavailableGateway struct{}

func (UnavailableGateway) CreateGatewayOrder(context.Context, float64, string) (string, error) {
	return "", ErrGatewayUnavailable
}
