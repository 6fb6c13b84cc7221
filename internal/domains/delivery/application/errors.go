package application

import "errors"

var (
	// ErrOrderNotAssignable signals the order is already terminal or already
	// bound to an agent.
	ErrOrderNotAssignable = errors.New("order cannot be assigned")
	// ErrNoAgentsAvailable signals auto-assignment found no available agent.
	ErrNoAgentsAvailable = errors.New("no delivery agents available")
)
