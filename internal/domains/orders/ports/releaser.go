package ports

import "context"

// AgentReleaser unbinds a courier from a cancelled order so the agent record
// never keeps pointing at an order that no longer needs delivery. ReclaimAgent
// is the compensating inverse: it restores the binding when the cancellation
// write loses its race after the release already happened.
type AgentReleaser interface {
	ReleaseAgent(ctx context.Context, agentID, orderID string) error
	ReclaimAgent(ctx context.Context, agentID, orderID string) error
}
