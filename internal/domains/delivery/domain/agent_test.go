package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssign_OnlyWhenAvailable(t *testing.T) {
	agent := &Agent{ID: "agent-1", Status: StatusAvailable}
	require.NoError(t, agent.Assign("order-1"))
	require.Equal(t, StatusBusy, agent.Status)
	require.Equal(t, []string{"order-1"}, agent.AssignedOrders)

	require.ErrorIs(t, agent.Assign("order-2"), ErrAgentUnavailable)

	offline := &Agent{ID: "agent-2", Status: StatusOffline}
	require.ErrorIs(t, offline.Assign("order-1"), ErrAgentUnavailable)
}

func TestRelease_FreesAgent(t *testing.T) {
	agent := &Agent{ID: "agent-1", Status: StatusAvailable}
	require.NoError(t, agent.Assign("order-1"))
	require.NoError(t, agent.Release("order-1"))
	require.Equal(t, StatusAvailable, agent.Status)
	require.Empty(t, agent.AssignedOrders)
}

func TestRelease_UnknownOrderRejected(t *testing.T) {
	agent := &Agent{ID: "agent-1", Status: StatusBusy, AssignedOrders: []string{"order-1"}}
	require.ErrorIs(t, agent.Release("order-2"), ErrOrderNotAssigned)
	require.Equal(t, StatusBusy, agent.Status)
}

func TestComplete_BumpsDeliveryCounter(t *testing.T) {
	agent := &Agent{ID: "agent-1", Status: StatusAvailable, Deliveries: 4}
	require.NoError(t, agent.Assign("order-1"))
	require.NoError(t, agent.Complete("order-1"))
	require.Equal(t, StatusAvailable, agent.Status)
	require.Equal(t, 5, agent.Deliveries)
}

func TestSnapshot(t *testing.T) {
	agent := &Agent{ID: "agent-1", Name: "Ravi", Phone: "123", Vehicle: "bike"}
	snap := agent.Snapshot()
	require.Equal(t, "agent-1", snap.AgentID)
	require.Equal(t, "Ravi", snap.Name)
	require.Equal(t, "bike", snap.Vehicle)
}
