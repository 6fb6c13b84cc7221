//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "pharmacy-api"
	ConsumerName = "pharmacy-portal"

	StateOrdersBaseline = "orders baseline"
	StateOrderExists    = "order RX-20260314-AB12CD34 exists"
	StateOrderMissing   = "no order with number RX-00000000-DEADBEEF"
)

const (
	ExistingOrderNumber = "RX-20260314-AB12CD34"
	MissingOrderNumber  = "RX-00000000-DEADBEEF"

	ExampleUserID = "pact-user"
	ExampleItemID = "med-paracetamol-500"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the pharmacy portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCreateOrderPayload provides stable test data for order interactions.
func ExampleCreateOrderPayload() map[string]any {
	return map[string]any{
		"userId": ExampleUserID,
		"items": []map[string]any{
			{"itemId": ExampleItemID, "quantity": 2},
		},
		"address": map[string]any{
			"line1":      "12 MG Road",
			"city":       "Delhi",
			"postalCode": "110001",
			"lat":        28.5355,
			"lng":        77.3910,
		},
		"paymentMethod": "cod",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
