package credits

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/tenant"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *tenant.Context) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tctx := tenant.New("acme")
	apiClient, err := api.New(server.URL, tctx)
	if err != nil {
		t.Fatalf("api.New returned error: %v", err)
	}
	return NewClient(apiClient, nil), tctx
}

func TestBalanceUnknownBeforeFirstFetch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Balance must not hit the network")
	}))

	if _, known := client.Balance(); known {
		t.Fatal("balance must be unknown before the first fetch")
	}
	if client.Low() {
		t.Fatal("an unknown balance is never low")
	}
}

func TestZeroBalanceIsKnownAndLow(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"tenant_id": "acme", "balance": 0})
	}))

	if _, err := client.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	amount, known := client.Balance()
	if !known {
		t.Fatal("a fetched zero is a real balance, not unknown")
	}
	if amount != 0 {
		t.Fatalf("expected zero balance, got %d", amount)
	}
	if !client.Low() {
		t.Fatal("zero balance must trigger low-balance messaging")
	}
}

func TestHealthyBalanceIsNotLow(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"balance": 30})
	}))

	if _, err := client.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if client.Low() {
		t.Fatal("balance 30 is not low")
	}
}

func TestTopUpInvalidatesInsteadOfIncrementing(t *testing.T) {
	balance := 5
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/usage/balance":
			json.NewEncoder(w).Encode(map[string]any{"balance": balance})
		case "/usage/topup":
			var body map[string]int
			json.NewDecoder(r.Body).Decode(&body)
			balance += body["amount"]
			w.Write([]byte(`{}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	if _, err := client.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if err := client.TopUp(context.Background(), 20); err != nil {
		t.Fatalf("TopUp returned error: %v", err)
	}

	if _, known := client.Balance(); known {
		t.Fatal("top-up must invalidate the cache, not increment it")
	}

	amount, err := client.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if amount != 25 {
		t.Fatalf("expected the service's authoritative balance 25, got %d", amount)
	}
}

func TestTopUpRejectsNonPositiveAmount(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid amounts must not reach the network")
	}))
	if err := client.TopUp(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestTenantSwitchInvalidatesBalance(t *testing.T) {
	client, tctx := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"balance": 30})
	}))

	if _, err := client.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if _, known := client.Balance(); !known {
		t.Fatal("expected balance known after refresh")
	}

	tctx.SwitchTenant("globex")

	if _, known := client.Balance(); known {
		t.Fatal("balance from tenant acme must not be readable under tenant globex")
	}
}
