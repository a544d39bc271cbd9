package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/tenant"
)

func newTestManager(t *testing.T, handler http.Handler) (*Manager, *tenant.Context) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tctx := tenant.New("acme")
	client, err := api.New(server.URL, tctx)
	if err != nil {
		t.Fatalf("api.New returned error: %v", err)
	}
	return NewManager(client, nil), tctx
}

func TestLoginInstallsCredentialAndRefreshesVerification(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode login body: %v", err)
			}
			if body["tenant_id"] != "acme" {
				t.Fatalf("expected tenant_id in body, got %v", body)
			}
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "role": "owner"})
		case "/me":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				t.Fatalf("verification check must use the fresh credential")
			}
			json.NewEncoder(w).Encode(map[string]bool{"email_verified": true})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	manager, tctx := newTestManager(t, handler)

	creds, err := manager.Login(context.Background(), "owner@example.com", "changeme")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if creds.Token != "tok-1" || creds.Role != "owner" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
	if !tctx.Snapshot().Authenticated() {
		t.Fatal("expected credential installed in tenant context")
	}
	if manager.Verification() != VerificationVerified {
		t.Fatalf("expected verified after login refresh, got %s", manager.Verification())
	}
}

func TestLoginTranslatesInvalidCredentials(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid credentials"}`))
	})
	manager, _ := newTestManager(t, handler)

	_, err := manager.Login(context.Background(), "owner@example.com", "wrong")

	var authErr *api.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Message != "Invalid credentials" {
		t.Fatalf("expected service detail, got %q", authErr.Message)
	}
}

func TestLoginTranslatesTenantMismatch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"No access to tenant"}`))
	})
	manager, _ := newTestManager(t, handler)

	_, err := manager.Login(context.Background(), "owner@example.com", "changeme")

	var mismatch *api.TenantMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TenantMismatchError, got %v", err)
	}
	if mismatch.TenantID != "acme" {
		t.Fatalf("expected tenant recorded, got %q", mismatch.TenantID)
	}
}

func TestSignupTranslatesDuplicateAccount(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Email already exists"}`))
	})
	manager, _ := newTestManager(t, handler)

	_, err := manager.Signup(context.Background(), "owner@example.com", "changeme", "owner")

	var authErr *api.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestRefreshVerificationWithoutCredentialIsUnknown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be dispatched without a credential")
	})
	manager, _ := newTestManager(t, handler)

	if got := manager.RefreshVerification(context.Background()); got != VerificationUnknown {
		t.Fatalf("expected unknown without credential, got %s", got)
	}
}

func TestRefreshVerificationFailureIsUnknownNotUnverified(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	manager, tctx := newTestManager(t, handler)
	tctx.SetCredential("tok-1")

	if got := manager.RefreshVerification(context.Background()); got != VerificationUnknown {
		t.Fatalf("transport failure must yield unknown, got %s", got)
	}
}

func TestRefreshVerificationKnownFalse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"email_verified": false})
	})
	manager, tctx := newTestManager(t, handler)
	tctx.SetCredential("tok-1")

	if got := manager.RefreshVerification(context.Background()); got != VerificationUnverified {
		t.Fatalf("expected a known false, got %s", got)
	}
}

func TestConfirmEmailSendsTokenAsQuery(t *testing.T) {
	var gotToken string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/verify" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte(`{"ok":true}`))
	})
	manager, _ := newTestManager(t, handler)

	if err := manager.ConfirmEmail(context.Background(), "one-time-token"); err != nil {
		t.Fatalf("ConfirmEmail returned error: %v", err)
	}
	if gotToken != "one-time-token" {
		t.Fatalf("expected token in query, got %q", gotToken)
	}
}

func TestResetPasswordSendsTokenInBody(t *testing.T) {
	var body map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/reset" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	})
	manager, _ := newTestManager(t, handler)

	if err := manager.ResetPassword(context.Background(), "tok", "s3cret"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if body["token"] != "tok" || body["new_password"] != "s3cret" {
		t.Fatalf("unexpected reset body: %v", body)
	}
}

func TestLogoutClearsSessionState(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"email_verified": true})
	})
	manager, tctx := newTestManager(t, handler)
	manager.Restore(Credentials{Email: "owner@example.com", Token: "tok-1", Role: "owner"})
	manager.RefreshVerification(context.Background())

	manager.Logout()

	if tctx.Snapshot().Authenticated() {
		t.Fatal("expected credential cleared")
	}
	if manager.Verification() != VerificationUnknown {
		t.Fatalf("expected unknown after logout, got %s", manager.Verification())
	}
	if manager.Email() != "" || manager.Role() != "" {
		t.Fatal("expected session identity cleared")
	}
}
