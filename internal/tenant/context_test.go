package tenant

import "testing"

func TestSwitchTenantClearsCredentialAndBumpsEpoch(t *testing.T) {
	ctx := New("acme")
	ctx.SetCredential("tok-1")

	before := ctx.Snapshot()
	if !before.Authenticated() {
		t.Fatal("expected credential to be set")
	}

	ctx.SwitchTenant("globex")

	after := ctx.Snapshot()
	if after.TenantID != "globex" {
		t.Fatalf("expected tenant globex, got %q", after.TenantID)
	}
	if after.Authenticated() {
		t.Fatal("expected credential cleared on tenant switch")
	}
	if after.Epoch == before.Epoch {
		t.Fatal("expected epoch bump on tenant switch")
	}
}

func TestSwitchToSameTenantIsNoop(t *testing.T) {
	ctx := New("acme")
	ctx.SetCredential("tok-1")
	before := ctx.Snapshot()

	ctx.SwitchTenant("acme")

	after := ctx.Snapshot()
	if after.Epoch != before.Epoch {
		t.Fatal("same-tenant switch should not bump epoch")
	}
	if after.Token != "tok-1" {
		t.Fatal("same-tenant switch should keep the credential")
	}
}

func TestClearCredentialBumpsEpoch(t *testing.T) {
	ctx := New("acme")
	ctx.SetCredential("tok-1")
	before := ctx.Epoch()

	ctx.ClearCredential()

	if ctx.Snapshot().Authenticated() {
		t.Fatal("expected credential cleared")
	}
	if ctx.Epoch() == before {
		t.Fatal("expected epoch bump on logout")
	}
}
