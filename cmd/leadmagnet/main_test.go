package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeConfigFile(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := fmt.Sprintf("api_url = %q\ntenant = %q\nstate_dir = %q\nlog_level = \"error\"\n",
		apiURL, "acme", filepath.Join(dir, "state"))
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected output to mention %s, got %q", target, out)
	}

	contents, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "api_url") {
		t.Fatalf("sample config missing api_url: %s", contents)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
}

func TestLoginSubmitGenerateFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Tenant-Id") != "acme" {
			t.Fatalf("missing tenant header on %s", r.URL.Path)
		}
		switch r.URL.Path {
		case "/auth/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["tenant_id"] != "acme" || body["email"] != "owner@acme.example" {
				t.Fatalf("unexpected login body %v", body)
			}
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "role": "admin"})
		case "/me":
			json.NewEncoder(w).Encode(map[string]any{"email": "owner@acme.example", "email_verified": true})
		case "/jobs/url":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				t.Fatal("submit must carry the saved credential")
			}
			json.NewEncoder(w).Encode(map[string]string{"job_id": "j1"})
		case "/generate":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["job_id"] != "j1" {
				t.Fatalf("expected generate for the saved job, got %v", body["job_id"])
			}
			json.NewEncoder(w).Encode(map[string]any{
				"job_id":    "j1",
				"asset_ids": []string{"a1", "a2", "a3", "a4"},
			})
		case "/usage/balance":
			json.NewEncoder(w).Encode(map[string]int{"balance": 30})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	configPath := writeConfigFile(t, server.URL)

	out, err := runCommand(t, "--config", configPath,
		"login", "--email", "owner@acme.example", "--password", "pw")
	if err != nil {
		t.Fatalf("login returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "verified") {
		t.Fatalf("expected verification state in output, got %q", out)
	}

	out, err = runCommand(t, "--config", configPath, "submit", "https://y/1")
	if err != nil {
		t.Fatalf("submit returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "j1") {
		t.Fatalf("expected job id in output, got %q", out)
	}

	// A fresh invocation restores the job from the workspace store.
	out, err = runCommand(t, "--config", configPath, "generate")
	if err != nil {
		t.Fatalf("generate returned error: %v\n%s", err, out)
	}
	for _, assetID := range []string{"a1", "a2", "a3", "a4"} {
		if !strings.Contains(out, assetID) {
			t.Fatalf("expected asset %s in output, got %q", assetID, out)
		}
	}

	out, err = runCommand(t, "--config", configPath, "balance")
	if err != nil {
		t.Fatalf("balance returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "30") {
		t.Fatalf("expected balance 30 in output, got %q", out)
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unauthenticated commands must not reach the network: %s", r.URL.Path)
	}))
	defer server.Close()

	configPath := writeConfigFile(t, server.URL)

	if _, err := runCommand(t, "--config", configPath, "submit", "https://y/1"); err == nil {
		t.Fatal("expected submit to demand a login")
	}
	if _, err := runCommand(t, "--config", configPath, "balance"); err == nil {
		t.Fatal("expected balance to demand a login")
	}
}
