package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/vault-auth/internal/auth"
	"github.com/hongminglow/vault-auth/internal/storage/postgres"
)

// TestAuthIntegration exercises register/login/profile against a live Postgres.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := mustGetEnv(t, "DATABASE_URL")

	ctx := context.Background()
	store, err := postgres.NewUserStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	hasher, err := auth.NewBcryptHasher(0)
	if err != nil {
		t.Fatalf("init hasher: %v", err)
	}
	tokens, err := auth.NewTokenManager(mustGetEnv(t, "JWT_SECRET"), os.Getenv("JWT_ISSUER"))
	if err != nil {
		t.Fatalf("init tokens: %v", err)
	}
	svc, err := auth.NewService(store, hasher, tokens, discardLogger())
	if err != nil {
		t.Fatalf("init service: %v", err)
	}

	mux := http.NewServeMux()
	NewAuthHandler(svc, discardLogger()).Register(mux)

	ts := httptest.NewServer(mux)
	defer ts.Close()

	username := fmt.Sprintf("apitest_%d", time.Now().UnixNano())
	password := fmt.Sprintf("Pass!%d", time.Now().UnixNano())

	status := post(t, ts.URL+"/api/register", map[string]string{
		"username":         username,
		"loginPassword":    password,
		"withdrawPassword": "withdraw-" + password,
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d", status)
	}

	if status := post(t, ts.URL+"/api/register", map[string]string{
		"username":         username,
		"loginPassword":    "x",
		"withdrawPassword": "y",
	}, nil); status != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", status)
	}

	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if status := post(t, ts.URL+"/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &login); status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}
	if strings.TrimSpace(login.Data.Token) == "" {
		t.Fatal("login response missing token")
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/profile", nil)
	if err != nil {
		t.Fatalf("build profile request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("profile request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d", resp.StatusCode)
	}

	t.Logf("registered %s and fetched its profile via /api/profile", username)
}

func post(t *testing.T, url string, payload map[string]string, out any) int {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", url, err)
		}
	}
	return resp.StatusCode
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
