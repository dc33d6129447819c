package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/vault-auth/internal/auth"
	"github.com/hongminglow/vault-auth/internal/config"
	"github.com/hongminglow/vault-auth/internal/middleware"
	"github.com/hongminglow/vault-auth/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("server-secret", "vault-auth")
	require.NoError(t, err)
	svc, err := auth.NewService(memory.NewUserStore(), hasher, tokens, logger)
	require.NoError(t, err)

	cfg := config.Config{
		Port:           "0",
		CORSOrigins:    []string{"*"},
		RequestTimeout: 5 * time.Second,
	}
	ts := httptest.NewServer(Handler(cfg, svc, logger))
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_EndToEnd(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/register", "application/json",
		strings.NewReader(`{"username":"alice","loginPassword":"pw1","withdrawPassword":"wd1"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp, err = http.Post(ts.URL+"/api/login", "application/json",
		strings.NewReader(`{"username":"alice","password":"pw1"}`))
	require.NoError(t, err)
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_New(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{Port: "4321", RequestTimeout: time.Second, CORSOrigins: []string{"*"}}
	s := New(cfg, nil, logger)
	assert.Equal(t, ":4321", s.inner.Addr)
	assert.Equal(t, 6*time.Second, s.inner.WriteTimeout)
}
