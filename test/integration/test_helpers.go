//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"go-esg-platform/internal/app"
	"go-esg-platform/internal/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID     string `json:"id"`
		Role   string `json:"role"`
		Email  string `json:"email"`
		Status string `json:"status"`
	} `json:"user"`
}

// baseConfig targets the databases named by TEST_DATABASE_URL and
// TEST_REDIS_ADDR. Tests that need one skip when it is not set.
func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	_ = godotenv.Load("../../.env.test")

	return &config.Config{
		ServerPort:        "0",
		RequestTimeout:    10 * time.Second,
		DatabaseURL:       os.Getenv("TEST_DATABASE_URL"),
		DBMaxConns:        4,
		DBMinConns:        1,
		JWTSecret:         "integration-secret-0123456789",
		JWTTTL:            time.Hour,
		JWTIssuer:         "esg-integration",
		BcryptCost:        4,
		CORSOrigins:       []string{"*"},
		RateLimitRPM:      1000,
		AuthRateLimitRPM:  1000,
		RevocationStore:   config.RevocationNone,
		RevocationCleanup: time.Minute,
		RedisAddr:         os.Getenv("TEST_REDIS_ADDR"),
		LogFormat:         "pretty",
	}
}

func requirePostgres(t *testing.T, cfg *config.Config) {
	t.Helper()
	if cfg.DatabaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
}

func newServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	require.NoError(t, cfg.Validate())
	a, err := app.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	server := httptest.NewServer(a.Handler())
	t.Cleanup(server.Close)
	return server
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

func doJSON(t *testing.T, method string, url string, accessToken string, body any) (*http.Response, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func decodeAuth(t *testing.T, env envelope) authData {
	t.Helper()

	var data authData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}
