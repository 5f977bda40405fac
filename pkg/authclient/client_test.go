package authclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-esg-platform/internal/app"
	"go-esg-platform/internal/config"
	"go-esg-platform/pkg/role"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:        "0",
		RequestTimeout:    5 * time.Second,
		JWTSecret:         "client-e2e-secret-0123456789",
		JWTTTL:            time.Hour,
		JWTIssuer:         "esg-test",
		BcryptCost:        4,
		CORSOrigins:       []string{"*"},
		AuthRateLimitRPM:  1000,
		RevocationStore:   config.RevocationMemory,
		RevocationCleanup: time.Minute,
		LogFormat:         "pretty",
	}

	a, err := app.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	server := httptest.NewServer(a.Handler())
	t.Cleanup(server.Close)
	return server
}

func TestClient_AccountLifecycle(t *testing.T) {
	server := newServer(t)
	client := NewClient(server.URL+"/", WithHTTPClient(server.Client()))
	ctx := context.Background()

	created, err := client.Signup(ctx, role.Carbon, SignupInput{
		Email:    "Buyer@Example.com",
		Password: "secret-1",
		Name:     "Offset Co",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, "buyer@example.com", created.User.Email)
	assert.Equal(t, role.Carbon, created.User.Role)

	loggedIn, err := client.Login(ctx, role.Carbon, "buyer@example.com", "secret-1")
	require.NoError(t, err)

	profile, err := client.Me(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, "Offset Co", profile.Name)

	err = client.ChangePassword(ctx, loggedIn.Token, "wrong-one", "secret-2", "secret-2")
	apiErr, ok := IsAPIError(err)
	require.True(t, ok, "expected api error, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	require.NoError(t, client.ChangePassword(ctx, loggedIn.Token, "secret-1", "secret-2", "secret-2"))
	require.NoError(t, client.DeleteAccount(ctx, loggedIn.Token, "secret-2"))

	_, err = client.Login(ctx, role.Carbon, "buyer@example.com", "secret-2")
	apiErr, ok = IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClient_ValidationErrors(t *testing.T) {
	server := newServer(t)
	client := NewClient(server.URL)

	_, err := client.Signup(context.Background(), role.SimpleUser, SignupInput{Email: "not-an-email", Password: "1"})
	apiErr, ok := IsAPIError(err)
	require.True(t, ok, "expected api error, got %v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	require.NotEmpty(t, apiErr.Fields)
	assert.Contains(t, apiErr.Error(), ", ")
}

func TestClient_NonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL).Logout(context.Background(), "tok")
	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestManager_AgainstServer(t *testing.T) {
	server := newServer(t)
	client := NewClient(server.URL)
	store := NewMemoryStore(Persisted{})

	resets := 0
	m := NewManager(client, store, WithResetFunc(func(string) { resets++ }))
	m.Hydrate()

	res := m.Signup(context.Background(), "ngo", SignupInput{Email: "ngo@example.com", Password: "secret-1", OrganizationName: "Green"})
	require.True(t, res.Success, res.Message)
	assert.False(t, res.LoggedIn)

	res = m.Login(context.Background(), "ngo", "ngo@example.com", "secret-1")
	assert.False(t, res.Success)

	res = m.Signup(context.Background(), "simple-user", SignupInput{Email: "s@example.com", Password: "secret-1", Name: "Sam"})
	require.True(t, res.Success, res.Message)
	require.True(t, m.IsSimpleUser())
	tok := m.Session().Token

	res = m.Logout(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, 1, resets)

	_, err := client.Me(context.Background(), tok)
	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
