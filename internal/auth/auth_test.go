package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"promptpilot/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	return priv, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func TestClerkAuthenticator(t *testing.T) {
	priv, pubPEM := newKeyPair(t)
	otherPriv, _ := newKeyPair(t)

	a, err := NewClerkAuthenticator(pubPEM, "https://clerk.example.com", []string{"https://app.example.com"})
	require.NoError(t, err)

	valid := jwt.MapClaims{
		"sub": "user_123",
		"sid": "sess_1",
		"iss": "https://clerk.example.com",
		"azp": "https://app.example.com",
		"exp": time.Now().Add(time.Minute).Unix(),
	}

	tests := []struct {
		name    string
		setup   func(r *http.Request)
		wantID  string
		wantErr bool
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+sign(t, priv, valid)) }, "user_123", false},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: sign(t, priv, valid)}) }, "user_123", false},
		{"missing", func(r *http.Request) {}, "", true},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, "", true},
		{"wrong key", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+sign(t, otherPriv, valid)) }, "", true},
		{"expired", func(r *http.Request) {
			c := jwt.MapClaims{"sub": "user_123", "iss": "https://clerk.example.com", "exp": time.Now().Add(-time.Hour).Unix()}
			r.Header.Set("Authorization", "Bearer "+sign(t, priv, c))
		}, "", true},
		{"no exp", func(r *http.Request) {
			c := jwt.MapClaims{"sub": "user_123", "iss": "https://clerk.example.com"}
			r.Header.Set("Authorization", "Bearer "+sign(t, priv, c))
		}, "", true},
		{"wrong issuer", func(r *http.Request) {
			c := jwt.MapClaims{"sub": "user_123", "iss": "https://evil.example.com", "exp": time.Now().Add(time.Minute).Unix()}
			r.Header.Set("Authorization", "Bearer "+sign(t, priv, c))
		}, "", true},
		{"foreign azp", func(r *http.Request) {
			c := jwt.MapClaims{"sub": "user_123", "iss": "https://clerk.example.com", "azp": "https://evil.example.com", "exp": time.Now().Add(time.Minute).Unix()}
			r.Header.Set("Authorization", "Bearer "+sign(t, priv, c))
		}, "", true},
		{"no subject", func(r *http.Request) {
			c := jwt.MapClaims{"iss": "https://clerk.example.com", "exp": time.Now().Add(time.Minute).Unix()}
			r.Header.Set("Authorization", "Bearer "+sign(t, priv, c))
		}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)
			id, err := a.Authenticate(r)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id.UserID)
			assert.Equal(t, "sess_1", id.SessionID)
		})
	}
}

func TestNewClerkAuthenticator_BareKey(t *testing.T) {
	_, pubPEM := newKeyPair(t)
	block, _ := pem.Decode([]byte(pubPEM))
	require.NotNil(t, block)

	bare := pem.EncodeToMemory(block)
	// Strip armour lines to mimic a single-value env var.
	lines := string(bare)
	lines = lines[len("-----BEGIN PUBLIC KEY-----\n") : len(lines)-len("-----END PUBLIC KEY-----\n")]

	_, err := NewClerkAuthenticator(lines, "", nil)
	require.NoError(t, err)
}

func TestNewClerkAuthenticator_InvalidKey(t *testing.T) {
	_, err := NewClerkAuthenticator("", "", nil)
	assert.True(t, errors.Is(err, models.ErrConfiguration))

	_, err = NewClerkAuthenticator("not a key", "", nil)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}

func TestHeaderAuthenticator(t *testing.T) {
	a := HeaderAuthenticator{Header: "X-User-ID"}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := a.Authenticate(r)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))

	r.Header.Set("X-User-ID", "dev_user")
	id, err := a.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, "dev_user", id.UserID)
}

func TestIdentityContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := FromContext(r.Context())
	assert.False(t, ok)

	ctx := WithIdentity(r.Context(), Identity{UserID: "u1"})
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
}
