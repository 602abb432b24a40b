// Package auth resolves the calling user of an HTTP request.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"promptpilot/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie Clerk stores the session token in.
const SessionCookie = "__session"

// Identity is the authenticated caller. Handlers receive it instead of
// looking up sessions themselves.
type Identity struct {
	UserID    string
	SessionID string
}

// Authenticator resolves the identity of a request or returns an error
// wrapping models.ErrUnauthorized.
type Authenticator interface {
	Authenticate(r *http.Request) (Identity, error)
}

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}

func unauthorized(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrUnauthorized, fmt.Sprintf(format, args...))
}

// sessionClaims are the Clerk session token claims we rely on.
type sessionClaims struct {
	jwt.RegisteredClaims
	AuthorizedParty string `json:"azp,omitempty"`
	SessionID       string `json:"sid,omitempty"`
}

// ClerkAuthenticator verifies Clerk session tokens offline with the
// instance's PEM public key.
type ClerkAuthenticator struct {
	parser            *jwt.Parser
	keyFunc           jwt.Keyfunc
	authorizedParties []string
}

// NewClerkAuthenticator parses pemKey (the CLERK_JWT_KEY value). The PEM
// armour may be omitted. issuer and authorizedParties are optional.
func NewClerkAuthenticator(pemKey, issuer string, authorizedParties []string) (*ClerkAuthenticator, error) {
	pemKey = strings.TrimSpace(pemKey)
	if pemKey == "" {
		return nil, models.NewConfigurationError("Clerk JWT public key is required")
	}
	if !strings.HasPrefix(pemKey, "-----BEGIN") {
		pemKey = "-----BEGIN PUBLIC KEY-----\n" + pemKey + "\n-----END PUBLIC KEY-----"
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, models.NewConfigurationError("invalid Clerk JWT public key: %v", err)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &ClerkAuthenticator{
		parser:            jwt.NewParser(opts...),
		keyFunc:           func(*jwt.Token) (any, error) { return key, nil },
		authorizedParties: authorizedParties,
	}, nil
}

func (a *ClerkAuthenticator) Authenticate(r *http.Request) (Identity, error) {
	raw := TokenFromRequest(r)
	if raw == "" {
		return Identity{}, unauthorized("no session token")
	}

	claims := &sessionClaims{}
	if _, err := a.parser.ParseWithClaims(raw, claims, a.keyFunc); err != nil {
		return Identity{}, unauthorized("invalid session token: %v", err)
	}
	if claims.Subject == "" {
		return Identity{}, unauthorized("session token has no subject")
	}
	if claims.AuthorizedParty != "" && len(a.authorizedParties) > 0 &&
		!slices.Contains(a.authorizedParties, claims.AuthorizedParty) {
		return Identity{}, unauthorized("unauthorized party %q", claims.AuthorizedParty)
	}
	return Identity{UserID: claims.Subject, SessionID: claims.SessionID}, nil
}

// TokenFromRequest returns the bearer token, or the session cookie when no
// Authorization header is present.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// HeaderAuthenticator trusts a plain request header. Local development only.
type HeaderAuthenticator struct {
	Header string
}

func (a HeaderAuthenticator) Authenticate(r *http.Request) (Identity, error) {
	id := strings.TrimSpace(r.Header.Get(a.Header))
	if id == "" {
		return Identity{}, unauthorized("missing %s header", a.Header)
	}
	return Identity{UserID: id}, nil
}

// ErrNoIdentity is returned by handlers reached without authentication.
var ErrNoIdentity = fmt.Errorf("%w: no identity in request context", models.ErrUnauthorized)
