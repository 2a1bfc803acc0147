package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// AccessTokenCookie is the cookie the browser sends on the WebSocket handshake
const AccessTokenCookie = "access_token"

var (
	// ErrNoCredential means the cookie header had no access token at all
	ErrNoCredential = errors.New("no access credential in cookie header")
	// ErrInvalidCredential means the token was present but failed verification
	ErrInvalidCredential = errors.New("invalid access credential")
)

// CredentialVerifier turns a raw Cookie header into verified claims. The
// WebSocket gateway depends on this interface so the handshake can be tested
// without a signing key or a transport.
type CredentialVerifier interface {
	Verify(rawCookieHeader string) (*Claims, error)
}

// CookieVerifier extracts the access token cookie and validates it with the
// JWT manager.
type CookieVerifier struct {
	jwt        *JWTManager
	cookieName string
}

// NewCookieVerifier creates a verifier reading the given cookie name
func NewCookieVerifier(jwtManager *JWTManager, cookieName string) *CookieVerifier {
	if cookieName == "" {
		cookieName = AccessTokenCookie
	}
	return &CookieVerifier{jwt: jwtManager, cookieName: cookieName}
}

// Verify implements CredentialVerifier
func (v *CookieVerifier) Verify(rawCookieHeader string) (*Claims, error) {
	if rawCookieHeader == "" {
		return nil, ErrNoCredential
	}

	// Reuse net/http cookie parsing instead of splitting the header by hand
	req := http.Request{Header: http.Header{"Cookie": {rawCookieHeader}}}
	cookie, err := req.Cookie(v.cookieName)
	if err != nil {
		return nil, ErrNoCredential
	}
	if cookie.Value == "" {
		return nil, ErrNoCredential
	}

	claims, err := v.jwt.ValidateToken(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return claims, nil
}
