package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laporinapp/laporin/internal/model"
)

func testToken(t *testing.T, manager *JWTManager) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	token, err := manager.GenerateToken(userID, "warga@laporin.local", "Warga", model.RoleCitizen)
	require.NoError(t, err)
	return userID, token
}

func TestCookieVerifierAcceptsValidCookie(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	verifier := NewCookieVerifier(manager, AccessTokenCookie)
	userID, token := testToken(t, manager)

	claims, err := verifier.Verify("access_token=" + token + "; theme=dark")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, model.RoleCitizen, claims.Role)
}

func TestCookieVerifierRejections(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	verifier := NewCookieVerifier(manager, AccessTokenCookie)
	_, token := testToken(t, manager)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"empty header", "", ErrNoCredential},
		{"no matching cookie", "theme=dark; lang=id", ErrNoCredential},
		{"empty token value", "access_token=", ErrNoCredential},
		{"token under wrong name", "session=" + token, ErrNoCredential},
		{"garbage token", "access_token=not-a-jwt", ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.header)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCookieVerifierRejectsExpiredToken(t *testing.T) {
	expired := NewJWTManager("test-secret", -time.Minute)
	verifier := NewCookieVerifier(expired, AccessTokenCookie)
	_, token := testToken(t, expired)

	_, err := verifier.Verify("access_token=" + token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestCookieVerifierRejectsForeignSignature(t *testing.T) {
	issuer := NewJWTManager("other-secret", time.Hour)
	verifier := NewCookieVerifier(NewJWTManager("test-secret", time.Hour), AccessTokenCookie)
	_, token := testToken(t, issuer)

	_, err := verifier.Verify("access_token=" + token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
