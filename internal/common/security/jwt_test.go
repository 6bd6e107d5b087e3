package security_test

import (
	"testing"
	"time"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/common/security"
	"arroyo_seco_api/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-secret")

func testUser() *model.User {
	return &model.User{
		ID:     "user-1",
		Name:   "A",
		Email:  "a@b.com",
		Status: model.StatusActive,
		Role:   model.RoleGuest,
	}
}

func requireAuthCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr := common.FromError(err)
	require.Equal(t, code, appErr.Code)
	require.Equal(t, 401, appErr.Status)
	require.True(t, appErr.ShouldLogout)
}

func TestIssueAndVerify(t *testing.T) {
	issuer := security.NewTokenIssuer(testKey, time.Hour)

	token, expiresAt, err := issuer.Issue(testUser(), "session-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "Guest", claims.Role)
	require.Equal(t, "session-1", claims.SessionID)
	require.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

// The flip side of TestVerifyExpired: verification at issue+epsilon of a
// token that expires at issue+2s sits just inside the validity window and
// must succeed.
func TestVerifyJustBeforeExpiry(t *testing.T) {
	issuer := security.NewTokenIssuer(testKey, 2*time.Second)
	token, expiresAt, err := issuer.Issue(testUser(), "session-1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(2*time.Second), expiresAt, time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "session-1", claims.SessionID)
}

func TestVerifyExpired(t *testing.T) {
	// A negative validity places the expiry just before "now", i.e. the
	// verify happens at issue+V+epsilon.
	issuer := security.NewTokenIssuer(testKey, -time.Second)
	token, _, err := issuer.Issue(testUser(), "session-1")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	requireAuthCode(t, err, common.CodeTokenExpired)
}

func TestVerifyNotYetValid(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"nbf": time.Now().Add(time.Hour).Unix(),
		"exp": time.Now().Add(2 * time.Hour).Unix(),
	})
	token, err := raw.SignedString(testKey)
	require.NoError(t, err)

	issuer := security.NewTokenIssuer(testKey, time.Hour)
	_, err = issuer.Verify(token)
	requireAuthCode(t, err, common.CodeTokenNotActive)
}

func TestVerifyMalformed(t *testing.T) {
	issuer := security.NewTokenIssuer(testKey, time.Hour)
	_, err := issuer.Verify("definitely-not-a-jwt")
	requireAuthCode(t, err, common.CodeMalformedToken)
}

func TestVerifyWrongKey(t *testing.T) {
	other := security.NewTokenIssuer([]byte("a-different-secret"), time.Hour)
	token, _, err := other.Issue(testUser(), "session-1")
	require.NoError(t, err)

	issuer := security.NewTokenIssuer(testKey, time.Hour)
	_, err = issuer.Verify(token)
	requireAuthCode(t, err, common.CodeInvalidToken)
}
