package security

import (
	"errors"
	"time"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity payload embedded in every issued token. The sid
// claim ties the token back to its session row for revocation checks.
type Claims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens with a symmetric secret
// shared across service instances, so verification never needs a store
// round-trip.
type TokenIssuer struct {
	key      []byte
	validity time.Duration
}

func NewTokenIssuer(key []byte, validity time.Duration) *TokenIssuer {
	return &TokenIssuer{key: key, validity: validity}
}

// Issue signs a token for the user and returns it with its absolute expiry.
func (ti *TokenIssuer) Issue(user *model.User, sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ti.validity)

	claims := &Claims{
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.key)
	if err != nil {
		return "", time.Time{}, common.NewInternalError("Failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature and time claims. Every failure kind maps to its own
// machine code and sets shouldLogout so clients purge a dead credential.
func (ti *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return ti.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.NewAuthError(common.CodeTokenExpired, "Token has expired", true)
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, common.NewAuthError(common.CodeTokenNotActive, "Token is not valid yet", true)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, common.NewAuthError(common.CodeMalformedToken, "Token is malformed", true)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.NewAuthError(common.CodeInvalidToken, "Token signature is invalid", true)
		default:
			return nil, common.NewAuthError(common.CodeInvalidToken, "Token is invalid", true)
		}
	}
	return claims, nil
}
