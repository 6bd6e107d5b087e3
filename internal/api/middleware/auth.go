package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/common/security"
	"arroyo_seco_api/internal/domain/model"
	"arroyo_seco_api/internal/domain/repository"
)

type contextKey string

const principalCtxKey contextKey = "principal"

// Principal is the request-scoped identity derived from a verified token,
// optionally enriched from the store. It lives only for the request.
type Principal struct {
	UserID    string     `json:"userId"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	SessionID string     `json:"sessionId"`
	IssuedAt  time.Time  `json:"issuedAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// PrincipalResolver turns verified claims into a Principal. The concrete
// strategy is chosen once at startup, not branched per request.
type PrincipalResolver interface {
	Resolve(ctx context.Context, claims *security.Claims) (*Principal, error)
}

// ClaimsResolver trusts the role and status embedded in the token. Degraded
// mode: a suspended user keeps access until the token expires, since no
// revocation source is consulted.
type ClaimsResolver struct{}

func (ClaimsResolver) Resolve(_ context.Context, claims *security.Claims) (*Principal, error) {
	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return nil, common.NewAuthError(common.CodeInvalidToken, "Token carries an unknown role", true)
	}
	return principalFromClaims(claims, role), nil
}

// StoreResolver consults the session store and the live user row: the
// session row must still exist (soft revocation) and the user must be
// Active. Lookups are bounded by Timeout so a slow database fails the
// request instead of wedging handler capacity; there is no retry.
type StoreResolver struct {
	Users    repository.UserRepository
	Sessions repository.SessionRepository
	Timeout  time.Duration
}

func (r StoreResolver) Resolve(ctx context.Context, claims *security.Claims) (*Principal, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if claims.SessionID == "" {
		return nil, common.NewAuthError(common.CodeInvalidToken, "Token has no session", true)
	}
	if _, err := r.Sessions.FindByID(ctx, claims.SessionID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewAuthError(common.CodeSessionRevoked, "Session has been revoked", true)
		}
		return nil, err
	}

	user, err := r.Users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewAuthError(common.CodeUserInactive, "User account is not active", true)
		}
		return nil, err
	}
	if user.Status != model.StatusActive {
		return nil, common.NewAuthError(common.CodeUserInactive, "User account is not active", true)
	}

	// The store row is authoritative for role and name, not the claims.
	principal := principalFromClaims(claims, user.Role)
	principal.Email = user.Email
	principal.Name = user.Name
	return principal, nil
}

func principalFromClaims(claims *security.Claims, role model.Role) *Principal {
	principal := &Principal{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      role,
		SessionID: claims.SessionID,
	}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal
}

// Authenticator gates routes behind token verification, principal resolution
// and an optional role allow-list.
type Authenticator struct {
	verifier *security.TokenIssuer
	resolver PrincipalResolver
}

func NewAuthenticator(verifier *security.TokenIssuer, resolver PrincipalResolver) *Authenticator {
	return &Authenticator{verifier: verifier, resolver: resolver}
}

// Require returns middleware enforcing authentication, plus membership in
// the allow-list when one is given. An empty allow-list admits any
// authenticated principal.
func (a *Authenticator) Require(allowList ...model.Role) func(http.Handler) http.Handler {
	return a.gate(a.resolver, allowList)
}

// RequireToken verifies signature and time claims but skips the configured
// resolver, so the session-row check does not preempt handlers that answer
// based on the row themselves. Logout mounts this: a token whose session is
// already gone must reach the handler and get its 404 there.
func (a *Authenticator) RequireToken() func(http.Handler) http.Handler {
	return a.gate(ClaimsResolver{}, nil)
}

func (a *Authenticator) gate(resolver PrincipalResolver, allowList []model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				common.RespondWithError(w, common.NewAuthError(common.CodeTokenRequired, "Authorization token required", false))
				return
			}

			claims, err := a.verifier.Verify(raw)
			if err != nil {
				common.RespondWithError(w, err)
				return
			}

			principal, err := resolver.Resolve(r.Context(), claims)
			if err != nil {
				common.RespondWithError(w, err)
				return
			}

			if len(allowList) > 0 && !roleAllowed(principal.Role, allowList) {
				common.RespondWithError(w, common.NewForbiddenError(common.CodeForbiddenRole,
					fmt.Sprintf("Requires one of roles %v, current role is %q", allowList, principal.Role)))
				return
			}

			ctx := context.WithValue(r.Context(), principalCtxKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearer accepts both "Bearer <token>" and a raw token header value.
func extractBearer(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if scheme, rest, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	return header
}

func roleAllowed(role model.Role, allowList []model.Role) bool {
	for _, allowed := range allowList {
		if role == allowed {
			return true
		}
	}
	return false
}

// PrincipalFromContext retrieves the principal attached by Require.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey).(*Principal)
	return principal, ok
}
