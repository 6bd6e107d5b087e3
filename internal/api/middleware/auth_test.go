package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arroyo_seco_api/internal/api/middleware"
	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/common/security"
	"arroyo_seco_api/internal/domain/model"
	"arroyo_seco_api/internal/domain/repository/repofake"

	"github.com/stretchr/testify/require"
)

var middlewareTestKey = []byte("middleware-test-secret")

func issueFor(t *testing.T, user *model.User, sessionID string) string {
	t.Helper()
	issuer := security.NewTokenIssuer(middlewareTestKey, time.Hour)
	token, _, err := issuer.Issue(user, sessionID)
	require.NoError(t, err)
	return token
}

// okHandler records the principal it was called with.
func okHandler(got **middleware.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
			*got = principal
		}
		common.RespondWithJSON(w, http.StatusOK, "OK", nil)
	})
}

func doRequest(t *testing.T, handler http.Handler, authHeader string) (*httptest.ResponseRecorder, common.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env common.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestRequireMissingToken(t *testing.T) {
	auth := middleware.NewAuthenticator(security.NewTokenIssuer(middlewareTestKey, time.Hour), middleware.ClaimsResolver{})
	var principal *middleware.Principal
	handler := auth.Require()(okHandler(&principal))

	rec, env := doRequest(t, handler, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, common.CodeTokenRequired, env.Code)
	require.False(t, env.ShouldLogout)
	require.Nil(t, principal)
}

func TestRequireGarbageToken(t *testing.T) {
	auth := middleware.NewAuthenticator(security.NewTokenIssuer(middlewareTestKey, time.Hour), middleware.ClaimsResolver{})
	var principal *middleware.Principal
	handler := auth.Require()(okHandler(&principal))

	rec, env := doRequest(t, handler, "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, common.CodeMalformedToken, env.Code)
	require.True(t, env.ShouldLogout, "a dead credential must tell the client to purge it")
}

func TestRequireClaimsOnlyHappyPath(t *testing.T) {
	user := &model.User{ID: "u1", Name: "A", Email: "a@b.com", Role: model.RoleGuest}
	token := issueFor(t, user, "s1")

	auth := middleware.NewAuthenticator(security.NewTokenIssuer(middlewareTestKey, time.Hour), middleware.ClaimsResolver{})
	var principal *middleware.Principal
	handler := auth.Require()(okHandler(&principal))

	rec, _ := doRequest(t, handler, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	require.Equal(t, "u1", principal.UserID)
	require.Equal(t, model.RoleGuest, principal.Role)
	require.Equal(t, "s1", principal.SessionID)
}

func TestRequireAcceptsRawTokenHeader(t *testing.T) {
	user := &model.User{ID: "u1", Email: "a@b.com", Role: model.RoleGuest}
	token := issueFor(t, user, "s1")

	auth := middleware.NewAuthenticator(security.NewTokenIssuer(middlewareTestKey, time.Hour), middleware.ClaimsResolver{})
	var principal *middleware.Principal
	handler := auth.Require()(okHandler(&principal))

	rec, _ := doRequest(t, handler, token) // no "Bearer " prefix
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
}

func TestRequireRoleAllowList(t *testing.T) {
	guestToken := issueFor(t, &model.User{ID: "u1", Email: "a@b.com", Role: model.RoleGuest}, "s1")
	adminToken := issueFor(t, &model.User{ID: "u2", Email: "b@b.com", Role: model.RoleAdmin}, "s2")

	auth := middleware.NewAuthenticator(security.NewTokenIssuer(middlewareTestKey, time.Hour), middleware.ClaimsResolver{})
	var principal *middleware.Principal
	handler := auth.Require(model.RoleAdmin)(okHandler(&principal))

	rec, env := doRequest(t, handler, "Bearer "+guestToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, common.CodeForbiddenRole, env.Code)
	require.Contains(t, env.Message, "Admin")
	require.Contains(t, env.Message, "Guest")

	rec, _ = doRequest(t, handler, "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, model.RoleAdmin, principal.Role)
}

func newStoreResolverFixture(t *testing.T, status model.UserStatus, withSession bool) (middleware.StoreResolver, string) {
	t.Helper()
	users := repofake.NewFakeUserRepo()
	sessions := repofake.NewFakeSessionRepo()

	user := &model.User{ID: "u1", Name: "A", Email: "a@b.com", Status: status, Role: model.RoleEditor}
	require.NoError(t, users.Create(context.Background(), user))
	if withSession {
		require.NoError(t, sessions.Create(context.Background(), &model.Session{
			ID:        "s1",
			UserID:    "u1",
			ExpiresAt: time.Now().Add(time.Hour),
			CreatedAt: time.Now(),
		}))
	}

	resolver := middleware.StoreResolver{Users: users, Sessions: sessions, Timeout: time.Second}
	return resolver, issueFor(t, user, "s1")
}

func TestStoreResolverActiveUser(t *testing.T) {
	resolver, token := newStoreResolverFixture(t, model.StatusActive, true)
	auth := middleware.NewAuthenticator(security.NewTokenIssuer(middlewareTestKey, time.Hour), resolver)
	var principal *middleware.Principal
	handler := auth.Require()(okHandler(&principal))

	rec, _ := doRequest(t, handler, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	// Role comes from the store row, which is authoritative.
	require.Equal(t, model.RoleEditor, principal.Role)
}

func TestStoreResolverRejectsDeactivatedUser(t *testing.T) {
	resolver, token := newStoreResolverFixture(t, model.StatusSuspended, true)
	auth := middleware.NewAuthenticator(security.NewTokenIssuer(middlewareTestKey, time.Hour), resolver)
	var principal *middleware.Principal
	handler := auth.Require()(okHandler(&principal))

	rec, env := doRequest(t, handler, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, common.CodeUserInactive, env.Code)
	require.True(t, env.ShouldLogout)
	require.Nil(t, principal)
}

// The documented degraded-mode tradeoff: without a store lookup the same
// still-unexpired token of a deactivated user is accepted.
func TestClaimsResolverAcceptsDeactivatedUser(t *testing.T) {
	user := &model.User{ID: "u1", Email: "a@b.com", Status: model.StatusSuspended, Role: model.RoleEditor}
	token := issueFor(t, user, "s1")

	auth := middleware.NewAuthenticator(security.NewTokenIssuer(middlewareTestKey, time.Hour), middleware.ClaimsResolver{})
	var principal *middleware.Principal
	handler := auth.Require()(okHandler(&principal))

	rec, _ := doRequest(t, handler, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
}

func TestStoreResolverRejectsRevokedSession(t *testing.T) {
	resolver, token := newStoreResolverFixture(t, model.StatusActive, false)
	auth := middleware.NewAuthenticator(security.NewTokenIssuer(middlewareTestKey, time.Hour), resolver)
	var principal *middleware.Principal
	handler := auth.Require()(okHandler(&principal))

	rec, env := doRequest(t, handler, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, common.CodeSessionRevoked, env.Code)
	require.True(t, env.ShouldLogout)
}
