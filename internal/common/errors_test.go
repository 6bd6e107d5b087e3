package common_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"arroyo_seco_api/internal/common"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestFromErrorPassesThroughAppError(t *testing.T) {
	orig := common.NewConflictError(common.CodeEmailExists, "A user with this email already exists")
	got := common.FromError(fmt.Errorf("creating user: %w", orig))
	require.Equal(t, orig, got)
	require.Equal(t, 409, got.Status)
}

func TestFromErrorUniqueViolation(t *testing.T) {
	got := common.FromError(&pgconn.PgError{Code: "23505"})
	require.Equal(t, common.CodeDuplicateResource, got.Code)
	require.Equal(t, 409, got.Status)
}

func TestFromErrorConnectionFailure(t *testing.T) {
	got := common.FromError(&pgconn.PgError{Code: "08006"})
	require.Equal(t, common.CodeServiceUnavailable, got.Code)
	require.Equal(t, 503, got.Status)
}

func TestFromErrorStoreTimeout(t *testing.T) {
	got := common.FromError(fmt.Errorf("lookup: %w", context.DeadlineExceeded))
	require.Equal(t, common.CodeServiceUnavailable, got.Code)
	require.Equal(t, 503, got.Status)
}

func TestFromErrorUnknownBecomesOpaque500(t *testing.T) {
	got := common.FromError(errors.New("pq: password authentication failed for user postgres"))
	require.Equal(t, common.CodeInternalError, got.Code)
	require.Equal(t, 500, got.Status)
	// Internals never leak into the client-facing message.
	require.Equal(t, "Internal server error", got.Message)
}
