package security_test

import (
	"testing"

	"arroyo_seco_api/internal/common/security"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	digest, err := security.HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", digest)

	require.True(t, security.CheckPasswordHash("secret1", digest))
	require.False(t, security.CheckPasswordHash("secret2", digest))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := security.HashPassword("secret1")
	require.NoError(t, err)
	second, err := security.HashPassword("secret1")
	require.NoError(t, err)

	// Same password, different salt, different digest.
	require.NotEqual(t, first, second)
	require.True(t, security.CheckPasswordHash("secret1", first))
	require.True(t, security.CheckPasswordHash("secret1", second))
}

func TestCheckPasswordHashGarbageDigest(t *testing.T) {
	require.False(t, security.CheckPasswordHash("secret1", "not-a-bcrypt-digest"))
}
