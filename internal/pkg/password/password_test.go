//go:build unit

package password_test

import (
	"testing"

	"tourtable/internal/pkg/password"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("correct horse battery")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery", hash)

	require.NoError(t, password.Verify(hash, "correct horse battery"))
	require.ErrorIs(t, password.Verify(hash, "wrong"), password.ErrMismatch)
}
