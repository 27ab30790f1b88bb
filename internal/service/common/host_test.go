//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectHost ensures the hostname is detected and non-empty.
func TestDetectHost(t *testing.T) {
	t.Parallel()

	host, err := DetectHost()
	require.NoError(t, err)
	require.NotEmpty(t, host)
}
