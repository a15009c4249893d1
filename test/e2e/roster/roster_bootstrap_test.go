package roster_test

import (
	"testing"

	"github.com/aussiebroadwan/roster/pkg/rostersdk"
	"github.com/stretchr/testify/require"
)

// TestBootstrap verifies the first superuser can be created exactly once.
func TestBootstrap(t *testing.T) {
	baseURL, cleanup := setupRosterContainer(t)
	defer cleanup()

	client := rostersdk.NewClient(baseURL)
	req := rostersdk.BootstrapRequest{Email: rootEmail, FirstName: "Root"}

	_, err := client.Bootstrap(t.Context(), "wrong-token", req)
	assertCode(t, err, rostersdk.CodeUnauthorized)

	rootID := bootstrapService(t, client)

	_, err = client.Bootstrap(t.Context(), bootstrapToken, req)
	assertCode(t, err, rostersdk.CodeConflict)

	root := performLogin(t, client, rootEmail)
	require.Equal(t, rootID, root.MemberID)
	require.True(t, root.IsStaff)

	me, err := root.Me(t.Context())
	require.NoError(t, err)
	require.True(t, me.IsSuperuser)
}
