package access_test

import (
	"testing"

	"code.helixprotocol.io/helix/access"
	"code.helixprotocol.io/helix/keeper"
	"code.helixprotocol.io/helix/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestPolicy(t *testing.T) *access.Policy {
	t.Helper()
	return access.NewPolicy(logging.NewTestLogger(), access.NewDefaultConfig(), "root")
}

func TestPolicy(t *testing.T) {
	t.Run("Root holds every capability", testRootCapability)
	t.Run("Public needs no grant", testPublicCapability)
	t.Run("Higher tiers imply lower ones", testTierOrdering)
	t.Run("Grant and revoke", testGrantRevoke)
	t.Run("Only root hands out grants", testGrantGate)
	t.Run("Root cannot be demoted", testRootProtected)
	t.Run("Empty party is refused", testEmptyParty)
	t.Run("Node bootstrap authorizes the keeper party", testNodeBootstrapKeeperParty)
}

// Replays the node wiring: a fresh policy only knows the root party, the
// keeper party must be granted before its first cycle or every funding
// update and curve re-anchor it attempts is rejected.
func testNodeBootstrapKeeperParty(t *testing.T) {
	accCfg := access.NewDefaultConfig()
	keeperParty := keeper.NewDefaultConfig().Party
	p := access.NewPolicy(logging.NewTestLogger(), accCfg, accCfg.RootParty)

	assert.ErrorIs(t, p.Check(keeperParty, access.OperatorCapability), access.ErrUnknownParty)
	assert.ErrorIs(t, p.Check(keeperParty, access.AdminCapability), access.ErrUnknownParty)

	require.NoError(t, p.Grant(accCfg.RootParty, keeperParty, access.AdminCapability))

	assert.NoError(t, p.Check(keeperParty, access.OperatorCapability))
	assert.NoError(t, p.Check(keeperParty, access.AdminCapability))
	assert.ErrorIs(t, p.Check(keeperParty, access.RootCapability), access.ErrUnauthorized)
}

func testRootCapability(t *testing.T) {
	p := getTestPolicy(t)
	assert.NoError(t, p.Check("root", access.OperatorCapability))
	assert.NoError(t, p.Check("root", access.AdminCapability))
	assert.NoError(t, p.Check("root", access.RootCapability))
}

func testPublicCapability(t *testing.T) {
	p := getTestPolicy(t)
	assert.NoError(t, p.Check("anyone", access.PublicCapability))
	assert.ErrorIs(t, p.Check("anyone", access.OperatorCapability), access.ErrUnknownParty)
}

func testTierOrdering(t *testing.T) {
	p := getTestPolicy(t)
	require.NoError(t, p.Grant("root", "admin", access.AdminCapability))
	require.NoError(t, p.Grant("root", "op", access.OperatorCapability))

	assert.NoError(t, p.Check("admin", access.OperatorCapability))
	assert.NoError(t, p.Check("admin", access.AdminCapability))
	assert.ErrorIs(t, p.Check("admin", access.RootCapability), access.ErrUnauthorized)

	assert.NoError(t, p.Check("op", access.OperatorCapability))
	assert.ErrorIs(t, p.Check("op", access.AdminCapability), access.ErrUnauthorized)
}

func testGrantRevoke(t *testing.T) {
	p := getTestPolicy(t)
	require.NoError(t, p.Grant("root", "op", access.OperatorCapability))
	assert.Equal(t, 2, p.Holders())

	require.NoError(t, p.Revoke("root", "op"))
	assert.ErrorIs(t, p.Check("op", access.OperatorCapability), access.ErrUnknownParty)
	assert.Equal(t, 1, p.Holders())

	assert.ErrorIs(t, p.Revoke("root", "op"), access.ErrUnknownParty)
}

func testGrantGate(t *testing.T) {
	p := getTestPolicy(t)
	require.NoError(t, p.Grant("root", "admin", access.AdminCapability))

	err := p.Grant("admin", "op", access.OperatorCapability)
	assert.ErrorIs(t, err, access.ErrUnauthorized)
	err = p.Revoke("admin", "root")
	assert.ErrorIs(t, err, access.ErrUnauthorized)
}

func testRootProtected(t *testing.T) {
	p := getTestPolicy(t)
	assert.ErrorIs(t, p.Grant("root", "root", access.AdminCapability), access.ErrCannotDemote)
	assert.ErrorIs(t, p.Revoke("root", "root"), access.ErrCannotDemote)

	// re-asserting the root tier is fine
	assert.NoError(t, p.Grant("root", "root", access.RootCapability))
}

func testEmptyParty(t *testing.T) {
	p := getTestPolicy(t)
	assert.ErrorIs(t, p.Grant("root", "", access.OperatorCapability), access.ErrInvalidParty)
}
