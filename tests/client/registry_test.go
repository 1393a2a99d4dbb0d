// +build client_integration_tests

package client

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/agora/lib/client"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/operation"
)

func TestVoterRegistration(t *testing.T) {
	c := newClient()
	manager := parseSecret(t, registryManagerSecret)
	voter := keypair.Random()

	registry, err := c.Registry(registryAddress)
	require.NoError(t, err)
	require.Equal(t, manager.Address(), registry.Manager)
	countBefore := registry.VoterCount

	res := submit(t, c, manager, operation.NewRegisterVoter(
		registryAddress, voter.Address(), "integration voter", "voter@example.com"))
	require.Equal(t, "register-voter", res.Type)
	require.Equal(t, voter.Address(), res.Target)

	v, err := c.Voter(registryAddress, voter.Address())
	require.NoError(t, err)
	require.True(t, v.Registered)
	require.Equal(t, "integration voter", v.Name)
	require.Equal(t, "voter@example.com", v.Contact)

	registry, err = c.Registry(registryAddress)
	require.NoError(t, err)
	require.Equal(t, countBefore+1, registry.VoterCount)

	// only the registry manager may register; the voter itself may not
	p := submitExpectProblem(t, c, voter, operation.NewRegisterVoter(
		registryAddress, voter.Address(), "self service", ""))
	require.Equal(t, 403, p.Status)

	// unregistering keeps the record but flips the flag and the counter
	submit(t, c, manager, operation.NewUnregisterVoter(registryAddress, voter.Address()))

	v, err = c.Voter(registryAddress, voter.Address())
	require.NoError(t, err)
	require.False(t, v.Registered)

	registry, err = c.Registry(registryAddress)
	require.NoError(t, err)
	require.Equal(t, countBefore, registry.VoterCount)
}

func TestVoterNotFound(t *testing.T) {
	c := newClient()
	stranger := keypair.Random()

	_, err := c.Voter(registryAddress, stranger.Address())
	p, ok := err.(client.Problem)
	require.True(t, ok)
	require.Equal(t, 404, p.Status)
}
