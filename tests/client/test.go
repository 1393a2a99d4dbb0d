// +build client_integration_tests

// The suite runs against one live node. The harness boots `agora node`
// on a storage prepared by `agora genesis`, then exports the resulting
// addresses and manager secrets before running
// `go test -tags client_integration_tests ./tests/client/...`.
package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/agora/lib/client"
	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/operation"
)

var (
	networkID = []byte(common.GetENVValue("AGORA_NETWORK_ID", "agora-network"))
	nodeURL   = common.GetENVValue("AGORA_NODE", "https://127.0.0.1:12345")

	registryAddress       = common.GetENVValue("AGORA_TEST_REGISTRY", "")
	factoryAddress        = common.GetENVValue("AGORA_TEST_FACTORY", "")
	registryManagerSecret = common.GetENVValue("AGORA_TEST_REGISTRY_SECRET", "")
	factoryManagerSecret  = common.GetENVValue("AGORA_TEST_FACTORY_SECRET", "")
)

func newClient() *client.Client {
	return client.NewClient(nodeURL)
}

func parseSecret(t *testing.T, secret string) *keypair.Full {
	kp, err := keypair.Parse(secret)
	require.NoError(t, err)

	full, ok := kp.(*keypair.Full)
	require.True(t, ok, "a secret seed is expected, not a public address")
	return full
}

// submit signs `data` with `kp` and posts it, requiring acceptance.
func submit(t *testing.T, c *client.Client, kp *keypair.Full, data operation.BodyData) client.Operation {
	op, err := operation.NewOperation(kp.Address(), data)
	require.NoError(t, err)
	op.Sign(kp, networkID)

	body, err := op.Serialize()
	require.NoError(t, err)

	res, err := c.SubmitOperation(body)
	require.NoError(t, err)
	return res
}

// submitExpectProblem posts a signed operation the node must refuse.
func submitExpectProblem(t *testing.T, c *client.Client, kp *keypair.Full, data operation.BodyData) client.Problem {
	op, err := operation.NewOperation(kp.Address(), data)
	require.NoError(t, err)
	op.Sign(kp, networkID)

	body, err := op.Serialize()
	require.NoError(t, err)

	_, err = c.SubmitOperation(body)
	require.Error(t, err)

	p, ok := err.(client.Problem)
	require.True(t, ok, "expected a problem, got: %v", err)
	return p
}

// waitState polls until the election window moves the state machine, or
// fails after 30 seconds.
func waitState(t *testing.T, c *client.Client, election, state string) {
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		el, err := c.Election(election)
		require.NoError(t, err)
		if el.State == state {
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	t.Fatalf("election %s did not reach %s in time", election, state)
}
