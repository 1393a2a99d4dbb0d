package node

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
)

func TestLocalNodeStateChange(t *testing.T) {
	kp := keypair.Random()
	endpoint, err := common.NewEndpointFromString("https://localhost:5000?NodeName=n1")
	require.NoError(t, err)

	localNode, err := NewLocalNode(kp, endpoint, "")
	require.NoError(t, err)

	require.Equal(t, StateNONE, localNode.State())

	localNode.SetBooting()
	require.Equal(t, StateBOOTING, localNode.State())

	localNode.SetRunning()
	require.Equal(t, StateRUNNING, localNode.State())

	localNode.SetTerminating()
	require.Equal(t, StateTERMINATING, localNode.State())
}

func TestLocalNodeMarshalJSON(t *testing.T) {
	kp := keypair.Random()
	endpoint, err := common.NewEndpointFromString("https://localhost:5000?NodeName=n1")
	require.NoError(t, err)

	localNode, err := NewLocalNode(kp, endpoint, "")
	require.NoError(t, err)

	// alias and address cannot be compared with a string literal because
	// these are random generated.
	jsonStr := "\"endpoint\":\"https://localhost:5000\",\"state\":\"%s\""

	b, err := localNode.MarshalJSON()
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), fmt.Sprintf(jsonStr, "NONE")))

	localNode.SetRunning()
	b, err = localNode.MarshalJSON()
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), fmt.Sprintf(jsonStr, "RUNNING")))
}

func TestLocalNodePublishEndpoint(t *testing.T) {
	kp := keypair.Random()
	bindEndpoint, _ := common.NewEndpointFromString("https://0.0.0.0:5000")

	localNode, err := NewLocalNode(kp, bindEndpoint, "")
	require.NoError(t, err)
	require.Equal(t, bindEndpoint, localNode.Endpoint())

	publishEndpoint, _ := common.NewEndpointFromString("https://agora.example.com:5000")
	localNode.SetPublishEndpoint(publishEndpoint)
	require.Equal(t, publishEndpoint, localNode.Endpoint())
	require.Equal(t, bindEndpoint, localNode.BindEndpoint())
}

func TestMakeAlias(t *testing.T) {
	address := "GCSDFPEBQJ7FWAPTZDXNVDYPDDBSAPFZU5MKKM6I35JXJPYD3TFRST7F"
	require.Equal(t, "GCSD.3TFR", MakeAlias(address))
}
