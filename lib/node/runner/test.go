package runner

import (
	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/network"
	"boscoin.io/agora/lib/node"
	"boscoin.io/agora/lib/storage"
)

var networkID []byte = []byte("agora-unittest")

// MakeNodeRunner builds a runner over a fresh test storage. The network
// is wired but never started; tests drive the apply pipeline directly.
func MakeNodeRunner() (*NodeRunner, *storage.LevelDBBackend) {
	st := storage.NewTestStorage()

	kp := keypair.Random()
	endpoint := common.MustParseEndpoint("http://localhost:12345")
	localNode, err := node.NewLocalNode(kp, endpoint, "")
	if err != nil {
		panic(err)
	}

	networkConfig, err := network.NewHTTP2NetworkConfigFromEndpoint(localNode.Alias(), endpoint)
	if err != nil {
		panic(err)
	}
	n := network.NewHTTP2Network(networkConfig)

	nr, err := NewNodeRunner(localNode, n, st, common.NewTestConfig())
	if err != nil {
		panic(err)
	}

	return nr, st
}
