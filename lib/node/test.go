// Test helpers; compiled into the package, used only from tests.
package node

import (
	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
)

func NewTestLocalNode(kp *keypair.Full, endpoint *common.Endpoint) *LocalNode {
	localNode, err := NewLocalNode(kp, endpoint, MakeAlias(kp.Address()))
	if err != nil {
		panic(err)
	}
	return localNode
}
