//
// Defines the `LocalNode` type, the identity of the running node
//
// A `LocalNode` holds the keypair the node is known by, the endpoint it
// binds to and the endpoint it publishes to clients.
//
// There should only be one `LocalNode` per program.
//
package node

import (
	"encoding/json"
	"fmt"
	"sync"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
)

type LocalNode struct {
	sync.RWMutex

	keypair *keypair.Full

	state           State
	alias           string
	bindEndpoint    *common.Endpoint
	publishEndpoint *common.Endpoint
}

func NewLocalNode(kp *keypair.Full, bindEndpoint *common.Endpoint, alias string) (*LocalNode, error) {
	if kp == nil {
		return nil, fmt.Errorf("LocalNode needs a keypair")
	}

	if len(alias) < 1 {
		alias = MakeAlias(kp.Address())
	}

	node := &LocalNode{
		keypair:      kp,
		state:        StateNONE,
		alias:        alias,
		bindEndpoint: bindEndpoint,
	}

	return node, nil
}

func (n *LocalNode) String() string {
	return n.Alias()
}

func (n *LocalNode) State() State {
	n.RLock()
	defer n.RUnlock()
	return n.state
}

func (n *LocalNode) SetBooting() {
	n.Lock()
	defer n.Unlock()
	n.state = StateBOOTING
}

func (n *LocalNode) SetRunning() {
	n.Lock()
	defer n.Unlock()
	n.state = StateRUNNING
}

func (n *LocalNode) SetTerminating() {
	n.Lock()
	defer n.Unlock()
	n.state = StateTERMINATING
}

func (n *LocalNode) Address() string {
	return n.keypair.Address()
}

func (n *LocalNode) Keypair() *keypair.Full {
	return n.keypair
}

func (n *LocalNode) Alias() string {
	return n.alias
}

// Endpoint prefers the publish endpoint, the clients never see the bind one
// when a publish endpoint is set.
func (n *LocalNode) Endpoint() *common.Endpoint {
	if n.publishEndpoint != nil {
		return n.publishEndpoint
	}

	return n.bindEndpoint
}

func (n *LocalNode) BindEndpoint() *common.Endpoint {
	return n.bindEndpoint
}

func (n *LocalNode) PublishEndpoint() *common.Endpoint {
	return n.publishEndpoint
}

func (n *LocalNode) SetPublishEndpoint(endpoint *common.Endpoint) {
	n.publishEndpoint = endpoint
}

func (n *LocalNode) MarshalJSON() ([]byte, error) {
	n.RLock()
	defer n.RUnlock()

	return json.Marshal(map[string]interface{}{
		"address":  n.Address(),
		"alias":    n.Alias(),
		"endpoint": n.Endpoint().String(),
		"state":    n.state.String(),
	})
}

func MakeAlias(address string) string {
	l := len(address)
	return fmt.Sprintf("%s.%s", address[:4], address[l-8:l-4])
}
