package node

import (
	"encoding/json"

	"boscoin.io/agora/lib/common"
)

// NodeInfo is the payload of the root endpoint. `Node` and `Policy` are
// fixed at startup while `Stats` is read from the storage on every request.
type NodeInfo struct {
	Node   NodeInfoNode `json:"node"`
	Policy NodePolicy   `json:"policy"`
	Stats  NodeStats    `json:"stats"`
}

type NodeInfoNode struct {
	Version  NodeVersion      `json:"version"`
	Started  string           `json:"started"`
	State    State            `json:"state"`
	Alias    string           `json:"alias"`
	Address  string           `json:"address"`
	Endpoint *common.Endpoint `json:"endpoint"`
}

type NodePolicy struct {
	NetworkID        string `json:"network-id"`
	RateLimitRuleAPI string `json:"rate-limit-api"`
	HTTPCacheAdapter string `json:"http-cache-adapter,omitempty"`
	NTPServer        string `json:"ntp-server,omitempty"`
}

type NodeStats struct {
	Operations    uint64 `json:"operations"`               // applied operation count
	LastOperation string `json:"last-operation,omitempty"` // hash of the newest applied operation
}

type NodeVersion struct {
	Version   string `json:"version"`
	GitCommit string `json:"git-commit"`
	GitState  string `json:"git-state"`
	BuildDate string `json:"build-date"`
}

func NewNodeInfoFromJSON(b []byte) (nodeInfo NodeInfo, err error) {
	err = json.Unmarshal(b, &nodeInfo)
	return
}
