package runner

import (
	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/node"
	"boscoin.io/agora/lib/operation"
	"boscoin.io/agora/lib/storage"
	"boscoin.io/agora/lib/version"
)

// NewNodeInfo collects the static part of the node info payload. The
// stats are filled per request by the api handler.
func NewNodeInfo(nr *NodeRunner) node.NodeInfo {
	localNode := nr.Node()

	var endpoint *common.Endpoint
	if p := localNode.PublishEndpoint(); p != nil {
		endpoint = p
	}

	nodeVersion := node.NodeVersion{
		Version:   version.Version,
		GitCommit: version.GitCommit,
		GitState:  version.GitState,
		BuildDate: version.BuildDate,
	}

	nd := node.NodeInfoNode{
		Version:  nodeVersion,
		Started:  common.NowISO8601(),
		State:    localNode.State(),
		Alias:    localNode.Alias(),
		Address:  localNode.Address(),
		Endpoint: endpoint,
	}

	policy := node.NodePolicy{
		NetworkID:        string(nr.NetworkID()),
		RateLimitRuleAPI: nr.Conf.RateLimitRuleAPI.Formatted(),
		HTTPCacheAdapter: nr.Conf.HTTPCacheAdapter,
		NTPServer:        nr.Conf.NTPServer,
	}

	return node.NodeInfo{
		Node:   nd,
		Policy: policy,
	}
}

// NewNodeStats reads the applied operation counters from the storage.
func NewNodeStats(st *storage.LevelDBBackend) (stats node.NodeStats) {
	count, err := operation.GetRecordCount(st)
	if err != nil {
		return
	}
	stats.Operations = count

	if count > 0 {
		var hash string
		if err := st.Get(operation.GetRecordSeqKey(count-1), &hash); err == nil {
			stats.LastOperation = hash
		}
	}

	return
}
