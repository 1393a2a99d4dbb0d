package api

import (
	"net/http"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/network/httputils"
)

// GetNodeInfoHandler returns the runtime summary of this node. `Node` and
// `Policy` come from startup configuration; `State` and `Stats` are read
// live so the answer tracks the node lifecycle.
func (api NetworkHandlerAPI) GetNodeInfoHandler(w http.ResponseWriter, r *http.Request) {
	nodeInfo := api.nodeInfo
	nodeInfo.Node.State = api.localNode.State()

	if nodeInfo.Node.Endpoint == nil {
		// no publish endpoint configured; answer with the endpoint the
		// client actually reached
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		nodeInfo.Node.Endpoint = &common.Endpoint{
			Scheme: scheme,
			Host:   r.Host,
		}
	}

	if api.GetNodeStats != nil {
		nodeInfo.Stats = api.GetNodeStats()
	}

	httputils.MustWriteJSON(w, 200, nodeInfo)
}
