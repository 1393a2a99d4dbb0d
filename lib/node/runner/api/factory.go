package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/agora/lib/common/observer"
	"boscoin.io/agora/lib/election"
	"boscoin.io/agora/lib/network/httputils"
	"boscoin.io/agora/lib/node/runner/api/resource"
)

func (api NetworkHandlerAPI) GetFactoryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]

	readFunc := func() (payload interface{}, err error) {
		fa, err := election.GetFactory(api.storage, address)
		if err != nil {
			return nil, err
		}
		payload = resource.NewFactory(fa)
		return payload, nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

// GetElectionsByFactoryHandler lists the elections deployed by one factory
// in creation order.
func (api NetworkHandlerAPI) GetElectionsByFactoryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]

	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	options := p.ListOptions()

	var firstCursor []byte
	var cursor []byte
	readFunc := func() []resource.Resource {
		var rs []resource.Resource
		iterFunc, closeFunc := election.GetDeployedElections(api.storage, address, options)
		for {
			deployed, hasNext, c := iterFunc()
			if !hasNext {
				break
			}
			cursor = append([]byte{}, c...)
			if len(firstCursor) == 0 {
				firstCursor = append(firstCursor, c...)
			}

			el, err := election.GetElection(api.storage, deployed)
			if err != nil {
				break
			}
			rs = append(rs, resource.NewElection(el))
		}
		closeFunc()
		return rs
	}

	if httputils.IsEventStream(r) {
		event := fmt.Sprintf("factory-%s", address)
		es := NewEventStream(w, r, renderEventStream, DefaultContentType)
		rs := readFunc()
		for _, res := range rs {
			es.Render(res)
		}
		es.Run(observer.ElectionObserver, event)
		return
	}

	if _, err := election.GetFactory(api.storage, address); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	rs := readFunc()
	list := p.ResourceList(rs, firstCursor, cursor)
	httputils.MustWriteJSON(w, 200, list)
}
