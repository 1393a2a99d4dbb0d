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

func (api NetworkHandlerAPI) GetRegistryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]

	readFunc := func() (payload interface{}, err error) {
		rg, err := election.GetRegistry(api.storage, address)
		if err != nil {
			return nil, err
		}
		count, err := election.GetVoterCount(api.storage, address)
		if err != nil {
			return nil, err
		}
		payload = resource.NewRegistry(rg, count)
		return payload, nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

func (api NetworkHandlerAPI) GetVoterHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	registry := vars["id"]
	address := vars["address"]

	readFunc := func() (payload interface{}, err error) {
		vt, err := election.GetVoter(api.storage, registry, address)
		if err != nil {
			return nil, err
		}
		payload = resource.NewVoter(vt)
		return payload, nil
	}

	if httputils.IsEventStream(r) {
		// the stream is useful before the voter exists, so a failed read
		// only skips the initial render
		event := fmt.Sprintf("address-%s", address)
		es := NewEventStream(w, r, renderEventStream, DefaultContentType)
		if payload, err := readFunc(); err == nil {
			es.Render(payload)
		}
		es.Run(observer.VoterObserver, event)
		return
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}
