package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/agora/lib/common/observer"
	"boscoin.io/agora/lib/election"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/network/httputils"
	"boscoin.io/agora/lib/node/runner/api/resource"
)

func (api NetworkHandlerAPI) GetElectionHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]

	readFunc := func() (payload interface{}, err error) {
		el, err := election.GetElection(api.storage, address)
		if err != nil {
			return nil, err
		}
		payload = resource.NewElection(el)
		return payload, nil
	}

	if httputils.IsEventStream(r) {
		event := fmt.Sprintf("address-%s", address)
		es := NewEventStream(w, r, renderEventStream, DefaultContentType)
		if payload, err := readFunc(); err == nil {
			es.Render(payload)
		}
		es.Run(observer.ElectionObserver, event)
		return
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

func (api NetworkHandlerAPI) GetElectionOptionsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]

	options, err := election.GetOptions(api.storage, address)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, options)
}

func (api NetworkHandlerAPI) GetBallotByVoterHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]
	voter := vars["address"]

	readFunc := func() (payload interface{}, err error) {
		bt, err := election.GetBallot(api.storage, address, voter)
		if err != nil {
			return nil, err
		}
		payload = resource.NewBallot(bt)
		return payload, nil
	}

	if httputils.IsEventStream(r) {
		// a revote overwrites in place, so the stream delivers every new
		// bundle of this voter
		event := fmt.Sprintf("election-voter-%s%s", address, voter)
		es := NewEventStream(w, r, renderEventStream, DefaultContentType)
		if payload, err := readFunc(); err == nil {
			es.Render(payload)
		}
		es.Run(observer.ElectionObserver, event)
		return
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

// GetBallotsByElectionHandler lists the stored ballots of one election,
// ordered by voter address.
func (api NetworkHandlerAPI) GetBallotsByElectionHandler(w http.ResponseWriter, r *http.Request) {
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
		iterFunc, closeFunc := election.GetBallotsByElection(api.storage, address, options)
		for {
			bt, hasNext, c := iterFunc()
			if !hasNext {
				break
			}
			cursor = append([]byte{}, c...)
			if len(firstCursor) == 0 {
				firstCursor = append(firstCursor, c...)
			}

			rs = append(rs, resource.NewBallot(bt))
		}
		closeFunc()
		return rs
	}

	if httputils.IsEventStream(r) {
		event := fmt.Sprintf("election-%s", address)
		es := NewEventStream(w, r, renderEventStream, DefaultContentType)
		rs := readFunc()
		for _, res := range rs {
			es.Render(res)
		}
		es.Run(observer.ElectionObserver, event)
		return
	}

	if _, err := election.GetElection(api.storage, address); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	rs := readFunc()
	list := p.ResourceList(rs, firstCursor, cursor)
	httputils.MustWriteJSON(w, 200, list)
}

func (api NetworkHandlerAPI) GetElectionResultsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]

	el, err := election.GetElection(api.storage, address)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	if !el.IsPublished() {
		httputils.WriteJSONError(w, errors.ResultsNotPublished)
		return
	}

	httputils.MustWriteJSON(w, 200, resource.NewElectionResults(el))
}
