package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/agora/lib/common/observer"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/network/httputils"
	"boscoin.io/agora/lib/node/runner/api/resource"
	"boscoin.io/agora/lib/operation"
)

func (api NetworkHandlerAPI) GetOperationByHashHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hash := vars["id"]

	readFunc := func() (payload interface{}, err error) {
		rd, err := operation.GetRecord(api.storage, hash)
		if err != nil {
			return nil, err
		}
		payload = resource.NewOperation(rd)
		return payload, nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

// GetOperationsHandler lists every applied operation in applied order.
func (api NetworkHandlerAPI) GetOperationsHandler(w http.ResponseWriter, r *http.Request) {
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
		iterFunc, closeFunc := operation.GetRecords(api.storage, options)
		for {
			rd, hasNext, c := iterFunc()
			if !hasNext {
				break
			}
			cursor = append([]byte{}, c...)
			if len(firstCursor) == 0 {
				firstCursor = append(firstCursor, c...)
			}

			rs = append(rs, resource.NewOperation(rd))
		}
		closeFunc()
		return rs
	}

	if httputils.IsEventStream(r) {
		es := NewEventStream(w, r, renderEventStream, DefaultContentType)
		rs := readFunc()
		for _, res := range rs {
			es.Render(res)
		}
		es.Run(observer.OperationObserver, "saved")
		return
	}

	rs := readFunc()
	list := p.ResourceList(rs, firstCursor, cursor)
	httputils.MustWriteJSON(w, 200, list)
}

func (api NetworkHandlerAPI) GetOperationsByAccountHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]

	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	options := p.ListOptions()

	oTypeStr := r.URL.Query().Get("type")
	if len(oTypeStr) > 0 && !operation.IsValidOperationType(oTypeStr) {
		httputils.WriteJSONError(w, errors.InvalidQueryString)
		return
	}
	oType := operation.OperationType(oTypeStr)

	var firstCursor []byte
	var cursor []byte
	readFunc := func() []resource.Resource {
		var rs []resource.Resource
		iterFunc, closeFunc := operation.GetRecordsBySource(api.storage, address, options)
		for {
			rd, hasNext, c := iterFunc()
			if !hasNext {
				break
			}
			cursor = append([]byte{}, c...)
			if len(firstCursor) == 0 {
				firstCursor = append(firstCursor, c...)
			}

			if len(oType) > 0 && rd.Type != oType {
				continue
			}
			rs = append(rs, resource.NewOperation(rd))
		}
		closeFunc()
		return rs
	}

	if httputils.IsEventStream(r) {
		event := fmt.Sprintf("source-%s", address)
		if len(oType) > 0 {
			event = fmt.Sprintf("source-type-%s%s", address, oType)
		}
		es := NewEventStream(w, r, renderEventStream, DefaultContentType)
		rs := readFunc()
		for _, res := range rs {
			es.Render(res)
		}
		es.Run(observer.OperationObserver, event)
		return
	}

	rs := readFunc()
	list := p.ResourceList(rs, firstCursor, cursor)
	httputils.MustWriteJSON(w, 200, list)
}
