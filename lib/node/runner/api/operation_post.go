package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/network/httputils"
	"boscoin.io/agora/lib/node/runner/api/resource"
	"boscoin.io/agora/lib/operation"
)

// PostOperationsHandler accepts a signed operation envelope, runs it through
// the apply pipeline and answers with the stored record.
func (api NetworkHandlerAPI) PostOperationsHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	var op operation.Operation
	if err := json.Unmarshal(body, &op); err != nil {
		httputils.WriteJSONError(w, errors.InvalidMessage.Clone().SetData("error", err.Error()))
		return
	}

	rd, err := api.ApplyOperation(op)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, resource.NewOperation(rd))
}
