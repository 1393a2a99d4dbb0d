package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/election"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/operation"
	"boscoin.io/agora/lib/storage"
)

var networkID []byte = []byte("agora-unittest")

func prepareAPIServer() (*httptest.Server, *storage.LevelDBBackend) {
	storage := storage.NewTestStorage()
	apiHandler := NetworkHandlerAPI{storage: storage}
	apiHandler.ApplyOperation = testApplier(storage)

	router := mux.NewRouter()
	router.HandleFunc(GetRegistryHandlerPattern, apiHandler.GetRegistryHandler).Methods("GET")
	router.HandleFunc(GetVoterHandlerPattern, apiHandler.GetVoterHandler).Methods("GET")
	router.HandleFunc(GetFactoryHandlerPattern, apiHandler.GetFactoryHandler).Methods("GET")
	router.HandleFunc(GetElectionsByFactoryHandlerPattern, apiHandler.GetElectionsByFactoryHandler).Methods("GET")
	router.HandleFunc(GetElectionHandlerPattern, apiHandler.GetElectionHandler).Methods("GET")
	router.HandleFunc(GetElectionOptionsHandlerPattern, apiHandler.GetElectionOptionsHandler).Methods("GET")
	router.HandleFunc(GetBallotsByElectionHandlerPattern, apiHandler.GetBallotsByElectionHandler).Methods("GET")
	router.HandleFunc(GetBallotByVoterHandlerPattern, apiHandler.GetBallotByVoterHandler).Methods("GET")
	router.HandleFunc(GetElectionResultsHandlerPattern, apiHandler.GetElectionResultsHandler).Methods("GET")
	router.HandleFunc(GetOperationByHashHandlerPattern, apiHandler.GetOperationByHashHandler).Methods("GET")
	router.HandleFunc(GetOperationsHandlerPattern, apiHandler.GetOperationsHandler).Methods("GET")
	router.HandleFunc(GetAccountOperationsHandlerPattern, apiHandler.GetOperationsByAccountHandler).Methods("GET")
	router.HandleFunc(PostOperationPattern, apiHandler.PostOperationsHandler).Methods("POST")
	router.HandleFunc(PostSubscribePattern, apiHandler.PostSubscribeHandler).Methods("POST")
	ts := httptest.NewServer(router)
	return ts, storage
}

// testApplier dispatches operation bodies the way the runner does, minus
// the transaction wrapper and metrics.
func testApplier(st *storage.LevelDBBackend) func(operation.Operation) (*operation.Record, error) {
	conf := common.NewTestConfig()

	return func(op operation.Operation) (*operation.Record, error) {
		if err := op.IsWellFormed(conf); err != nil {
			return nil, err
		}

		var err error
		switch body := op.B.Data.(type) {
		case operation.RegisterVoter:
			_, err = election.RegisterVoter(st, body.Registry, op.B.Source, body.Address, body.Name, body.Contact)
		case operation.UnregisterVoter:
			_, err = election.UnregisterVoter(st, body.Registry, op.B.Source, body.Address)
		case operation.CreateElection:
			_, err = election.CreateElection(st, body.Factory, op.B.Source, body.Title, body.Description, body.Start, int64(body.TimeLimit), body.PublicKey)
		case operation.AddOption:
			_, err = election.AddOption(st, body.Election, op.B.Source, body.Name, body.Description)
		case operation.Vote:
			_, err = election.Vote(st, body.Election, op.B.Source, body.Bundle)
		case operation.PublishResults:
			_, err = election.PublishResults(st, body.Election, op.B.Source, body.Tally)
		default:
			err = errors.UnknownOperationType
		}
		if err != nil {
			return nil, err
		}

		return operation.SaveRecord(st, op)
	}
}

func request(ts *httptest.Server, url string, streaming bool, body ...[]byte) io.ReadCloser {
	// Do a Request
	url = ts.URL + url
	method := "GET"
	var reqBody io.Reader
	if len(body) > 0 {
		method = "POST"
		reqBody = bytes.NewReader(body[0])
	}
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		panic(err)
	}
	if streaming {
		req.Header.Set("Accept", "text/event-stream")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		panic(err)
	}
	return resp.Body
}
