package runner

import (
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	ghandlers "github.com/gorilla/handlers"
	logging "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/election"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/metrics"
	"boscoin.io/agora/lib/network"
	"boscoin.io/agora/lib/network/httpcache"
	"boscoin.io/agora/lib/node"
	"boscoin.io/agora/lib/node/runner/api"
	"boscoin.io/agora/lib/operation"
	"boscoin.io/agora/lib/storage"
)

// DebugPProf exposes the pprof handlers under `/debug/pprof/` when enabled.
var DebugPProf bool = false

// NodeRunner wires the storage, the http network and the apply pipeline
// together. It is the sole writer of the election state: every accepted
// operation goes through `ApplyOperation` under one lock.
type NodeRunner struct {
	localNode *node.LocalNode
	network   *network.HTTP2Network
	storage   *storage.LevelDBBackend

	cacheClient *httpcache.Client

	applyLock sync.Mutex

	log logging.Logger

	Conf     common.Config
	nodeInfo node.NodeInfo
}

func NewNodeRunner(
	localNode *node.LocalNode,
	n *network.HTTP2Network,
	st *storage.LevelDBBackend,
	conf common.Config,
) (nr *NodeRunner, err error) {
	nr = &NodeRunner{
		localNode: localNode,
		network:   n,
		storage:   st,
		log:       log.New(logging.Ctx{"node": localNode.Alias()}),
		Conf:      conf,
	}
	nr.localNode.SetBooting()

	if len(conf.HTTPCacheAdapter) > 0 {
		var adapter httpcache.Adapter
		if adapter, err = httpcache.NewAdapter(conf); err != nil {
			return
		}

		nr.cacheClient, err = httpcache.NewClient(
			httpcache.WithAdapter(adapter),
			httpcache.WithExpire(time.Minute),
			httpcache.WithLogger(nr.log),
		)
		if err != nil {
			return
		}
	}

	nr.nodeInfo = NewNodeInfo(nr)

	return
}

func (nr *NodeRunner) Ready() {
	rateLimitMiddlewareAPI := network.RateLimitMiddleware(nr.log, nr.Conf.RateLimitRuleAPI)
	if err := nr.network.AddMiddleware(network.RouterNameAPI, rateLimitMiddlewareAPI); err != nil {
		nr.log.Error("`network.RateLimitMiddleware` for `RouterNameAPI` has an error", "err", err)
		return
	}
	if err := nr.network.AddMiddleware(network.RouterNameNode, rateLimitMiddlewareAPI); err != nil {
		nr.log.Error("`network.RateLimitMiddleware` for `RouterNameNode` has an error", "err", err)
		return
	}
	if err := nr.network.AddMiddleware(network.RouterNameMetric, rateLimitMiddlewareAPI); err != nil {
		nr.log.Error("`network.RateLimitMiddleware` for `RouterNameMetric` router has an error", "err", err)
		return
	}
	if err := nr.network.AddMiddleware(network.RouterNameDebug, rateLimitMiddlewareAPI); err != nil {
		nr.log.Error("`network.RateLimitMiddleware` for `RouterNameDebug` router has an error", "err", err)
		return
	}

	// BaseRouter's middlewares impact all sub routers.
	if err := nr.network.AddMiddleware("", network.RecoverMiddleware(nr.log), network.RequestIDMiddleware()); err != nil {
		nr.log.Error("Middleware has an error", "err", err)
		return
	}

	if err := nr.network.AddMiddleware(network.RouterNameAPI, network.MetricsMiddleware(metrics.API)); err != nil {
		nr.log.Error("Middleware has an error", "err", err)
		return
	}

	{ //CORS
		allowedOrigins := ghandlers.AllowedOrigins([]string{"*"})
		allowedMethods := ghandlers.AllowedMethods([]string{"GET", "POST"})
		allowedHeaders := ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control", "Access-Control"})

		cors := ghandlers.CORS(allowedOrigins, allowedMethods, allowedHeaders)
		err := nr.network.AddMiddleware(network.RouterNameAPI, cors)
		if err != nil {
			nr.log.Error("Middleware has an error", "err", err)
			return
		}
	}

	// api handlers
	apiHandler := api.NewNetworkHandlerAPI(
		nr.localNode,
		nr.network,
		nr.storage,
		network.UrlPathPrefixAPI,
		nr.nodeInfo,
	)
	apiHandler.GetNodeStats = func() node.NodeStats {
		return NewNodeStats(nr.storage)
	}
	apiHandler.ApplyOperation = nr.ApplyOperation

	wrapCache := func(h http.HandlerFunc) http.HandlerFunc {
		if nr.cacheClient == nil {
			return h
		}
		return nr.cacheClient.WrapHandlerFunc(h)
	}

	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetRegistryHandlerPattern),
		wrapCache(apiHandler.GetRegistryHandler),
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetVoterHandlerPattern),
		apiHandler.GetVoterHandler,
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetFactoryHandlerPattern),
		wrapCache(apiHandler.GetFactoryHandler),
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetElectionsByFactoryHandlerPattern),
		apiHandler.GetElectionsByFactoryHandler,
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetElectionHandlerPattern),
		apiHandler.GetElectionHandler,
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetElectionOptionsHandlerPattern),
		wrapCache(apiHandler.GetElectionOptionsHandler),
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetBallotsByElectionHandlerPattern),
		apiHandler.GetBallotsByElectionHandler,
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetBallotByVoterHandlerPattern),
		apiHandler.GetBallotByVoterHandler,
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetElectionResultsHandlerPattern),
		wrapCache(apiHandler.GetElectionResultsHandler),
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetOperationByHashHandlerPattern),
		apiHandler.GetOperationByHashHandler,
	).Methods("GET", "OPTIONS")
	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetAccountOperationsHandlerPattern),
		apiHandler.GetOperationsByAccountHandler,
	).Methods("GET", "OPTIONS")

	OperationsHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			apiHandler.PostOperationsHandler(w, r)
			return
		}

		apiHandler.GetOperationsHandler(w, r)
		return
	}

	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.GetOperationsHandlerPattern),
		OperationsHandler,
	).Methods("GET", "POST", "OPTIONS").MatcherFunc(common.PostAndJSONMatcher)

	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.PostSubscribePattern),
		apiHandler.PostSubscribeHandler,
	).Methods("POST").Headers("Content-Type", "application/json")

	nr.network.AddHandler(network.UrlPathPrefixMetric, promhttp.Handler().ServeHTTP)

	// The node router answers the readiness probe of `IsReady`.
	nr.network.AddHandler(network.UrlPathPrefixNode+"/", apiHandler.GetNodeInfoHandler).Methods("GET")

	// pprof
	if DebugPProf == true {
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/cmdline", pprof.Cmdline)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/profile", pprof.Profile)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/symbol", pprof.Symbol)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/trace", pprof.Trace)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/*", pprof.Index)
	}

	nr.network.AddHandler(api.GetNodeInfoPattern, apiHandler.GetNodeInfoHandler).Methods("GET")

	nr.network.Ready()
}

func (nr *NodeRunner) Start() (err error) {
	nr.log.Debug("NodeRunner started")
	nr.Ready()

	nr.localNode.SetRunning()

	if err = nr.network.Start(); err != nil {
		return
	}

	return
}

func (nr *NodeRunner) Stop() {
	nr.localNode.SetTerminating()
	nr.network.Stop()
}

func (nr *NodeRunner) Node() *node.LocalNode {
	return nr.localNode
}

func (nr *NodeRunner) NetworkID() []byte {
	return nr.Conf.NetworkID
}

func (nr *NodeRunner) Network() *network.HTTP2Network {
	return nr.network
}

func (nr *NodeRunner) Storage() *storage.LevelDBBackend {
	return nr.storage
}

func (nr *NodeRunner) Log() logging.Logger {
	return nr.log
}

func (nr *NodeRunner) NodeInfo() node.NodeInfo {
	return nr.nodeInfo
}

// ApplyOperation runs a submitted operation through the pipeline: the
// well-formed and signature checks, then the authorization and state
// checks together with the writes inside one storage transaction. The
// record of a committed operation is announced to the stream observers;
// a rejected operation leaves no trace.
func (nr *NodeRunner) ApplyOperation(op operation.Operation) (rd *operation.Record, err error) {
	begin := time.Now()
	defer func() {
		opType := string(op.B.Type)
		if !operation.IsValidOperationType(opType) {
			opType = "unknown"
		}

		if err == nil {
			metrics.Apply.ObserveApplied(opType, begin)
		} else {
			metrics.Apply.ObserveRejected(opType, begin)
		}
	}()

	if err = op.IsWellFormed(nr.Conf); err != nil {
		return nil, err
	}

	nr.applyLock.Lock()
	defer nr.applyLock.Unlock()

	var st *storage.LevelDBBackend
	if st, err = nr.storage.OpenTransaction(); err != nil {
		return nil, err
	}

	if rd, err = applyOperationBody(st, op); err != nil {
		st.Discard()
		nr.log.Debug("operation rejected", "type", op.B.Type, "hash", op.H.Hash, "err", err)
		return nil, err
	}

	if err = st.Commit(); err != nil {
		st.Discard()
		return nil, err
	}

	api.TriggerEvent(nr.storage, rd)

	if count, cerr := operation.GetRecordCount(nr.storage); cerr == nil {
		metrics.Apply.SetTotalOps(count)
	}
	nr.log.Info("operation applied", "type", op.B.Type, "hash", op.H.Hash, "sequence", rd.Sequence)

	return rd, nil
}

// applyOperationBody dispatches the operation body to the election
// package with `B.Source` as the caller identity, then appends the
// history record. Everything runs on the passed transaction.
func applyOperationBody(st *storage.LevelDBBackend, op operation.Operation) (*operation.Record, error) {
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
