package runner

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/rpc"
	jsonrpc "github.com/gorilla/rpc/json"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/storage"
)

// The jsonrpc server lets operators look at the raw records without
// taking the node down. It binds to localhost unless told otherwise.
const DefaultJSONRPCBindURL = "http://localhost:54321/jsonrpc"

// MaxLimitListOptions caps one DB.GetIterator page.
const MaxLimitListOptions uint64 = 10000

type DBEchoArgs string
type DBEchoResult string

type DBHasArgs string
type DBHasResult bool

type DBGetArgs string
type DBGetResult storage.IterItem

type GetIteratorOptions struct {
	Reverse bool
	Cursor  []byte
	Limit   uint64
}

type DBGetIteratorArgs struct {
	Prefix  string
	Options GetIteratorOptions
}

type DBGetIteratorResult struct {
	Limit uint64
	Items []storage.IterItem
}

// jsonrpcDBApp exposes the storage backend as the `DB` rpc service.
// Keys are the raw prefixed keys, values come back as stored.
type jsonrpcDBApp struct {
	st *storage.LevelDBBackend
}

func (j *jsonrpcDBApp) Echo(r *http.Request, args *DBEchoArgs, result *DBEchoResult) error {
	*result = DBEchoResult(*args)
	return nil
}

func (j *jsonrpcDBApp) Has(r *http.Request, args *DBHasArgs, result *DBHasResult) error {
	o, err := j.st.Has(string(*args))
	if err != nil {
		return err
	}

	*result = DBHasResult(o)
	return nil
}

func (j *jsonrpcDBApp) Get(r *http.Request, args *DBGetArgs, result *DBGetResult) error {
	o, err := j.st.GetRaw(string(*args))
	if err != nil {
		return err
	}

	*result = DBGetResult{Key: []byte(*args), Value: o}
	return nil
}

func (j *jsonrpcDBApp) GetIterator(r *http.Request, args *DBGetIteratorArgs, result *DBGetIteratorResult) error {
	limit := args.Options.Limit
	if limit > MaxLimitListOptions {
		limit = MaxLimitListOptions
	}

	options := storage.NewDefaultListOptions(args.Options.Reverse, args.Options.Cursor, limit)
	it, closeFunc := j.st.GetIterator(args.Prefix, options)
	defer closeFunc()

	items := []storage.IterItem{}
	for {
		v, hasNext := it()
		if !hasNext {
			break
		}
		items = append(items, v.Clone())
	}

	result.Items = items
	result.Limit = limit

	return nil
}

// JSONRPCServer is the operator side channel of the node, separate
// from the public API server.
type JSONRPCServer struct {
	endpoint *common.Endpoint
	st       *storage.LevelDBBackend
	server   *http.Server
}

func NewJSONRPCServer(endpoint *common.Endpoint, st *storage.LevelDBBackend) *JSONRPCServer {
	return &JSONRPCServer{
		endpoint: endpoint,
		st:       st,
	}
}

// jsonrpcInternalServer adds the CORS headers the rpc package leaves
// out.
type jsonrpcInternalServer struct {
	*rpc.Server
}

func (s *jsonrpcInternalServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set(
		"Access-Control-Allow-Headers",
		"Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization",
	)

	if r.Method == http.MethodOptions {
		return
	}

	s.Server.ServeHTTP(w, r)
}

func (j *JSONRPCServer) Ready() *mux.Router {
	s := &jsonrpcInternalServer{Server: rpc.NewServer()}
	for _, contentType := range []string{"application/json", "application/json;charset=UTF-8"} {
		s.RegisterCodec(jsonrpc.NewCodec(), contentType)
	}
	s.RegisterService(&jsonrpcDBApp{st: j.st}, "DB")

	router := mux.NewRouter()

	path := j.endpoint.Path
	if len(path) < 1 {
		path = "/"
	}
	router.Handle(path, s)

	return router
}

func (j *JSONRPCServer) Start() error {
	j.server = &http.Server{Addr: j.endpoint.Host, Handler: j.Ready()}

	var err error
	if strings.ToLower(j.endpoint.Scheme) == "http" {
		err = j.server.ListenAndServe()
	} else {
		query := j.endpoint.Query()
		err = j.server.ListenAndServeTLS(query.Get("TLSCertFile"), query.Get("TLSKeyFile"))
	}

	if err == http.ErrServerClosed {
		return nil
	}

	return err
}

// Stop shuts the server down without waiting for open requests.
func (j *JSONRPCServer) Stop() {
	if j.server == nil {
		return
	}

	j.server.Close()
}
