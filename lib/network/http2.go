package network

import (
	"fmt"
	goLog "log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"golang.org/x/net/http2"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
)

const (
	RouterNameNode   = "node"
	RouterNameAPI    = "api"
	RouterNameMetric = "metrics"
	RouterNameDebug  = "debug"
)

var (
	UrlPathPrefixNode   = fmt.Sprintf("/%s", RouterNameNode)
	UrlPathPrefixAPI    = fmt.Sprintf("/%s", RouterNameAPI)
	UrlPathPrefixDebug  = fmt.Sprintf("/%s", RouterNameDebug)
	UrlPathPrefixMetric = fmt.Sprintf("/%s", RouterNameMetric)
)

const (
	defaultTimeout     = 3 * time.Second
	defaultIdleTimeout = 3 * time.Second
)

// HTTP2Network is the http/2 server of a node. Handlers are registered on
// named sub routers, one per url prefix, so that middlewares can be applied
// per router.
type HTTP2Network struct {
	tlsCertFile string
	tlsKeyFile  string

	server    *http.Server
	router    *mux.Router
	rootRoute *mux.Route

	ready bool

	routers map[string]*mux.Router

	config *HTTP2NetworkConfig
	log    logging.Logger
}

func NewHTTP2Network(config *HTTP2NetworkConfig) (h2n *HTTP2Network) {
	httpLog := log.New(logging.Ctx{"module": "http", "node": config.NodeName})
	errorLog := goLog.New(HTTP2ErrorLog15Writer{httpLog}, "", 0)

	server := &http.Server{
		Addr:              config.Addr,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		ErrorLog:          errorLog,
	}
	server.SetKeepAlivesEnabled(true)

	http2.ConfigureServer(
		server,
		&http2.Server{
			IdleTimeout: config.IdleTimeout,
		},
	)

	baseRouter := mux.NewRouter()

	h2n = &HTTP2Network{
		server:      server,
		router:      baseRouter,
		tlsCertFile: config.TLSCertFile,
		tlsKeyFile:  config.TLSKeyFile,
		log:         httpLog,
	}
	h2n.routers = map[string]*mux.Router{
		RouterNameNode:   baseRouter.PathPrefix(UrlPathPrefixNode).Subrouter(),
		RouterNameAPI:    baseRouter.PathPrefix(UrlPathPrefixAPI).Subrouter(),
		RouterNameMetric: baseRouter.PathPrefix(UrlPathPrefixMetric).Subrouter(),
		RouterNameDebug:  baseRouter.PathPrefix(UrlPathPrefixDebug).Subrouter(),
	}

	h2n.config = config

	h2n.setNotReadyHandler()

	return
}

func (t *HTTP2Network) Endpoint() *common.Endpoint {
	return t.config.Endpoint
}

func (t *HTTP2Network) setNotReadyHandler() {
	t.rootRoute = t.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !t.ready {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
	})

	t.server.Handler = HTTP2Log15Handler{log: t.log, handler: t.router}
}

// AddMiddleware attaches mws to the named sub router. With an empty
// routerName the middlewares go to the base router and impact all sub
// routers.
func (t *HTTP2Network) AddMiddleware(routerName string, mws ...mux.MiddlewareFunc) error {
	var r *mux.Router
	if len(routerName) < 1 {
		r = t.router
	} else {
		var ok bool
		if r, ok = t.routers[routerName]; !ok {
			return errors.HTTPRouterNotFound
		}
	}
	for _, mw := range mws {
		r.Use(mw)
	}
	return nil
}

func (t *HTTP2Network) AddHandler(pattern string, handler http.HandlerFunc) (router *mux.Route) {
	var routerName string
	var prefix string
	switch {
	case strings.HasPrefix(pattern, UrlPathPrefixNode):
		routerName = RouterNameNode
		prefix = pattern[len(UrlPathPrefixNode):]
	case strings.HasPrefix(pattern, UrlPathPrefixAPI):
		routerName = RouterNameAPI
		prefix = pattern[len(UrlPathPrefixAPI):]
	case strings.HasPrefix(pattern, UrlPathPrefixMetric):
		routerName = RouterNameMetric
		prefix = pattern[len(UrlPathPrefixMetric):]
	case strings.HasPrefix(pattern, UrlPathPrefixDebug):
		routerName = RouterNameDebug
		prefix = pattern[len(UrlPathPrefixDebug):]
	default:
		if pattern == "" || pattern == "/" {
			return t.rootRoute.Handler(handler)
		} else {
			return t.router.HandleFunc(pattern, handler)
		}
	}

	r, _ := t.routers[routerName]

	// if a pattern has a suffix *,the router sets path prefix and handler
	if strings.HasSuffix(prefix, "*") {
		pathPrefix := strings.TrimSuffix(prefix, "*")
		return r.PathPrefix(pathPrefix).Handler(handler)
	}
	return r.HandleFunc(prefix, handler)
}

func (t *HTTP2Network) Ready() error {
	t.server.Handler = HTTP2Log15Handler{log: t.log, handler: t.router}

	t.ready = true

	return nil
}

// IsReady pings the own node handler and checks the response.
func (t *HTTP2Network) IsReady() bool {
	client, err := common.NewHTTP2Client(50*time.Millisecond, 50*time.Millisecond, false)
	if err != nil {
		return false
	}

	u := (*url.URL)(t.Endpoint()).ResolveReference(&url.URL{Path: UrlPathPrefixNode + "/"})

	response, err := client.Get(u.String(), http.Header{})
	if err != nil {
		return false
	}
	defer response.Body.Close()

	return response.StatusCode == http.StatusOK
}

// Start will start `HTTP2Network`.
func (t *HTTP2Network) Start() (err error) {
	if strings.ToLower(t.config.Endpoint.Scheme) == "http" {
		err = t.server.ListenAndServe()
	} else {
		err = t.server.ListenAndServeTLS(t.tlsCertFile, t.tlsKeyFile)
	}
	if err == http.ErrServerClosed {
		err = nil
	}

	return
}

func (t *HTTP2Network) Stop() {
	t.server.Close()
}
