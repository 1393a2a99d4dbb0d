package network

import (
	"net/http"
	"time"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/agora/lib/common"
)

// HTTP2ErrorLog15Writer feeds the http.Server error log into log15.
type HTTP2ErrorLog15Writer struct {
	l logging.Logger
}

func (w HTTP2ErrorLog15Writer) Write(b []byte) (int, error) {
	w.l.Error("error", "error", string(b))
	return 0, nil
}

// HTTP2ResponseLog15Writer records the status and body size of a
// response so the access log can report them.
type HTTP2ResponseLog15Writer struct {
	w      http.ResponseWriter
	status int
	size   int
}

func (l *HTTP2ResponseLog15Writer) Header() http.Header {
	return l.w.Header()
}

func (l *HTTP2ResponseLog15Writer) Write(b []byte) (int, error) {
	if l.status == 0 {
		// handler wrote a body without calling WriteHeader
		l.status = http.StatusOK
	}
	size, err := l.w.Write(b)
	l.size += size
	return size, err
}

func (l *HTTP2ResponseLog15Writer) WriteHeader(s int) {
	l.w.WriteHeader(s)
	l.status = s
}

func (l *HTTP2ResponseLog15Writer) Status() int {
	return l.status
}

func (l *HTTP2ResponseLog15Writer) Size() int {
	return l.size
}

func (l *HTTP2ResponseLog15Writer) Flush() {
	f, ok := l.w.(http.Flusher)
	if ok {
		f.Flush()
	}
}

// HTTP2Log15Handler logs every request twice, once on arrival and once
// when the handler returns. The two lines share a generated id.
type HTTP2Log15Handler struct {
	log     logging.Logger
	handler http.Handler
}

// HeaderKeyFiltered lists headers kept out of the request line. Most
// of them appear as dedicated fields already.
var HeaderKeyFiltered = []string{
	"Content-Length",
	"Content-Type",
	"Accept",
	"Accept-Encoding",
	"User-Agent",
}

func filteredHeader(h http.Header) http.Header {
	filtered := http.Header{}
	for key, value := range h {
		if _, found := common.InStringArray(HeaderKeyFiltered, key); found {
			continue
		}
		filtered[key] = value
	}
	return filtered
}

// ServeHTTP was derived from github.com/gorilla/handlers/handlers.go
func (l HTTP2Log15Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid := common.GenerateUUID()

	uri := r.RequestURI
	if r.ProtoMajor == 2 && r.Method == http.MethodConnect {
		uri = r.Host
	}
	if uri == "" {
		uri = r.URL.RequestURI()
	}

	l.log.Debug(
		"request",
		"content-length", r.ContentLength,
		"content-type", r.Header.Get("Content-Type"),
		"headers", filteredHeader(r.Header),
		"host", r.Host,
		"id", uid,
		"method", r.Method,
		"proto", r.Proto,
		"referer", r.Referer(),
		"remote", r.RemoteAddr,
		"uri", uri,
		"user-agent", r.UserAgent(),
	)

	begin := time.Now()
	writer := &HTTP2ResponseLog15Writer{w: w}
	l.handler.ServeHTTP(writer, r)

	l.log.Debug(
		"response",
		"id", uid,
		"status", writer.Status(),
		"size", writer.Size(),
		"elapsed", time.Since(begin),
	)
}
