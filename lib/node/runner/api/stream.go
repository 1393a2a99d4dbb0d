package api

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/agora/lib/common/observer"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/network/httputils"
)

// DefaultContentType is the content type of rendered stream payloads.
const DefaultContentType = "application/json"

// PostSubscribeHandler opens one chunked response for a batch of
// subscriptions. The body is a json array of subscribe documents, each
// naming the resources and conditions to watch.
func (api NetworkHandlerAPI) PostSubscribeHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if !httputils.IsEventStream(r) {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}
	var subscribes []observer.Subscribe
	if err := json.Unmarshal(body, &subscribes); err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	var events []string
	for _, s := range subscribes {
		for _, e := range s.Events {
			events = append(events, e.String())
		}
	}
	if len(events) < 1 {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	es := NewEventStream(w, r, renderEventStream, DefaultContentType)
	es.Render(nil)
	es.Run(observer.ResourceObserver, events...)
}

// EventStream writes one json payload per line into a chunked response
// whenever a subscribed event fires.
type EventStream struct {
	contentType string
	renderFunc  RenderFunc
	request     *http.Request
	writer      http.ResponseWriter
	flusher     http.Flusher
	err         error
	rendered    bool
	stop        chan struct{}
}

// RenderFunc turns the trigger arguments of an event into one payload.
// args[0] is the event name, args[1] the value.
type RenderFunc func(args ...interface{}) ([]byte, error)

// RenderJSONFunc renders args[1] as plain json.
var RenderJSONFunc = func(args ...interface{}) ([]byte, error) {
	if len(args) <= 1 {
		return nil, fmt.Errorf("render: value is empty")
	}
	v := args[1]
	if v == nil {
		return nil, nil
	}

	return json.Marshal(v)
}

// NewDefaultEventStream returns an EventStream with RenderJSONFunc and
// DefaultContentType.
func NewDefaultEventStream(w http.ResponseWriter, r *http.Request) *EventStream {
	return NewEventStream(w, r, RenderJSONFunc, DefaultContentType)
}

// NewEventStream makes an EventStream; the response writer must
// support flushing.
func NewEventStream(w http.ResponseWriter, r *http.Request, renderFunc RenderFunc, ct string) *EventStream {
	es := &EventStream{
		request:     r,
		writer:      w,
		renderFunc:  renderFunc,
		contentType: ct,
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		es.err = fmt.Errorf("http: can't do chunked response")
	} else {
		es.flusher = flusher
	}

	return es
}

// Render writes one payload right away, before any event fires. The
// handlers use it to send the current state ahead of the updates.
func (s *EventStream) Render(args ...interface{}) {
	if s.err != nil {
		return
	}

	renderArgs := append([]interface{}{"pre"}, args...)
	bs, err := s.renderFunc(renderArgs...)
	if err != nil {
		bs = s.errMessage(err)
	}

	if !s.rendered {
		s.writer.Header().Set("Content-Type", s.contentType)
		s.rendered = true
	}

	fmt.Fprintf(s.writer, "%s\n", bs)
	s.flusher.Flush()
}

// Run observes events until the client goes away.
//
// 	event := fmt.Sprintf("address-%s", address)
// 	es := NewDefaultEventStream(w, r)
// 	es.Render(vt)
// 	es.Run(observer.VoterObserver, event)
func (s *EventStream) Run(ob *observable.Observable, events ...string) {
	s.Start(ob, events...)()
}

// Start subscribes on ob and returns the serving loop. Most handlers
// call Run instead.
func (s *EventStream) Start(ob *observable.Observable, events ...string) func() {
	if s.err != nil {
		return func() {}
	}

	event := strings.Join(events, " ")
	msg := make(chan []byte)
	s.stop = make(chan struct{})

	onFunc := func(args ...interface{}) {
		var payload []byte
		var err error

		if len(args) > 1 {
			payload, err = s.renderFunc(args...)
		} else {
			payload, err = s.renderFunc(append([]interface{}{event}, args...)...)
		}
		if err != nil {
			payload = s.errMessage(err)
		}

		select {
		case msg <- payload:
		case <-s.stop:
		}
	}
	ob.On(event, onFunc)

	return func() {
		defer ob.Off(event, onFunc)

		for {
			select {
			case payload := <-msg:
				fmt.Fprintf(s.writer, "%s\n", payload)
				s.flusher.Flush()
			case <-s.request.Context().Done():
				close(s.stop)
				return
			}
		}
	}
}

func (s *EventStream) errMessage(err error) []byte {
	p := httputils.NewErrorProblem(err, httputils.StatusCode(err))
	b, err := json.Marshal(p)
	if err != nil {
		return []byte{}
	}

	return b
}
