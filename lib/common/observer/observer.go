package observer

import (
	"strings"

	"github.com/GianlucaGuarini/go-observable"
)

var VoterObserver = observable.New()
var ElectionObserver = observable.New()
var OperationObserver = observable.New()

var ResourceObserver = observable.New()

const (
	ResourceVoter     = "vt"
	ResourceElection  = "el"
	ResourceBallot    = "bt"
	ResourceOperation = "op"
	ConditionAll      = "*"
	ConditionSource   = "source"
	ConditionType     = "type"
	ConditionOpHash   = "ophash"
	ConditionAddress  = "address"
	ConditionRegistry = "registry"
	ConditionFactory  = "factory"
	ConditionElection = "election"
)

type Event struct {
	Resource  string `json:"resource"`
	Condition string `json:"condition"`
	Id        string `json:"id"`
}

func NewEvent(resource, condition, id string) Event {
	return Event{
		Resource:  resource,
		Condition: condition,
		Id:        id,
	}
}
func (e Event) String() string {
	toStr := e.Resource + "-"
	if e.Condition == ConditionAll {
		toStr += e.Condition
	} else {
		toStr += e.Condition + "="
		toStr += e.Id
	}
	return toStr
}

type Subscribe struct {
	Events []Event `json:"resources"`
}

func NewSubscribe(events ...Event) Subscribe {
	s := Subscribe{}
	for _, e := range events {
		s.Events = append(s.Events, e)
	}
	return s
}

// String joins the events with spaces, which is how go-observable
// subscribes one handler to several events at once.
func (s Subscribe) String() string {
	events := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		events = append(events, e.String())
	}
	return strings.Join(events, " ")
}
