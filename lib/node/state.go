package node

import (
	"fmt"
)

type State uint

const (
	StateNONE State = iota
	StateBOOTING
	StateRUNNING
	StateTERMINATING
)

func (s State) String() string {
	switch s {
	case StateNONE:
		return "NONE"
	case StateBOOTING:
		return "BOOTING"
	case StateRUNNING:
		return "RUNNING"
	case StateTERMINATING:
		return "TERMINATING"
	}

	return ""
}

func (s State) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

func (s *State) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case `"NONE"`:
		*s = StateNONE
	case `"BOOTING"`:
		*s = StateBOOTING
	case `"RUNNING"`:
		*s = StateRUNNING
	case `"TERMINATING"`:
		*s = StateTERMINATING
	default:
		return fmt.Errorf("unknown node state: %s", string(b))
	}

	return nil
}
