package election

import (
	"fmt"
)

type State uint

const (
	StateCONFIGURING State = iota
	StateOPEN
	StateCLOSED
	StatePUBLISHED
)

func (s State) String() string {
	switch s {
	case 0:
		return "CONFIGURING"
	case 1:
		return "OPEN"
	case 2:
		return "CLOSED"
	case 3:
		return "PUBLISHED"
	}

	return ""
}

func (s State) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", s.String())), nil
}

func (s *State) UnmarshalJSON(b []byte) (err error) {
	var c uint
	switch string(b[1 : len(b)-1]) {
	case "CONFIGURING":
		c = 0
	case "OPEN":
		c = 1
	case "CLOSED":
		c = 2
	case "PUBLISHED":
		c = 3
	default:
		return fmt.Errorf("unknown state: %s", string(b))
	}

	*s = State(c)
	return
}
