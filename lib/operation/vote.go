package operation

import (
	"encoding/json"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
)

// Vote carries the voter's encrypted choice bundle. The node never
// looks inside `Bundle`; it only checks it is present.
type Vote struct {
	Election string `json:"election"`
	Bundle   string `json:"bundle"`
}

func NewVote(election, bundle string) Vote {
	return Vote{
		Election: election,
		Bundle:   bundle,
	}
}

func (o Vote) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(o)
	return
}

func (o Vote) IsWellFormed(common.Config) (err error) {
	if len(o.Election) == 0 || len(o.Bundle) == 0 {
		return errors.OperationBodyInsufficient
	}

	return
}

func (o Vote) TargetAddress() string {
	return o.Election
}
