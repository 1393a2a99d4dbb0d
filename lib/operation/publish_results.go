package operation

import (
	"encoding/json"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
)

type PublishResults struct {
	Election string   `json:"election"`
	Tally    []uint64 `json:"tally"`
}

func NewPublishResults(election string, tally []uint64) PublishResults {
	return PublishResults{
		Election: election,
		Tally:    tally,
	}
}

func (o PublishResults) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(o)
	return
}

func (o PublishResults) IsWellFormed(common.Config) (err error) {
	if len(o.Election) == 0 {
		return errors.OperationBodyInsufficient
	}

	// whether the length matches the option list is decided at apply
	// time; here only presence is checked
	if len(o.Tally) == 0 {
		return errors.OperationBodyInsufficient
	}

	return
}

func (o PublishResults) TargetAddress() string {
	return o.Election
}
