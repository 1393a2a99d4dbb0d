package operation

import (
	"encoding/json"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
)

type AddOption struct {
	Election    string `json:"election"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func NewAddOption(election, name, description string) AddOption {
	return AddOption{
		Election:    election,
		Name:        name,
		Description: description,
	}
}

func (o AddOption) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(o)
	return
}

func (o AddOption) IsWellFormed(common.Config) (err error) {
	if len(o.Election) == 0 || len(o.Name) == 0 {
		return errors.OperationBodyInsufficient
	}

	return
}

func (o AddOption) TargetAddress() string {
	return o.Election
}
