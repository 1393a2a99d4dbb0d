package operation

import (
	"encoding/json"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
)

// CreateElection deploys a new election through a factory. `TimeLimit`
// is the voting window length in seconds from `Start`; it is unsigned
// on the wire, so a negative length cannot even be expressed.
type CreateElection struct {
	Factory     string `json:"factory"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start"`
	TimeLimit   uint64 `json:"time_limit"`
	PublicKey   string `json:"public_key"`
}

func NewCreateElection(factory, title, description, start string, timeLimit uint64, publicKey string) CreateElection {
	return CreateElection{
		Factory:     factory,
		Title:       title,
		Description: description,
		Start:       start,
		TimeLimit:   timeLimit,
		PublicKey:   publicKey,
	}
}

func (o CreateElection) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(o)
	return
}

func (o CreateElection) IsWellFormed(common.Config) (err error) {
	if len(o.Factory) == 0 || len(o.Title) == 0 || len(o.PublicKey) == 0 {
		return errors.OperationBodyInsufficient
	}

	if _, err = common.ParseISO8601(o.Start); err != nil {
		return errors.InvalidOperation
	}

	return
}

func (o CreateElection) TargetAddress() string {
	return o.Factory
}
