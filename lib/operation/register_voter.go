package operation

import (
	"encoding/json"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/errors"
)

type RegisterVoter struct {
	Registry string `json:"registry"`
	Address  string `json:"address"`
	Name     string `json:"name,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

func NewRegisterVoter(registry, address, name, contact string) RegisterVoter {
	return RegisterVoter{
		Registry: registry,
		Address:  address,
		Name:     name,
		Contact:  contact,
	}
}

func (o RegisterVoter) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(o)
	return
}

func (o RegisterVoter) IsWellFormed(common.Config) (err error) {
	if len(o.Registry) == 0 {
		return errors.OperationBodyInsufficient
	}

	if _, err = keypair.Parse(o.Address); err != nil {
		return errors.BadPublicAddress
	}

	return
}

func (o RegisterVoter) TargetAddress() string {
	return o.Address
}
