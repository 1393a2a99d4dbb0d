package operation

import (
	"encoding/json"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/errors"
)

type UnregisterVoter struct {
	Registry string `json:"registry"`
	Address  string `json:"address"`
}

func NewUnregisterVoter(registry, address string) UnregisterVoter {
	return UnregisterVoter{
		Registry: registry,
		Address:  address,
	}
}

func (o UnregisterVoter) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(o)
	return
}

func (o UnregisterVoter) IsWellFormed(common.Config) (err error) {
	if len(o.Registry) == 0 {
		return errors.OperationBodyInsufficient
	}

	if _, err = keypair.Parse(o.Address); err != nil {
		return errors.BadPublicAddress
	}

	return
}

func (o UnregisterVoter) TargetAddress() string {
	return o.Address
}
