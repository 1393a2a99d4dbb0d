package operation

import (
	"boscoin.io/agora/lib/common/keypair"
)

func TestMakeOperation(networkID []byte, kp *keypair.Full, data BodyData) Operation {
	op, err := NewOperation(kp.Address(), data)
	if err != nil {
		panic(err)
	}
	op.Sign(kp, networkID)

	return op
}
