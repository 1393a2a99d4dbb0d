package operation

import (
	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/errors"
)

type Checker struct {
	common.DefaultChecker

	Conf      common.Config
	Operation Operation
}

func CheckType(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	if !IsValidOperationType(string(checker.Operation.B.Type)) {
		err = errors.UnknownOperationType
		return
	}

	return
}

func CheckSource(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if _, err = keypair.Parse(checker.Operation.B.Source); err != nil {
		err = errors.BadPublicAddress
		return
	}

	return
}

func CheckBody(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	if checker.Operation.B.Data == nil {
		err = errors.OperationBodyInsufficient
		return
	}
	if err = checker.Operation.B.Data.IsWellFormed(checker.Conf); err != nil {
		return
	}

	return
}

func CheckHash(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	if checker.Operation.B.MakeHashString() != checker.Operation.H.Hash {
		err = errors.InvalidHash
		return
	}

	return
}

func CheckVerifySignature(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	var kp keypair.KP
	if kp, err = keypair.Parse(checker.Operation.B.Source); err != nil {
		return
	}
	err = kp.Verify(
		append(checker.Conf.NetworkID, []byte(checker.Operation.H.Hash)...),
		base58.Decode(checker.Operation.H.Signature),
	)
	if err != nil {
		err = errors.InvalidSignature
		return
	}
	return
}
