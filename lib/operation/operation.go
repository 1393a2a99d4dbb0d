// Package operation defines the signed envelope every mutating call
// travels in. The envelope binds a source account to a typed body; the
// hash covers the whole body and the signature covers the hash scoped
// to the network id, so an envelope accepted on one network cannot be
// replayed on another.
package operation

import (
	"encoding/json"
	"reflect"

	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/errors"
)

type OperationType string

const (
	TypeRegisterVoter   OperationType = "register-voter"
	TypeUnregisterVoter OperationType = "unregister-voter"
	TypeCreateElection  OperationType = "create-election"
	TypeAddOption       OperationType = "add-option"
	TypeVote            OperationType = "vote"
	TypePublishResults  OperationType = "publish-results"
)

func IsValidOperationType(oType string) bool {
	_, b := common.InStringArray([]string{
		string(TypeRegisterVoter),
		string(TypeUnregisterVoter),
		string(TypeCreateElection),
		string(TypeAddOption),
		string(TypeVote),
		string(TypePublishResults),
	}, oType)
	return b
}

type Operation struct {
	H Header
	B Body
}

type Header struct {
	Created   string `json:"created"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

type Body struct {
	Source string        `json:"source"`
	Type   OperationType `json:"type"`
	Data   BodyData      `json:"body"`
}

type BodyData interface {
	//
	// Check that this operation body is self consistent
	//
	// This does not touch storage; authorization and state checks run
	// later, inside the apply transaction.
	//
	// Returns:
	//   An `error` if the body is invalid, `nil` otherwise
	//
	IsWellFormed(common.Config) error
	Serialize() ([]byte, error)
}

// Targetable bodies act on a record other than the source account.
type Targetable interface {
	TargetAddress() string
}

func (b Body) MakeHash() []byte {
	return common.MustMakeObjectHash(b)
}

func (b Body) MakeHashString() string {
	return base58.Encode(b.MakeHash())
}

func NewOperation(source string, data BodyData) (op Operation, err error) {
	var t OperationType
	switch data.(type) {
	case RegisterVoter:
		t = TypeRegisterVoter
	case UnregisterVoter:
		t = TypeUnregisterVoter
	case CreateElection:
		t = TypeCreateElection
	case AddOption:
		t = TypeAddOption
	case Vote:
		t = TypeVote
	case PublishResults:
		t = TypePublishResults
	default:
		err = errors.UnknownOperationType
		return
	}

	body := Body{
		Source: source,
		Type:   t,
		Data:   data,
	}

	op = Operation{
		H: Header{
			Created: common.NowISO8601(),
			Hash:    body.MakeHashString(),
		},
		B: body,
	}

	return
}

func (op *Operation) Sign(kp keypair.KP, networkID []byte) {
	op.H.Hash = op.B.MakeHashString()
	signature, _ := keypair.MakeSignature(kp, networkID, op.H.Hash)

	op.H.Signature = base58.Encode(signature)

	return
}

var WellFormedCheckerFuncs = []common.CheckerFunc{
	CheckType,
	CheckSource,
	CheckBody,
	CheckHash,
	CheckVerifySignature,
}

func (op Operation) IsWellFormed(conf common.Config) (err error) {
	checker := &Checker{
		DefaultChecker: common.DefaultChecker{Funcs: WellFormedCheckerFuncs},
		Conf:           conf,
		Operation:      op,
	}
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return
	}

	return
}

func (op Operation) GetType() string {
	return string(op.B.Type)
}

func (op Operation) GetHash() string {
	return op.H.Hash
}

func (op Operation) Source() string {
	return op.B.Source
}

func (op Operation) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(op)
	return
}

func (op Operation) String() string {
	encoded, _ := json.MarshalIndent(op, "", "  ")
	return string(encoded)
}

type envelop struct {
	H Header
	B struct {
		Source string          `json:"source"`
		Type   OperationType   `json:"type"`
		Data   json.RawMessage `json:"body"`
	}
}

func (op *Operation) UnmarshalJSON(b []byte) (err error) {
	var oj envelop
	if err = json.Unmarshal(b, &oj); err != nil {
		return
	}

	op.H = oj.H
	op.B.Source = oj.B.Source
	op.B.Type = oj.B.Type

	var data BodyData
	if data, err = UnmarshalBodyJSON(oj.B.Type, oj.B.Data); err != nil {
		return
	}
	op.B.Data = data

	return
}

func UnmarshalBodyJSON(t OperationType, b []byte) (BodyData, error) {
	if bi, err := newBodyFromType(t); err != nil {
		return nil, err
	} else if err = json.Unmarshal(b, bi); err != nil {
		return nil, err
	} else {
		// No other way to go from interface-to-pointer to interface-to-value
		// because values within interfaces are not addressable
		return reflect.ValueOf(bi).Elem().Interface().(BodyData), nil
	}
}

// Returns: A pointer to a body with a type matching `ty`
func newBodyFromType(ty OperationType) (interface{}, error) {
	switch ty {
	case TypeRegisterVoter:
		return &RegisterVoter{}, nil
	case TypeUnregisterVoter:
		return &UnregisterVoter{}, nil
	case TypeCreateElection:
		return &CreateElection{}, nil
	case TypeAddOption:
		return &AddOption{}, nil
	case TypeVote:
		return &Vote{}, nil
	case TypePublishResults:
		return &PublishResults{}, nil
	default:
		return nil, errors.InvalidOperation
	}
}
