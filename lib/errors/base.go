package errors

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
)

// Error is the failure type every layer returns and the body of API
// problem responses. Code is stable across releases, Message is
// advisory, Data carries per-instance context.
type Error struct {
	Code    uint                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data" rlp:"-"`
}

func (o *Error) Serialize() ([]byte, error) {
	return json.Marshal(o)
}

func (o *Error) Error() string {
	b, _ := o.Serialize()
	return string(b)
}

// SetData returns the receiver for chaining. Clone first when the
// error is one of the shared package values.
func (o *Error) SetData(k string, v interface{}) *Error {
	o.Data[k] = v

	return o
}

func (o *Error) Clone() *Error {
	c := *o
	c.Data = map[string]interface{}{}
	for k, v := range o.Data {
		c.Data[k] = v
	}

	return &c
}

// EncodeRLP writes the Data pairs in key order ahead of the code and
// message, so two errors differing only in Data hash differently.
func (o *Error) EncodeRLP(w io.Writer) (err error) {
	if o == nil {
		return rlp.Encode(w, []uint{})
	}

	if len(o.Data) > 0 {
		var keys []string
		for k := range o.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var d [][2]interface{}
		for _, k := range keys {
			d = append(d, [2]interface{}{k, o.Data[k]})
		}
		if err = rlp.Encode(w, d); err != nil {
			return
		}
	}

	return rlp.Encode(w, struct {
		Code    uint
		Message string
	}{
		Code:    o.Code,
		Message: o.Message,
	})
}

func NewError(code uint, message string) *Error {
	return &Error{Code: code, Message: message, Data: map[string]interface{}{}}
}
