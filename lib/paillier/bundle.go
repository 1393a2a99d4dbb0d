package paillier

import (
	"encoding/base64"
	"encoding/json"
	"math/big"

	"boscoin.io/agora/lib/errors"
)

// Bundle is a voter's choice vector, one ciphertext per option. Its encoded
// form is what the node stores and returns verbatim.
type Bundle [][]byte

func (b Bundle) Encode() string {
	encoded := make([]string, len(b))
	for i, ciphertext := range b {
		encoded[i] = base64.StdEncoding.EncodeToString(ciphertext)
	}

	out, _ := json.Marshal(encoded)
	return string(out)
}

func DecodeBundle(s string) (b Bundle, err error) {
	var encoded []string
	if err = json.Unmarshal([]byte(s), &encoded); err != nil {
		return
	}

	b = make(Bundle, len(encoded))
	for i, e := range encoded {
		if b[i], err = base64.StdEncoding.DecodeString(e); err != nil {
			b = nil
			return
		}
	}

	return
}

// EncryptBundle encrypts a unit vector of `options` length with 1 at
// `choice`.
func EncryptBundle(scheme Scheme, options int, choice int) (b Bundle, err error) {
	if choice < 0 || choice >= options {
		err = errors.New("choice out of range")
		return
	}

	b = make(Bundle, options)
	for i := 0; i < options; i++ {
		value := big.NewInt(0)
		if i == choice {
			value = big.NewInt(1)
		}

		if b[i], err = scheme.Encrypt(value); err != nil {
			b = nil
			return
		}
	}

	return
}

// DecryptBundle recovers the plaintext vector of one bundle.
func DecryptBundle(scheme Scheme, b Bundle) (values []uint64, err error) {
	values = make([]uint64, len(b))
	for i, ciphertext := range b {
		var value *big.Int
		if value, err = scheme.Decrypt(ciphertext); err != nil {
			values = nil
			return
		}

		values[i] = value.Uint64()
	}

	return
}
