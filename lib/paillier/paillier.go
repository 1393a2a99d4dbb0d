package paillier

import (
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/roasbeef/go-go-gadget-paillier"

	"boscoin.io/agora/lib/errors"
)

const DefaultKeyBits = 2048

// Paillier implements Scheme. The private key of the underlying library
// cannot be marshaled, so the full keypair is always re-derived from a
// secret seed through a deterministic stream; holders of only the public
// key get an encrypt-only instance.
type Paillier struct {
	bits       int
	publicKey  *paillier.PublicKey
	privateKey *paillier.PrivateKey
}

// seedReader yields a deterministic byte stream from a seed, block i being
// sha512(seed || i).
type seedReader struct {
	seed    []byte
	counter uint64
	buffer  []byte
}

func newSeedReader(seed []byte) *seedReader {
	return &seedReader{seed: seed}
}

func (r *seedReader) Read(p []byte) (n int, err error) {
	for len(r.buffer) < len(p) {
		var c [8]byte
		binary.BigEndian.PutUint64(c[:], r.counter)
		r.counter++

		block := sha512.Sum512(append(r.seed, c[:]...))
		r.buffer = append(r.buffer, block[:]...)
	}

	n = copy(p, r.buffer)
	r.buffer = r.buffer[n:]

	return
}

// NewFromSeed derives the full keypair from `seed`. The same seed and bit
// size always produce the same keypair.
func NewFromSeed(seed []byte, bits int) (*Paillier, error) {
	if len(seed) < MinSeedLength {
		return nil, errors.New("paillier seed too short")
	}
	if bits < 1024 {
		return nil, errors.New("paillier key shorter than 1024 bits")
	}

	privateKey, err := paillier.GenerateKey(newSeedReader(seed), bits)
	if err != nil {
		return nil, err
	}

	return &Paillier{
		bits:       bits,
		publicKey:  &privateKey.PublicKey,
		privateKey: privateKey,
	}, nil
}

// NewEncryptOnly wraps a bare public key, for voters.
func NewEncryptOnly(publicKey *paillier.PublicKey) *Paillier {
	return &Paillier{
		bits:      publicKey.N.BitLen(),
		publicKey: publicKey,
	}
}

func (p *Paillier) Name() string {
	return fmt.Sprintf("paillier-%d", p.bits)
}

func (p *Paillier) KeyBits() int {
	return p.bits
}

func (p *Paillier) PublicKey() *paillier.PublicKey {
	return p.publicKey
}

func (p *Paillier) Encrypt(value *big.Int) ([]byte, error) {
	if value.Sign() < 0 {
		return nil, errors.New("paillier plaintext must not be negative")
	}

	return paillier.Encrypt(p.publicKey, value.Bytes())
}

func (p *Paillier) Decrypt(ciphertext []byte) (*big.Int, error) {
	if p.privateKey == nil {
		return nil, errors.New("paillier private key not available")
	}
	if len(ciphertext) < 1 {
		return nil, errors.New("paillier ciphertext is empty")
	}

	plaintext, err := paillier.Decrypt(p.privateKey, ciphertext)
	if err != nil {
		return nil, err
	}

	return new(big.Int).SetBytes(plaintext), nil
}

func (p *Paillier) Add(ciphertext1, ciphertext2 []byte) ([]byte, error) {
	if len(ciphertext1) < 1 || len(ciphertext2) < 1 {
		return nil, errors.New("paillier ciphertext is empty")
	}

	return paillier.AddCipher(p.publicKey, ciphertext1, ciphertext2), nil
}
