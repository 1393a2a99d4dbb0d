package network

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"boscoin.io/agora/lib/common"
)

const (
	certHost     = "localhost"
	certValidFor = time.Hour * 24 * 30
)

// KeyGenerator makes a self signed certificate for the https server,
// mostly for unittests and local networks.
type KeyGenerator struct {
	dirPath,
	certPath,
	keyPath string
}

// NewKeyGenerator writes a fresh certificate and key under dirPath,
// unless both files exist already.
func NewKeyGenerator(dirPath, certPath, keyPath string) *KeyGenerator {
	g := &KeyGenerator{
		dirPath:  dirPath,
		certPath: filepath.Join(dirPath, certPath),
		keyPath:  filepath.Join(dirPath, keyPath),
	}

	if !common.IsExists(g.certPath) || !common.IsExists(g.keyPath) {
		if err := generateKey(g.dirPath, g.certPath, g.keyPath); err != nil {
			log.Error("failed to generate tls certificate", "dir", dirPath, "error", err)
		}
	}

	return g
}

func (g *KeyGenerator) GetCertPath() string {
	return g.certPath
}

func (g *KeyGenerator) GetKeyPath() string {
	return g.keyPath
}

// Close removes the generated files, and the directory too when
// nothing else lives in it.
func (g *KeyGenerator) Close() {
	remove(g.keyPath)
	remove(g.certPath)
	if empty, _ := common.IsEmpty(g.dirPath); empty {
		remove(g.dirPath)
	}
}

func remove(filePath string) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return
	}

	if err := os.Remove(filePath); err != nil {
		log.Error("failed to remove file", "path", filePath, "error", err)
	}
}

func generateKey(dirPath, certPath, keyPath string) error {
	if common.IsNotExists(dirPath) {
		if err := os.Mkdir(dirPath, 0755); err != nil {
			return err
		}
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return err
	}

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return err
	}

	notBefore := time.Now()
	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{"Self-Signed BOScoin Agora Certificate"},
		},
		NotBefore: notBefore,
		NotAfter:  notBefore.Add(certValidFor),

		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{certHost},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return err
	}

	certOut, err := os.Create(certPath)
	if err != nil {
		return err
	}
	pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: derBytes})
	certOut.Close()

	keyBytes, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return err
	}

	keyOut, err := os.OpenFile(keyPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	pem.Encode(keyOut, &pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes})
	keyOut.Close()

	return nil
}
