// Package cryptox generates the SSH key pairs installed for inbox users.
package cryptox

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/legaflow/internal/common"
	"golang.org/x/crypto/ssh"
)

// DefaultKeyBits is the RSA modulus size used for inbox keys.
const DefaultKeyBits = 2048

// KeyPair holds a public key in authorized_keys format (no trailing newline)
// and the matching PKCS#1 PEM private key.
type KeyPair struct {
	Public string
	Secret string
}

// RSAKeyGenerator produces RSA key pairs of a fixed size.
type RSAKeyGenerator struct {
	Bits int
}

func NewRSAKeyGenerator(bits int) *RSAKeyGenerator {
	if bits <= 0 {
		bits = DefaultKeyBits
	}
	return &RSAKeyGenerator{Bits: bits}
}

func (g *RSAKeyGenerator) Generate() (KeyPair, error) {
	return GenerateRSAKeyPair(g.Bits)
}

// GenerateRSAKeyPair creates a new RSA key of the given size.
func GenerateRSAKeyPair(bits int) (KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate rsa key: %w", err)
	}

	pub, err := ssh.NewPublicKey(&key.PublicKey)
	if err != nil {
		return KeyPair{}, fmt.Errorf("encode public key: %w", err)
	}

	der := x509.MarshalPKCS1PrivateKey(key)
	defer common.WipeByteArray(der)

	secret := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der})

	return KeyPair{
		Public: strings.TrimSuffix(string(ssh.MarshalAuthorizedKey(pub)), "\n"),
		Secret: string(secret),
	}, nil
}
