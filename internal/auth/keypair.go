package auth

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/nacl/sign"
)

// Keypair is an ed25519 key pair. On disk it is a JSON array of the 64
// private key bytes, the layout wallet CLIs use for keypair files.
type Keypair struct {
	Public  *[32]byte
	Private *[64]byte
}

// GenerateKeypair creates a new random key pair.
func GenerateKeypair() (*Keypair, error) {
	pub, priv, err := sign.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Keypair{Public: pub, Private: priv}, nil
}

// Address is the base58 public key, used as the player handle.
func (k *Keypair) Address() string {
	return base58.Encode(k.Public[:])
}

// Sign signs message with the private key.
func (k *Keypair) Sign(message string) string {
	return Sign(k.Private, message)
}

// Save writes the key pair to path with owner-only permissions.
func (k *Keypair) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	nums := make([]int, len(k.Private))
	for i, b := range k.Private {
		nums[i] = int(b)
	}
	data, err := json.Marshal(nums)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadKeypair reads a key pair written by Save.
func LoadKeypair(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return nil, fmt.Errorf("keypair %s: %w", path, err)
	}
	if len(nums) != 64 {
		return nil, fmt.Errorf("keypair %s: want 64 bytes, got %d", path, len(nums))
	}
	var priv [64]byte
	for i, n := range nums {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("keypair %s: byte %d out of range", path, i)
		}
		priv[i] = byte(n)
	}
	var pub [32]byte
	copy(pub[:], priv[32:])
	return &Keypair{Public: &pub, Private: &priv}, nil
}
