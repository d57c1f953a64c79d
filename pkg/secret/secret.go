// Package secret implements envelope encryption for ArtifactStepSecret
// values: confidentiality from observers of the wire and of at-rest
// archives, with plaintext only ever reconstructed inside a Worker
// sandbox. Per the project's design notes, this supersedes a legacy
// RSA-padding scheme with known weaknesses in favor of a modern hybrid
// scheme: an ephemeral X25519 key agreement feeding a ChaCha20-Poly1305
// AEAD, so every encryption uses a fresh key and carries its own
// integrity tag.
package secret

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

// GenerateKeyPair returns a new X25519 private/public key pair.
func GenerateKeyPair() (*ecdh.PrivateKey, error) {
	return ecdh.X25519().GenerateKey(rand.Reader)
}

// LoadPrivateKeyFile reads a raw 32-byte X25519 scalar from path, the
// form GenerateKeyPair's PrivateKey.Bytes() produces.
func LoadPrivateKeyFile(path string) (*ecdh.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key file: %w", err)
	}
	key, err := ecdh.X25519().NewPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext for recipientPub. The output is
// [ephemeralPubKey(32) | nonce(12) | ciphertext+tag]; the recipient
// needs only their private key to open it, and each call uses a fresh
// ephemeral key so the same plaintext never produces the same bytes
// twice.
func Encrypt(recipientPub *ecdh.PublicKey, plaintext []byte) ([]byte, error) {
	curve := ecdh.X25519()

	ephemeral, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral key: %w", err)
	}

	shared, err := ephemeral.ECDH(recipientPub)
	if err != nil {
		return nil, fmt.Errorf("ecdh: %w", err)
	}

	aead, err := chacha20poly1305.New(shared)
	if err != nil {
		return nil, fmt.Errorf("init aead: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ephemeralPub := ephemeral.PublicKey().Bytes()

	sealed := aead.Seal(nil, nonce, plaintext, ephemeralPub)

	out := make([]byte, 0, len(ephemeralPub)+len(nonce)+len(sealed))
	out = append(out, ephemeralPub...)
	out = append(out, nonce...)
	out = append(out, sealed...)

	return out, nil
}

// Decrypt opens data previously produced by Encrypt for recipientPriv.
func Decrypt(recipientPriv *ecdh.PrivateKey, data []byte) ([]byte, error) {
	curve := ecdh.X25519()
	pubLen := 32

	if len(data) < pubLen+chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	ephemeralPubBytes := data[:pubLen]
	nonce := data[pubLen : pubLen+chacha20poly1305.NonceSize]
	sealed := data[pubLen+chacha20poly1305.NonceSize:]

	ephemeralPub, err := curve.NewPublicKey(ephemeralPubBytes)
	if err != nil {
		return nil, fmt.Errorf("parse ephemeral public key: %w", err)
	}

	shared, err := recipientPriv.ECDH(ephemeralPub)
	if err != nil {
		return nil, fmt.Errorf("ecdh: %w", err)
	}

	aead, err := chacha20poly1305.New(shared)
	if err != nil {
		return nil, fmt.Errorf("init aead: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, sealed, ephemeralPubBytes)
	if err != nil {
		return nil, fmt.Errorf("open sealed secret: %w", err)
	}

	return plaintext, nil
}
