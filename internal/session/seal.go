package session

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	saltLen = 16
	keyLen  = chacha20poly1305.KeySize

	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
)

// sealAAD binds ciphertexts to the session record.
var sealAAD = []byte(RecordName)

var errSealedTooShort = errors.New("sealed session too short")

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

func deriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, keyLen)
}

// seal encrypts plaintext with a key derived from passphrase. The output
// is salt || nonce || ciphertext; every call uses a fresh salt and nonce.
func seal(passphrase, plaintext []byte) ([]byte, error) {
	salt, err := randBytes(saltLen)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	nonce, err := randBytes(chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, saltLen+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, sealAAD), nil
}

// open reverses seal.
func open(passphrase, sealed []byte) ([]byte, error) {
	if len(sealed) < saltLen+chacha20poly1305.NonceSizeX {
		return nil, errSealedTooShort
	}
	salt := sealed[:saltLen]
	nonce := sealed[saltLen : saltLen+chacha20poly1305.NonceSizeX]
	ct := sealed[saltLen+chacha20poly1305.NonceSizeX:]
	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ct, sealAAD)
}
