// Package cryptox implements the crypto engine of the slideshow pipeline.
//
// Two constructions are used on the wire:
//
//   - secretbox (XSalsa20-Poly1305) seals each file's content key under the
//     collection key, with an explicit 24-byte nonce;
//   - XChaCha20-Poly1305 seals metadata blobs and file content under the
//     content key, with the 24-byte decryption header acting as nonce.
//
// The sealing direction exists for test fixtures and mirrors the opening
// functions exactly.
package cryptox

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/dmitrijs2005/photocast/internal/common"
)

const (
	// KeySize is the length of collection and content keys.
	KeySize = 32

	// BoxNonceSize is the secretbox nonce length.
	BoxNonceSize = 24
)

// OpenSecretBox opens a secretbox-sealed message. Used to unwrap a file's
// content key with the collection key.
func OpenSecretBox(ciphertext, nonce, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrDecryption, KeySize, len(key))
	}
	if len(nonce) != BoxNonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", common.ErrDecryption, BoxNonceSize, len(nonce))
	}

	var k [KeySize]byte
	var n [BoxNonceSize]byte
	copy(k[:], key)
	copy(n[:], nonce)
	defer common.WipeByteArray(k[:])

	plaintext, ok := secretbox.Open(nil, ciphertext, &n, &k)
	if !ok {
		return nil, fmt.Errorf("%w: secretbox open failed", common.ErrDecryption)
	}
	return plaintext, nil
}

// SealSecretBox is the inverse of OpenSecretBox.
func SealSecretBox(plaintext, nonce, key []byte) ([]byte, error) {
	if len(key) != KeySize || len(nonce) != BoxNonceSize {
		return nil, fmt.Errorf("secretbox seal: bad key/nonce length")
	}

	var k [KeySize]byte
	var n [BoxNonceSize]byte
	copy(k[:], key)
	copy(n[:], nonce)
	defer common.WipeByteArray(k[:])

	return secretbox.Seal(nil, plaintext, &n, &k), nil
}

// OpenBlob opens an XChaCha20-Poly1305 sealed payload using the given
// decryption header as nonce. Used for metadata blobs and file content.
func OpenBlob(ciphertext, header, key []byte) ([]byte, error) {
	if len(header) != chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("%w: header must be %d bytes, got %d", common.ErrDecryption, chacha20poly1305.NonceSizeX, len(header))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}

	plaintext, err := aead.Open(nil, header, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return plaintext, nil
}

// SealBlob is the inverse of OpenBlob.
func SealBlob(plaintext, header, key []byte) ([]byte, error) {
	if len(header) != chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("blob seal: header must be %d bytes", chacha20poly1305.NonceSizeX)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, header, plaintext, nil), nil
}
