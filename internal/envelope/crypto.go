package envelope

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	kerrors "cfgseal/internal/errors"

	"github.com/pkg/errors"
	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	"github.com/tink-crypto/tink-go/v2/tink"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2-HMAC-SHA256 defaults
	SaltSize   = 16
	Iterations = 390000
	KeyLen     = 32 // 256 bits for AES-256

	// AES-GCM sizes, fixed by the cipher
	NonceSize = 12
	TagSize   = 16
)

// DefaultParams returns the parameters every production container uses.
func DefaultParams() Params {
	return Params{SaltSize: SaltSize, Iterations: Iterations, KeyLen: KeyLen}
}

// Validate reports whether p can drive an AES-256 key derivation.
func (p Params) Validate() error {
	if p.SaltSize <= 0 {
		return errors.Wrapf(kerrors.ErrInvalidParams, "salt size must be positive, got %d", p.SaltSize)
	}
	if p.Iterations <= 0 {
		return errors.Wrapf(kerrors.ErrInvalidParams, "iterations must be positive, got %d", p.Iterations)
	}
	if p.KeyLen != KeyLen {
		return errors.Wrapf(kerrors.ErrInvalidParams, "key length must be %d bytes, got %d", KeyLen, p.KeyLen)
	}
	return nil
}

// DeriveKey derives an AES key from a UTF-8 password using PBKDF2-HMAC-SHA256.
func DeriveKey(password, salt []byte, p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		return nil, errors.Wrap(kerrors.ErrKeyDerivation, "salt is empty")
	}
	return pbkdf2.Key(password, salt, p.Iterations, p.KeyLen, sha256.New), nil
}

// newSalt returns p.SaltSize bytes from crypto/rand.
func newSalt(p Params) ([]byte, error) {
	if p.SaltSize <= 0 {
		return nil, errors.Wrapf(kerrors.ErrInvalidParams, "salt size must be positive, got %d", p.SaltSize)
	}
	salt := make([]byte, p.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "cannot generate salt")
	}
	return salt, nil
}

// newAEAD wraps a raw AES-256 key in a single-key Tink AES-GCM keyset.
// The key uses the RAW output prefix so ciphertexts are plain
// nonce || ciphertext || tag, readable by any AES-GCM implementation.
func newAEAD(key []byte) (tink.AEAD, error) {
	handle, err := createKeysetFromKey(key)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create keyset")
	}
	primitive, err := aead.New(handle)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create aes-gcm primitive")
	}
	return primitive, nil
}

func createKeysetFromKey(key []byte) (*keyset.Handle, error) {
	keyValue := base64.StdEncoding.EncodeToString(buildAesGcmKeyValue(key))

	keysetJSON := fmt.Sprintf(`{
		"primaryKeyId": 1,
		"key": [{
			"keyData": {
				"typeUrl": "type.googleapis.com/google.crypto.tink.AesGcmKey",
				"keyMaterialType": "SYMMETRIC",
				"value": "%s"
			},
			"outputPrefixType": "RAW",
			"keyId": 1,
			"status": "ENABLED"
		}]
	}`, keyValue)

	return insecurecleartextkeyset.Read(
		keyset.NewJSONReader(strings.NewReader(keysetJSON)),
	)
}

// buildAesGcmKeyValue builds the protobuf encoding of an AesGcmKey.
// See: https://github.com/tink-crypto/tink/blob/master/proto/aes_gcm.proto
func buildAesGcmKeyValue(key []byte) []byte {
	result := []byte{}
	result = append(result, 0x08)                              // field 1 (version), varint
	result = append(result, 0x00)                              // version = 0
	result = append(result, 0x1a)                              // field 3 (key_value), length-delimited
	result = append(result, encodeVarint(uint32(len(key)))...) // key length
	result = append(result, key...)
	return result
}

func encodeVarint(v uint32) []byte {
	var buf []byte
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	buf = append(buf, byte(v))
	return buf
}
