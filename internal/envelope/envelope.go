package envelope

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"cfgseal/internal/credential"
	kerrors "cfgseal/internal/errors"

	"github.com/pkg/errors"
)

// Hooks observes the slow key derivation inside Seal. Nil fields are skipped.
type Hooks struct {
	BeforeDerive func()
	AfterDerive  func()
}

// Seal derives a key from password under a fresh salt and encrypts
// plaintext with AES-256-GCM. Every call yields a new salt and nonce.
func Seal(plaintext, password []byte, p Params, h Hooks) (*Envelope, error) {
	if len(password) == 0 {
		return nil, kerrors.ErrEmptyPassphrase
	}

	salt, err := newSalt(p)
	if err != nil {
		return nil, err
	}

	if h.BeforeDerive != nil {
		h.BeforeDerive()
	}
	key, err := DeriveKey(password, salt, p)
	if err != nil {
		return nil, err
	}
	defer credential.Zero(key)
	if h.AfterDerive != nil {
		h.AfterDerive()
	}

	return sealWithKey(plaintext, salt, key)
}

// SealJSON marshals v and seals the resulting bytes.
func SealJSON(v any, password []byte, p Params, h Hooks) (*Envelope, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal payload")
	}
	defer credential.Zero(plaintext)
	return Seal(plaintext, password, p, h)
}

// sealWithKey encrypts plaintext under an already derived key. salt is
// recorded in the envelope as-is so the key can be re-derived later.
func sealWithKey(plaintext, salt, key []byte) (*Envelope, error) {
	primitive, err := newAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrEncryptFailed, err)
	}

	// Empty associated data; the decryptor passes none either.
	sealed, err := primitive.Encrypt(plaintext, []byte{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrEncryptFailed, err)
	}
	if len(sealed) < NonceSize+TagSize {
		return nil, errors.Wrapf(kerrors.ErrEncryptFailed, "cipher output too short (%d bytes)", len(sealed))
	}

	ctEnd := len(sealed) - TagSize
	return &Envelope{
		Salt:       append([]byte(nil), salt...),
		Nonce:      append([]byte(nil), sealed[:NonceSize]...),
		Tag:        append([]byte(nil), sealed[ctEnd:]...),
		Ciphertext: append([]byte(nil), sealed[NonceSize:ctEnd]...),
	}, nil
}

// Open re-derives the key from the container's salt and returns the
// plaintext after verifying the tag. It is the inverse of Seal.
func Open(c *Container, password []byte, p Params) ([]byte, error) {
	if len(password) == 0 {
		return nil, kerrors.ErrEmptyPassphrase
	}

	env, err := c.Envelope()
	if err != nil {
		return nil, err
	}

	key, err := DeriveKey(password, env.Salt, p)
	if err != nil {
		return nil, err
	}
	defer credential.Zero(key)

	primitive, err := newAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrDecryptFailed, err)
	}

	sealed := make([]byte, 0, len(env.Nonce)+len(env.Ciphertext)+len(env.Tag))
	sealed = append(sealed, env.Nonce...)
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := primitive.Decrypt(sealed, []byte{})
	if err != nil {
		return nil, fmt.Errorf("%w: wrong password or corrupted data: %w", kerrors.ErrDecryptFailed, err)
	}
	return plaintext, nil
}

// Container encodes every field with standard base64.
func (e *Envelope) Container() *Container {
	return &Container{
		Salt:       base64.StdEncoding.EncodeToString(e.Salt),
		IV:         base64.StdEncoding.EncodeToString(e.Nonce),
		Tag:        base64.StdEncoding.EncodeToString(e.Tag),
		Ciphertext: base64.StdEncoding.EncodeToString(e.Ciphertext),
	}
}

// Envelope decodes the container and checks the fixed field sizes.
func (c *Container) Envelope() (*Envelope, error) {
	salt, err := decodeField("salt", c.Salt)
	if err != nil {
		return nil, err
	}
	nonce, err := decodeField("iv", c.IV)
	if err != nil {
		return nil, err
	}
	tag, err := decodeField("tag", c.Tag)
	if err != nil {
		return nil, err
	}
	ciphertext, err := decodeField("ciphertext", c.Ciphertext)
	if err != nil {
		return nil, err
	}

	if len(salt) == 0 {
		return nil, errors.Wrap(kerrors.ErrInvalidContainer, "salt is empty")
	}
	if len(nonce) != NonceSize {
		return nil, errors.Wrapf(kerrors.ErrInvalidContainer, "iv must be %d bytes, got %d", NonceSize, len(nonce))
	}
	if len(tag) != TagSize {
		return nil, errors.Wrapf(kerrors.ErrInvalidContainer, "tag must be %d bytes, got %d", TagSize, len(tag))
	}

	return &Envelope{Salt: salt, Nonce: nonce, Tag: tag, Ciphertext: ciphertext}, nil
}

func decodeField(name, value string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.Wrapf(kerrors.ErrInvalidContainer, "invalid %s encoding: %v", name, err)
	}
	return b, nil
}
