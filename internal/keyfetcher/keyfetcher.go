// Package keyfetcher loads the RSA key pair used to sign and verify session tokens.
package keyfetcher

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrKeyNotFound = errors.New("key is not found")

type PublicKeyFetcher interface {
	FetchPublicKey() (*rsa.PublicKey, error)
}

type PrivateKeyFetcher interface {
	FetchPrivateKey() (*rsa.PrivateKey, error)
}

// From returns PEM encoded key bytes.
type From func() ([]byte, error)

// FetchPublicKey parses the loaded key as an RSA public key.
func (f From) FetchPublicKey() (*rsa.PublicKey, error) {
	keyBytes, err := f()
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return key, nil
}

// FetchPrivateKey parses the loaded key as an RSA private key.
func (f From) FetchPrivateKey() (*rsa.PrivateKey, error) {
	keyBytes, err := f()
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return key, nil
}

// FromBase64 decodes a base64 encoded PEM value, typically taken from configuration.
func FromBase64(value string) From {
	return func() ([]byte, error) {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil, ErrKeyNotFound
		}

		keyBytes, err := base64.StdEncoding.DecodeString(trimmed)
		if err != nil {
			return nil, fmt.Errorf("decode base64 key: %w", err)
		}

		return keyBytes, nil
	}
}

// FromPEM serves already decoded PEM bytes.
func FromPEM(pemBytes []byte) From {
	return func() ([]byte, error) {
		if len(pemBytes) == 0 {
			return nil, ErrKeyNotFound
		}
		return pemBytes, nil
	}
}
