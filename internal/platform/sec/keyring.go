// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rsa"
	"errors"
	"sync/atomic"
)

// ErrKeyNotReady is returned by [Keyring.VerifyToken] before any key was installed.
var ErrKeyNotReady = errors.New("sec: verification key not received yet")

// Keyring caches the public key broadcast by the [KeyAuthority].
//
// It starts empty and becomes ready on the first [Keyring.Install]. Later
// installs overwrite the key (last write wins), which keeps redelivered key
// events harmless. Reads never take a lock.
type Keyring struct {
	key atomic.Pointer[rsa.PublicKey]
}

// NewKeyring returns an empty, not yet ready keyring.
func NewKeyring() *Keyring {
	return &Keyring{}
}

// Install decodes and caches a base64 PKIX public key.
// A malformed key leaves the current state untouched.
func (ring *Keyring) Install(publicKeyBase64 string) error {
	publicKey, err := DecodePublicKey(publicKeyBase64)
	if err != nil {
		return err
	}
	ring.key.Store(publicKey)
	return nil
}

// Ready reports whether a key has been installed.
func (ring *Keyring) Ready() bool {
	return ring.key.Load() != nil
}

// VerifyToken checks a compact token against the cached key.
func (ring *Keyring) VerifyToken(tokenString string) (*AuthClaims, error) {
	publicKey := ring.key.Load()
	if publicKey == nil {
		return nil, ErrKeyNotReady
	}
	return verifyWith(publicKey, tokenString)
}
