// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing and
// verification) from the domain logic. Signing lives in [KeyAuthority], owned
// by the users service alone. Verification lives in [Keyring], which every
// other service fills from the key distribution event and injects into its
// router.
package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/socialnet/internal/platform/constants"
)

// AuthClaims represents the payload embedded inside a session token.
//
// The subject is the account email. Role and State are copied from the
// account at login time, so a block only takes effect for tokens issued
// afterwards or once the current token expires.
type AuthClaims struct {
	jwt.RegisteredClaims

	Role  UserRole     `json:"role"`
	State AccountState `json:"state"`
}

// IsBlocked reports whether the token was issued to a blocked account.
func (c *AuthClaims) IsBlocked() bool {
	return c.State == StateBlocked
}

// KeyAuthority owns the process-wide RSA keypair that signs session tokens.
//
// The key is generated at construction and never persisted. A restart
// therefore invalidates every token issued by the previous process.
type KeyAuthority struct {
	privateKey *rsa.PrivateKey
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// NewKeyAuthority generates a fresh RSA keypair.
func NewKeyAuthority(issuer string) (*KeyAuthority, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, constants.SigningKeyBits)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to generate signing key: %w", err)
	}
	return NewKeyAuthorityFromKey(privateKey, issuer), nil
}

// NewKeyAuthorityFromKey wraps an existing private key.
func NewKeyAuthorityFromKey(privateKey *rsa.PrivateKey, issuer string) *KeyAuthority {
	return &KeyAuthority{
		privateKey: privateKey,
		issuer:     issuer,
		ttl:        constants.AccessTokenTTL,
		now:        time.Now,
	}
}

// PublicKeyBase64 returns the public half as base64 of its PKIX DER encoding.
// This is the payload of the key distribution event.
func (authority *KeyAuthority) PublicKeyBase64() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(&authority.privateKey.PublicKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to encode public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// Sign issues an RS256 token for subject with a fixed lifetime.
func (authority *KeyAuthority) Sign(subject string, role UserRole, state AccountState) (string, error) {
	issuedAt := authority.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    authority.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(authority.ttl)),
		},
		Role:  role,
		State: state,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(authority.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// # Key Encoding

// DecodePublicKey parses a base64 PKIX DER public key produced by [KeyAuthority.PublicKeyBase64].
func DecodePublicKey(encoded string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("sec: public key is not base64: %w", err)
	}

	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("sec: public key is not PKIX: %w", err)
	}

	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("sec: public key is not RSA")
	}
	return publicKey, nil
}

// verifyWith checks signature and expiry of tokenString against publicKey.
func verifyWith(publicKey *rsa.PublicKey, tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("token claims are invalid")
	}

	return claims, nil
}
