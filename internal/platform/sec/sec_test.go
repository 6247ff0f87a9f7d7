// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/sec"
)

func newAuthority(t *testing.T) *sec.KeyAuthority {
	t.Helper()
	authority, err := sec.NewKeyAuthority(constants.AuthIssuer)
	require.NoError(t, err)
	return authority
}

func installed(t *testing.T, authority *sec.KeyAuthority) *sec.Keyring {
	t.Helper()
	encoded, err := authority.PublicKeyBase64()
	require.NoError(t, err)

	ring := sec.NewKeyring()
	require.NoError(t, ring.Install(encoded))
	return ring
}

/*
TestKeyAuthority_SignAndVerify verifies the round trip through the distributed key.
*/
func TestKeyAuthority_SignAndVerify(t *testing.T) {
	authority := newAuthority(t)
	ring := installed(t, authority)

	token, err := authority.Sign("bob@test.com", sec.RoleUser, sec.StateUnblocked)
	require.NoError(t, err)

	claims, err := ring.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "bob@test.com", claims.Subject)
	assert.Equal(t, sec.RoleUser, claims.Role)
	assert.Equal(t, sec.StateUnblocked, claims.State)
	assert.Equal(t, constants.AuthIssuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(constants.AccessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
	assert.False(t, claims.IsBlocked())
}

/*
TestKeyring_RejectsForeignAuthority verifies that a token signed by one
authority fails against the key of another.
*/
func TestKeyring_RejectsForeignAuthority(t *testing.T) {
	signer := newAuthority(t)
	ring := installed(t, newAuthority(t))

	token, err := signer.Sign("bob@test.com", sec.RoleUser, sec.StateUnblocked)
	require.NoError(t, err)

	_, err = ring.VerifyToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

/*
TestKeyring_NotReady verifies the empty state.
*/
func TestKeyring_NotReady(t *testing.T) {
	ring := sec.NewKeyring()

	assert.False(t, ring.Ready())

	_, err := ring.VerifyToken("anything")
	assert.ErrorIs(t, err, sec.ErrKeyNotReady)
}

/*
TestKeyring_Install covers malformed input and last-write-wins replacement.
*/
func TestKeyring_Install(t *testing.T) {
	ring := sec.NewKeyring()

	assert.Error(t, ring.Install("%%% not base64"))
	assert.Error(t, ring.Install("aGVsbG8="))
	assert.False(t, ring.Ready())

	first := newAuthority(t)
	second := newAuthority(t)

	firstKey, err := first.PublicKeyBase64()
	require.NoError(t, err)
	secondKey, err := second.PublicKeyBase64()
	require.NoError(t, err)

	// Redelivery of the same key is harmless.
	require.NoError(t, ring.Install(firstKey))
	require.NoError(t, ring.Install(firstKey))
	assert.True(t, ring.Ready())

	require.NoError(t, ring.Install(secondKey))

	token, err := second.Sign("bob@test.com", sec.RoleUser, sec.StateUnblocked)
	require.NoError(t, err)
	_, err = ring.VerifyToken(token)
	assert.NoError(t, err)

	// A malformed redelivery keeps the last good key.
	assert.Error(t, ring.Install("garbage"))
	assert.True(t, ring.Ready())
}

/*
TestKeyring_Expired verifies that expired tokens are rejected.
*/
func TestKeyring_Expired(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "bob@test.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Role:  sec.RoleUser,
		State: sec.StateUnblocked,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(privateKey)
	require.NoError(t, err)

	ring := installed(t, sec.NewKeyAuthorityFromKey(privateKey, constants.AuthIssuer))

	_, err = ring.VerifyToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

/*
TestKeyring_ConcurrentAccess exercises lock-free reads racing an install.
*/
func TestKeyring_ConcurrentAccess(t *testing.T) {
	authority := newAuthority(t)
	encoded, err := authority.PublicKeyBase64()
	require.NoError(t, err)
	token, err := authority.Sign("bob@test.com", sec.RoleUser, sec.StateUnblocked)
	require.NoError(t, err)

	ring := sec.NewKeyring()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if ring.Ready() {
					_, verifyErr := ring.VerifyToken(token)
					assert.NoError(t, verifyErr)
				}
			}
		}()
	}
	require.NoError(t, ring.Install(encoded))
	wg.Wait()
}

/*
TestRole verifies the role hierarchy and flag mappings.
*/
func TestRole(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.RoleUser))

	assert.Equal(t, sec.RoleAdmin, sec.RoleOf(true))
	assert.Equal(t, sec.RoleUser, sec.RoleOf(false))
	assert.Equal(t, sec.StateBlocked, sec.StateOf(true))
	assert.Equal(t, sec.StateUnblocked, sec.StateOf(false))
}

/*
TestPasswordHash verifies bcrypt hashing helpers.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("Password1!")
	require.NoError(t, err)

	assert.True(t, sec.IsPasswordHash(hash))
	assert.False(t, sec.IsPasswordHash("Password1!"))
	assert.True(t, sec.CheckPasswordHash("Password1!", hash))
	assert.False(t, sec.CheckPasswordHash("Password2!", hash))
}
