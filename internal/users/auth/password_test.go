// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/users/auth"
)

func TestNewPassword_Policy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		message  string
	}{
		{"Valid", "Password1!", ""},
		{"ValidUnicode", "Mật-khẩu9", ""},
		{"TooShort", "Pa1!", "password must have at least 8 characters"},
		{"TooLong", "Password1!" + string(make([]byte, 70)), "password must have at most 72 bytes"},
		{"NoUpper", "password1!", "password must contain uppercase characters"},
		{"NoLower", "PASSWORD1!", "password must contain lowercase characters"},
		{"NoDigit", "Password!!", "password must contain digits"},
		{"NoSpecial", "Password12", "password must contain special characters"},
		{"Scenario", "invalidPassword", "password must contain digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password, err := auth.NewPassword(tt.password)
			if tt.message == "" {
				require.NoError(t, err)
				assert.False(t, password.IsHashed())
				return
			}
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestPassword_Hash(t *testing.T) {
	plain, err := auth.NewPassword("Password1!")
	require.NoError(t, err)

	hashed, err := plain.Hash()
	require.NoError(t, err)
	assert.True(t, hashed.IsHashed())
	assert.NotEqual(t, plain.Value(), hashed.Value())

	again, err := hashed.Hash()
	require.NoError(t, err)
	assert.Equal(t, hashed, again, "a hash must never be hashed twice")
}

func TestPassword_Match(t *testing.T) {
	plain := auth.ClearPassword("Password1!")
	hashed, err := plain.Hash()
	require.NoError(t, err)
	rehashed, err := auth.ClearPassword("Password1!").Hash()
	require.NoError(t, err)

	tests := []struct {
		name  string
		left  auth.Password
		right auth.Password
		want  bool
	}{
		{"HashedAgainstClear", hashed, plain, true},
		{"ClearAgainstHashed", plain, hashed, true},
		{"HashedAgainstWrongClear", hashed, auth.ClearPassword("Password2!"), false},
		{"ClearAgainstClear", plain, auth.ClearPassword("Password1!"), true},
		{"ClearAgainstOtherClear", plain, auth.ClearPassword("password1!"), false},
		{"HashedAgainstSameHash", hashed, auth.HashedPassword(hashed.Value()), true},
		// Salted hashes of the same password are different strings.
		{"HashedAgainstOtherHash", hashed, rehashed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.left.Match(tt.right))
		})
	}
}
