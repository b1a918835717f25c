package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestNewPasetoMaker(t *testing.T) {
	_, err := NewPasetoMaker("short")
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	m, err := NewPasetoMaker(testKey)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestPasetoMaker_RoundTrip(t *testing.T) {
	m, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	token, issued, err := m.CreateToken("discord:42", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v2.local."))

	payload, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "discord:42", payload.UserID)
	assert.Equal(t, issued.ID, payload.ID)
	assert.WithinDuration(t, issued.ExpiredAt, payload.ExpiredAt, time.Second)
}

func TestPasetoMaker_Rejects(t *testing.T) {
	m, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		token, _, err := m.CreateToken("bob", -time.Minute)
		require.NoError(t, err)
		_, err = m.VerifyToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := NewPasetoMaker(strings.Repeat("z", 32))
		require.NoError(t, err)
		token, _, err := other.CreateToken("bob", time.Minute)
		require.NoError(t, err)
		_, err = m.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty subject", func(t *testing.T) {
		_, _, err := m.CreateToken("", time.Minute)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})
}
