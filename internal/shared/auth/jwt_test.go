package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	signer, err := NewSigner("s3cret", false)
	require.NoError(t, err)

	token, err := signer.Sign("ada@example.com", "Ada")
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	a, err := NewSigner("one", false)
	require.NoError(t, err)
	b, err := NewSigner("two", false)
	require.NoError(t, err)

	token, err := a.Sign("ada@example.com", "")
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer, err := NewSigner("s3cret", false)
	require.NoError(t, err)
	issued := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issued }

	token, err := signer.Sign("ada@example.com", "")
	require.NoError(t, err)

	signer.now = func() time.Time { return issued.Add(defaultTTL + time.Minute) }
	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSignerRequiresSecretOutsideDev(t *testing.T) {
	_, err := NewSigner("", false)
	assert.Error(t, err, "staging and production must configure a secret")

	signer, err := NewSigner("", true)
	require.NoError(t, err)
	assert.NotNil(t, signer)
}
