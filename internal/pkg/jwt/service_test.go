package jwt

import (
	"testing"
	"time"

	"smartats/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *HMACService {
	return NewHMACService(config.JWTConfig{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
	}, "smartats")
}

func TestIssuePair_RoundTrip(t *testing.T) {
	s := newTestService()

	pair, err := s.IssuePair(42, "a@b.io")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	access, err := s.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), access.UserID)
	assert.Equal(t, "a@b.io", access.Email)
	assert.Equal(t, "42", access.Subject)

	refresh, err := s.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), refresh.UserID)
	assert.Empty(t, refresh.Email)
}

func TestParse_RejectsWrongKind(t *testing.T) {
	s := newTestService()
	pair, err := s.IssuePair(1, "")
	require.NoError(t, err)

	_, err = s.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = s.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_Expired(t *testing.T) {
	s := newTestService()
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	pair, err := s.IssuePair(1, "")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(time.Hour) }
	_, err = s.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = s.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, err := newTestService().ParseAccess("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_OtherIssuer(t *testing.T) {
	other := NewHMACService(config.JWTConfig{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessExpiresIn:  time.Minute,
		RefreshExpiresIn: time.Hour,
	}, "someone-else")
	pair, err := other.IssuePair(1, "")
	require.NoError(t, err)

	_, err = newTestService().ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
