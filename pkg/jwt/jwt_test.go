package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

func newTestManager() *Manager {
	return NewManager("test-secret", time.Hour, 24*time.Hour)
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager()

	pair, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAtTime(), 5*time.Second)
}

func TestParseAccessToken_RejectsRefreshToken(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.Same(t, apperrors.ErrInvalidToken, err)
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseToken(pair.AccessToken)
	assert.Same(t, apperrors.ErrTokenExpired, err)
}

func TestParseToken_Invalid(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	t.Run("签名不匹配", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour, time.Hour)
		_, err := other.ParseToken(pair.AccessToken)
		assert.Same(t, apperrors.ErrInvalidToken, err)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := m.ParseToken("not.a.token")
		assert.Same(t, apperrors.ErrInvalidToken, err)
	})

	t.Run("无过期时间", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			UserID: "u-1",
			Type:   TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer: issuer,
			},
		})
		s, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = m.ParseToken(s)
		assert.Same(t, apperrors.ErrInvalidToken, err)
	})

	t.Run("none算法", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			UserID: "u-1",
			Type:   TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.ParseToken(s)
		assert.Same(t, apperrors.ErrInvalidToken, err)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	access, claims, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)

	parsed, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "alice", parsed.Username)

	_, _, err = m.RefreshAccessToken(pair.AccessToken)
	assert.Same(t, apperrors.ErrInvalidToken, err, "Access Token不能用于刷新")
}
