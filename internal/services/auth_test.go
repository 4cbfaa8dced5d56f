package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyAdminTokenPlain(t *testing.T) {
	tokens := TokenService{AdminToken: "dev-admin-token"}
	assert.True(t, tokens.VerifyAdminToken("dev-admin-token"))
	assert.False(t, tokens.VerifyAdminToken("dev-admin-tokenx"))
	assert.False(t, tokens.VerifyAdminToken(""))
	assert.False(t, TokenService{}.VerifyAdminToken(""))
}

func TestVerifyAdminTokenHashed(t *testing.T) {
	argonHash, err := HashToken("s3cret")
	require.NoError(t, err)
	assert.True(t, TokenService{AdminToken: argonHash}.VerifyAdminToken("s3cret"))
	assert.False(t, TokenService{AdminToken: argonHash}.VerifyAdminToken(argonHash))

	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, TokenService{AdminToken: string(bcryptHash)}.VerifyAdminToken("s3cret"))
	assert.False(t, TokenService{AdminToken: string(bcryptHash)}.VerifyAdminToken("wrong"))
}

func TestSessionRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tokens := TokenService{
		Secret:     []byte("secret"),
		Issuer:     "recruitsite",
		SessionTTL: time.Hour,
		Now:        func() time.Time { return now },
	}
	signed, exp, err := tokens.CreateSession()
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := tokens.ParseSession(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	other := tokens
	other.Secret = []byte("different")
	_, err = other.ParseSession(signed)
	assert.Error(t, err)

	later := tokens
	later.Now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = later.ParseSession(signed)
	assert.Error(t, err)
}
