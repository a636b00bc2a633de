package identitysvc_test

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core/identity"
	identitysvc "github.com/darasahq/darasa/services/identity"
	"github.com/darasahq/darasa/storage/inmem"
	testutil "github.com/darasahq/darasa/tests"
)

func setup(t *testing.T) (identity.Verifier, identity.RevocationList) {
	t.Helper()
	db, err := inmem.Open()
	require.NoError(t, err)
	revoked := inmem.NewRevocationList(db)
	return identitysvc.NewVerifier(testutil.NewConfig(), revoked), revoked
}

// signToken signs claims with the test secret, bypassing GenerateToken so
// tests can craft expired or revocable tokens.
func signToken(t *testing.T, claims *identitysvc.Claims, secret []byte) string {
	t.Helper()
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return ss
}

func TestVerifier_Verify(t *testing.T) {
	conf := testutil.NewConfig()

	t.Run("valid token", func(t *testing.T) {
		verifier, _ := setup(t)
		token, err := identitysvc.GenerateToken(conf, "u1", "u1@test.cd")
		require.NoError(t, err)

		ident, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, identity.Identity{UserID: "u1", Email: "u1@test.cd"}, ident)
	})

	t.Run("expired token", func(t *testing.T) {
		verifier, _ := setup(t)
		token := signToken(t, &identitysvc.Claims{
			StandardClaims: jwt.StandardClaims{
				Subject:   "u1",
				ExpiresAt: time.Now().Add(-time.Hour).Unix(),
			},
		}, conf.SecretKey)

		_, err := verifier.Verify(token)
		var vErr *identity.VerificationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, identity.Expired, vErr.Kind)
	})

	t.Run("revoked token", func(t *testing.T) {
		verifier, revoked := setup(t)
		token := signToken(t, &identitysvc.Claims{
			StandardClaims: jwt.StandardClaims{
				Id:        "jti1",
				Subject:   "u1",
				ExpiresAt: time.Now().Add(time.Hour).Unix(),
			},
		}, conf.SecretKey)
		require.NoError(t, revoked.Revoke("jti1"))

		_, err := verifier.Verify(token)
		var vErr *identity.VerificationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, identity.Revoked, vErr.Kind)
	})

	t.Run("wrong secret", func(t *testing.T) {
		verifier, _ := setup(t)
		token := signToken(t, &identitysvc.Claims{
			StandardClaims: jwt.StandardClaims{
				Subject:   "u1",
				ExpiresAt: time.Now().Add(time.Hour).Unix(),
			},
		}, []byte("some-other-secret"))

		_, err := verifier.Verify(token)
		var vErr *identity.VerificationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, identity.Invalid, vErr.Kind)
	})

	t.Run("garbage token", func(t *testing.T) {
		verifier, _ := setup(t)
		_, err := verifier.Verify("not.a.token")
		var vErr *identity.VerificationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, identity.Invalid, vErr.Kind)
	})
}
