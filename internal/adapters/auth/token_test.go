package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTCodec_IssueAndVerify(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret")

	token, err := issuer.Issue("user-1", "alice", []string{"user"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, roles, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, []string{"user"}, roles)
}

func TestJWTCodec_VerifyRejectsGarbage(t *testing.T) {
	_, verifier := NewJWTCodec("test-secret")

	_, _, err := verifier.Verify("not.a.token")
	assert.Error(t, err)
}

func TestJWTCodec_VerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewJWTCodec("secret-a")
	_, verifier := NewJWTCodec("secret-b")

	token, err := issuer.Issue("user-1", "alice", []string{"user"}, time.Hour)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTCodec_VerifyRejectsExpired(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret")

	token, err := issuer.Issue("user-1", "alice", []string{"user"}, -time.Minute)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTCodec_VerifyRejectsWrongAlg(t *testing.T) {
	_, verifier := NewJWTCodec("test-secret")

	// An unsigned token must not pass even with a matching payload.
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "alice",
		Roles:    []string{"admin"},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTCodec_VerifyRejectsEmptySubject(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret")

	token, err := issuer.Issue("", "alice", []string{"user"}, time.Hour)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.Error(t, err)
}
