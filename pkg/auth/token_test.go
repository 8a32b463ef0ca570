package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewHMACService("unit-test-secret", time.Hour)

	token, exp, err := svc.Issue(42, "kim@example.com", "student")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "kim@example.com", id.Email)
	assert.Equal(t, "student", id.UserType)
}

func TestParse_Expired(t *testing.T) {
	svc := NewHMACService("unit-test-secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.Issue(1, "", "")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	token, _, err := NewHMACService("secret-a", time.Hour).Issue(1, "", "")
	require.NoError(t, err)

	_, err = NewHMACService("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_NonNumericSubject(t *testing.T) {
	secret := []byte("unit-test-secret")
	c := jwt.RegisteredClaims{
		Subject:   "not-a-number",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	require.NoError(t, err)

	_, err = NewHMACService(string(secret), time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	c := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewHMACService("unit-test-secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssue_RequiresSecret(t *testing.T) {
	_, _, err := NewHMACService("", time.Hour).Issue(1, "", "")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
