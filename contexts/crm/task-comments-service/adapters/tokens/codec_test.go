package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
)

var testIdentity = entities.Identity{
	UserID: "8a4f1f8e-2f57-4c1e-9d1c-0e3b5a9f6a11",
	Email:  "a@x.com",
	Role:   entities.RoleUser,
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newTestCodec(t *testing.T, clock *fixedClock) Codec {
	t.Helper()
	codec, err := NewCodec(Config{Secret: []byte("test-secret"), Now: clock.Now})
	require.NoError(t, err)
	return codec
}

func TestCodecIssueAndVerifyAccess(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	token, err := codec.IssueAccess(testIdentity)
	require.NoError(t, err)

	claims, err := codec.Verify(token, entities.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, testIdentity.UserID, claims.UserID)
	assert.Equal(t, testIdentity.Email, claims.Email)
	assert.Equal(t, entities.RoleUser, claims.Role)
	assert.Equal(t, entities.TokenTypeAccess, claims.Type)
	assert.Equal(t, clock.now.Add(DefaultAccessTTL), claims.ExpiresAt)
	assert.NotEmpty(t, claims.TokenID)
}

func TestCodecRejectsTypeConfusion(t *testing.T) {
	codec := newTestCodec(t, &fixedClock{now: time.Now()})

	access, err := codec.IssueAccess(testIdentity)
	require.NoError(t, err)
	refresh, err := codec.IssueRefresh(testIdentity)
	require.NoError(t, err)

	_, err = codec.Verify(refresh, entities.TokenTypeAccess)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	_, err = codec.Verify(access, entities.TokenTypeRefresh)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestCodecTokensIssuedInSameSecondDiffer(t *testing.T) {
	codec := newTestCodec(t, &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})

	first, err := codec.IssueRefresh(testIdentity)
	require.NoError(t, err)
	second, err := codec.IssueRefresh(testIdentity)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCodecRejectsExpiredToken(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	token, err := codec.IssueAccess(testIdentity)
	require.NoError(t, err)

	clock.now = clock.now.Add(DefaultAccessTTL + time.Second)
	_, err = codec.Verify(token, entities.TokenTypeAccess)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")
}

func TestCodecRejectsForeignSignature(t *testing.T) {
	clock := &fixedClock{now: time.Now()}
	codec := newTestCodec(t, clock)
	other, err := NewCodec(Config{Secret: []byte("other-secret"), Now: clock.Now})
	require.NoError(t, err)

	token, err := other.IssueAccess(testIdentity)
	require.NoError(t, err)

	_, err = codec.Verify(token, entities.TokenTypeAccess)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestCodecRejectsOtherAlgorithms(t *testing.T) {
	codec := newTestCodec(t, &fixedClock{now: time.Now()})
	now := time.Now()
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testIdentity.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: "user",
		Type: "access",
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(token, entities.TokenTypeAccess)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestCodecRejectsMalformedPayloads(t *testing.T) {
	codec := newTestCodec(t, &fixedClock{now: time.Now()})
	now := time.Now()
	sign := func(c claims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}

	cases := map[string]string{
		"garbage":      "not-a-jwt",
		"empty":        "   ",
		"missing exp":  sign(claims{RegisteredClaims: jwt.RegisteredClaims{Subject: testIdentity.UserID}, Role: "user", Type: "access"}),
		"non uuid sub": sign(claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}, Role: "user", Type: "access"}),
		"unknown role": sign(claims{RegisteredClaims: jwt.RegisteredClaims{Subject: testIdentity.UserID, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}, Role: "admin", Type: "access"}),
	}
	original := strings.Split(sign(claims{RegisteredClaims: jwt.RegisteredClaims{Subject: testIdentity.UserID, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}, Role: "user", Type: "access"}), ".")
	escalated := strings.Split(sign(claims{RegisteredClaims: jwt.RegisteredClaims{Subject: testIdentity.UserID, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}, Role: "author", Type: "access"}), ".")
	cases["tampered payload"] = original[0] + "." + escalated[1] + "." + original[2]

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Verify(token, entities.TokenTypeAccess)
			require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
		})
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec(Config{})
	require.Error(t, err)
}
