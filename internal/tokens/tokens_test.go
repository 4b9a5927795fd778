package tokens

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestSignVerify_RoundTrip(t *testing.T) {
	c := NewCodec([]byte("test-secret-32-bytes-should-be-long-enough"), 15*time.Minute)

	tok, err := c.Sign("65f0c0ffee0000000000abcd")
	require.NoError(t, err)

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "65f0c0ffee0000000000abcd", claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
}

func TestSign_ClaimShape(t *testing.T) {
	c := NewCodec([]byte("shape-secret-32-bytes-xxxxxxxxxxxx"), time.Minute)
	tok, err := c.Sign("user-1")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	require.NoError(t, err)
	require.Contains(t, string(payload), `"_id":"user-1"`)
	require.Contains(t, string(payload), `"exp":`)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	ttl := 15 * time.Minute
	c := NewCodec([]byte("boundary-secret-32-bytes-xxxxxxxx"), ttl).WithClock(fixedClock(issued))
	tok, err := c.Sign("u1")
	require.NoError(t, err)

	_, err = c.WithClock(fixedClock(issued.Add(ttl - time.Second))).Verify(tok)
	require.NoError(t, err, "token should be valid one second before exp")

	_, err = c.WithClock(fixedClock(issued.Add(ttl))).Verify(tok)
	require.Error(t, err, "token must be rejected at exp")
	require.True(t, errors.Is(err, ErrInvalidToken))
	require.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestVerify_WrongSecretFails(t *testing.T) {
	signer := NewCodec([]byte("secret-one-32-bytes-xxxxxxxxxxxxxxxx"), time.Minute)
	verifier := NewCodec([]byte("different-secret-xxxxxxxxxxxxxxxx"), time.Minute)

	tok, err := signer.Sign("u3")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.True(t, errors.Is(err, ErrInvalidToken))
	require.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestVerify_Malformed(t *testing.T) {
	c := NewCodec([]byte("x"), time.Minute)
	_, err := c.Verify("not.a.jwt")
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerify_Missing(t *testing.T) {
	c := NewCodec([]byte("x"), time.Minute)
	_, err := c.Verify("")
	require.True(t, errors.Is(err, ErrInvalidToken))
	require.True(t, errors.Is(err, ErrMissingToken))
}

func TestVerify_AlgNoneRejected(t *testing.T) {
	enc := &jwt.Token{}
	headerEnc := enc.EncodeSegment([]byte(`{"alg":"none"}`))
	payloadEnc := enc.EncodeSegment([]byte(`{"_id":"u-none","exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."

	_, err := NewCodec([]byte("x"), time.Minute).Verify(tok)
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerify_TamperedPayload(t *testing.T) {
	c := NewCodec([]byte("tamper-test-secret-32-bytes-xxxxxxx"), 5*time.Minute)
	tok, err := c.Sign("user-t")
	require.NoError(t, err)

	p := jwt.NewParser()
	parts := strings.Split(tok, ".")
	payload, err := p.DecodeSegment(parts[1])
	require.NoError(t, err)
	parts[1] = (&jwt.Token{}).EncodeSegment([]byte(strings.Replace(string(payload), "user-t", "attacker", 1)))

	_, err = c.Verify(strings.Join(parts, "."))
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestSign_EmptySecret(t *testing.T) {
	_, err := NewCodec(nil, time.Minute).Sign("u")
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	c := NewCodec([]byte("describe-secret-32-bytes-xxxxxxxxx"), time.Minute).WithClock(fixedClock(issued))
	tok, err := c.Sign("u")
	require.NoError(t, err)

	_, err = c.WithClock(fixedClock(issued.Add(time.Hour))).Verify(tok)
	name, msg := Describe(err)
	require.Equal(t, "TokenExpiredError", name)
	require.Equal(t, "jwt expired", msg)

	_, err = c.Verify("")
	name, msg = Describe(err)
	require.Equal(t, "JsonWebTokenError", name)
	require.Equal(t, "jwt must be provided", msg)

	_, err = c.Verify("garbage")
	name, msg = Describe(err)
	require.Equal(t, "JsonWebTokenError", name)
	require.Equal(t, "jwt malformed", msg)

	_, err = NewCodec([]byte("other-secret-32-bytes-xxxxxxxxxxxx"), time.Minute).Verify(tok)
	name, msg = Describe(err)
	require.Equal(t, "JsonWebTokenError", name)
	require.Equal(t, "invalid signature", msg)
}
