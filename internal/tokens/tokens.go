package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken wraps every verification failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingToken is returned (wrapped) when no token was supplied.
	ErrMissingToken = errors.New("jwt must be provided")
)

// Claims carried by an access token. The user id is serialized as "_id".
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// Codec signs and verifies short-lived HS256 access tokens with a single
// process-wide secret handed in at construction.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the codec using the given clock for issuing and
// validating tokens.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL is the lifetime of tokens issued by Sign.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Sign creates a signed access token for the user.
func (c *Codec) Sign(userID string) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("signing secret is empty")
	}
	now := c.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses the token and checks signature, signing method and expiry.
// A token is rejected once now >= exp.
func (c *Codec) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingToken)
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing _id claim", ErrInvalidToken)
	}
	return claims, nil
}

// Describe maps a verification error to the {name, message} pair clients
// receive: expired tokens are reported as TokenExpiredError, every other
// failure as JsonWebTokenError.
func Describe(err error) (name, message string) {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "TokenExpiredError", "jwt expired"
	case errors.Is(err, ErrMissingToken):
		return "JsonWebTokenError", "jwt must be provided"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "JsonWebTokenError", "invalid signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "JsonWebTokenError", "jwt malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "JsonWebTokenError", "invalid algorithm"
	}
	return "JsonWebTokenError", err.Error()
}
