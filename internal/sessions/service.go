package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/tasklists/tasklists-api/internal/models"
	"github.com/tasklists/tasklists-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSessionNotFound = errors.New("User not found. Make sure that the refresh token and user id are valid")
	ErrSessionExpired  = errors.New("Refresh token has expired or the session is invalid")
)

const refreshTokenBytes = 64

// Service wraps repository operations with business logic
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(r Repository, ttl time.Duration) *Service {
	return &Service{repo: r, ttl: ttl, now: time.Now}
}

// SetClock overrides the time source; used by tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// HasRefreshTokenExpired reports whether a session expiring at expiresAt
// (unix seconds) is no longer usable at now.
func HasRefreshTokenExpired(expiresAt int64, now time.Time) bool {
	return now.Unix() >= expiresAt
}

func generateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CreateSession appends a fresh refresh session to u and persists it.
// Existing sessions are left untouched.
func (s *Service) CreateSession(ctx context.Context, u *models.User) (string, error) {
	token, err := generateRefreshToken()
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	sess := models.Session{
		Token:     token,
		ExpiresAt: s.now().Add(s.ttl).Unix(),
	}
	if err := s.repo.AppendSession(ctx, u.ID, sess); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	u.Sessions = append(u.Sessions, sess)
	metrics.SessionsCreated.Inc()
	return token, nil
}

// FindByIDAndToken looks up the user by hex id and refresh token. Unparseable
// ids and missing users both yield nil without error.
func (s *Service) FindByIDAndToken(ctx context.Context, userID, token string) (*models.User, error) {
	if userID == "" || token == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	return s.repo.FindByIDAndToken(ctx, oid, token)
}

// VerifySession returns the user when token names an unexpired session of userID.
func (s *Service) VerifySession(ctx context.Context, userID, token string) (*models.User, error) {
	u, err := s.FindByIDAndToken(ctx, userID, token)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	for _, sess := range u.Sessions {
		if sess.Token == token && !HasRefreshTokenExpired(sess.ExpiresAt, now) {
			return u, nil
		}
	}
	return nil, ErrSessionExpired
}

// RevokeSession removes the refresh session. Access tokens already issued stay
// valid until they expire.
func (s *Service) RevokeSession(ctx context.Context, u *models.User, token string) error {
	if err := s.repo.RemoveSession(ctx, u.ID, token); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	kept := u.Sessions[:0]
	for _, sess := range u.Sessions {
		if sess.Token != token {
			kept = append(kept, sess)
		}
	}
	u.Sessions = kept
	return nil
}
