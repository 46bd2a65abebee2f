// Package anonymous issues short-lived guest identities so signed-out
// visitors get a server-side cart before they authenticate.
package anonymous

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	tokens     *tokenManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New() *Service {
	return &Service{
		tokens:     newTokenManager(),
		accessTTL:  3 * time.Hour,
		refreshTTL: 30 * 24 * time.Hour,
	}
}

func (s *Service) Issue(ctx context.Context) (accessToken, refreshToken, anonymousID string, err error) {
	anonID := uuid.NewString()
	accessToken, err = s.tokens.Issue(anonID, s.accessTTL)
	if err != nil {
		return "", "", "", err
	}
	refreshToken, err = s.tokens.Issue(anonID, s.refreshTTL)
	if err != nil {
		return "", "", "", err
	}
	return accessToken, refreshToken, anonID, nil
}

func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.AnonymousID, nil
}

func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
