package auth

import (
	"context"
	"errors"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

// StaticTokenProvider accepts a single configured bearer token. Development
// and single-user deployments only.
type StaticTokenProvider struct {
	Token  string
	logger internal.Logger
}

func NewStaticTokenProvider(token string, logger internal.Logger) *StaticTokenProvider {
	return &StaticTokenProvider{Token: token, logger: logger}
}

func (a *StaticTokenProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	if token == a.Token {
		return &internal.User{ID: "u1", Token: a.Token, Name: "Demo User"}, nil
	}
	a.logger.Warnf("invalid token: %s", token)
	return nil, errors.New("invalid token")
}
