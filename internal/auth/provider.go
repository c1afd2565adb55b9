package auth

import (
	"context"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

type Provider interface {
	ValidateToken(ctx context.Context, token string) (*internal.User, error)
}
