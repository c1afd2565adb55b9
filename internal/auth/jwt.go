package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

// JWTProvider validates HS256-signed bearer tokens. The subject claim becomes
// the user id; a "name" claim is carried through when present.
type JWTProvider struct {
	secret []byte
	logger internal.Logger
}

func NewJWTProvider(secret string, logger internal.Logger) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), logger: logger}
}

func (a *JWTProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		a.logger.Warnf("jwt validation failed: %v", err)
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("token has no subject")
	}
	name, _ := claims["name"].(string)
	return &internal.User{ID: sub, Token: token, Name: name}, nil
}
