package usecase

import (
	"tourtable/internal/domain/user"
	"tourtable/internal/pkg/jwt"

	"github.com/google/uuid"
)

// AuthContext is the single normalized shape every authenticated handler
// consumes: identity, role and the partner approval flag.
type AuthContext struct {
	UserID   uuid.UUID
	Role     user.Role
	Approved bool
}

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (AuthContext, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (AuthContext, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return AuthContext{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return AuthContext{}, err
	}

	return AuthContext{
		UserID:   claims.UserID,
		Role:     role,
		Approved: claims.Approved,
	}, nil
}
