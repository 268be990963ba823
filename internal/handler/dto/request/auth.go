package request

import (
	"tourtable/internal/domain/user"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *LoginRequest) ToDomain() (user.Credentials, error) {
	return user.NewCredentials(r.Email, r.Password)
}

// RegisterRequest signs up a customer or partner account. Admin accounts are
// provisioned out of band, so the role binding excludes them.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=customer partner"`
}

func (r *RegisterRequest) ToDomain() (user.Credentials, user.Role, error) {
	credentials, err := user.NewCredentials(r.Email, r.Password)
	if err != nil {
		return user.Credentials{}, "", err
	}
	role, err := user.NewRole(r.Role)
	if err != nil {
		return user.Credentials{}, "", err
	}
	return credentials, role, nil
}
