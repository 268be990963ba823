package usecase

import (
	"context"
	"errors"

	"tourtable/internal/domain/user"
	"tourtable/internal/infra"
	"tourtable/internal/pkg/jwt"
	"tourtable/internal/pkg/password"
	"tourtable/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTokenGeneration    = errors.New("token generation failed")
)

type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}

type AuthUseCase interface {
	Register(ctx context.Context, credentials user.Credentials, role user.Role) (*queries.AuthorizedUserView, error)
	Login(ctx context.Context, credentials user.Credentials) (string, *queries.AuthorizedUserView, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.AuthorizedUserView, error)
}

type authUseCaseImpl struct {
	users      UserStore
	jwtService *jwt.Service
}

func NewAuthUseCase(users UserStore, jwtService *jwt.Service) AuthUseCase {
	return &authUseCaseImpl{
		users:      users,
		jwtService: jwtService,
	}
}

func (a *authUseCaseImpl) Register(ctx context.Context, credentials user.Credentials, role user.Role) (*queries.AuthorizedUserView, error) {
	hash, err := password.Hash(credentials.Password().Value())
	if err != nil {
		return nil, err
	}

	// Partner accounts come out of NewUser unapproved; they cannot manage
	// schedules until an admin flips the flag.
	u := user.NewUser(credentials.Email(), hash, role)
	if err := a.users.Create(ctx, u); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return authorizedView(u), nil
}

func (a *authUseCaseImpl) Login(ctx context.Context, credentials user.Credentials) (string, *queries.AuthorizedUserView, error) {
	u, err := a.users.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	if !u.IsActive() {
		return "", nil, ErrUserInactive
	}

	if err := password.Verify(u.PasswordHash(), credentials.Password().Value()); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(u.ID(), u.Role(), u.Approved())
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	if err := a.users.UpdateLastLogin(ctx, u.ID()); err != nil {
		return "", nil, err
	}

	return token, authorizedView(u), nil
}

func (a *authUseCaseImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.AuthorizedUserView, error) {
	u, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !u.IsActive() {
		return nil, ErrUserInactive
	}

	return authorizedView(u), nil
}

// authorizedView is what handlers render; the password hash stays behind.
func authorizedView(u *user.User) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       u.ID(),
		Email:    u.Email().Value(),
		Role:     u.Role().String(),
		Approved: u.Approved(),
		IsActive: u.IsActive(),
	}
}
