package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/internal/repository"
	"github.com/laporinapp/laporin/pkg/auth"
)

// ErrInvalidLogin hides whether the email or the password was wrong
var ErrInvalidLogin = errors.New("invalid email or password")

// AuthService handles login and token revocation
type AuthService struct {
	users      *repository.UserRepository
	jwtManager *auth.JWTManager
	rdb        *redis.Client
}

func NewAuthService(users *repository.UserRepository, jwtManager *auth.JWTManager, rdb *redis.Client) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		rdb:        rdb,
	}
}

// Login verifies credentials and issues a JWT
func (s *AuthService) Login(email, password string) (*model.LoginResponse, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidLogin
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// Logout blacklists the token until its natural expiry
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.rdb.Set(ctx, "blacklist:"+token, "1", s.jwtManager.Expiry()).Err()
}

// TokenLifetime exposes the JWT expiry for the login cookie
func (s *AuthService) TokenLifetime() time.Duration {
	return s.jwtManager.Expiry()
}
