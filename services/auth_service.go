package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food-order/models"
	"food-order/utils"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
}

type AuthService struct {
	users     UserStore
	tokens    *utils.TokenManager
	passwords *utils.PasswordHasher
}

func NewAuthService(users UserStore, tokens *utils.TokenManager, passwords *utils.PasswordHasher) *AuthService {
	return &AuthService{users: users, tokens: tokens, passwords: passwords}
}

var errBadCredentials = fmt.Errorf("%w: invalid email or password", models.ErrInvalidArgument)

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if name == "" || email == "" || req.Password == "" {
		return nil, "", invalid("please provide name, email, and password")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", invalid("email already registered")
	}

	hashedPassword, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{Name: name, Email: email, Password: hashedPassword}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, models.ErrNotFound) {
		return nil, "", errBadCredentials
	}
	if err != nil {
		return nil, "", err
	}

	valid, err := s.passwords.Verify(user.Password, req.Password)
	if err != nil || !valid {
		return nil, "", errBadCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Profile(ctx context.Context, caller models.Identity) (*models.User, error) {
	if caller.UserID <= 0 {
		return nil, models.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, caller.UserID)
}

// Authenticate resolves a bearer token to the caller's identity.
func (s *AuthService) Authenticate(token string) (models.Identity, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", models.ErrUnauthenticated, err)
	}
	return models.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
