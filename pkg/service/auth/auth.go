// Package auth handles registration, login and JWT issuance. Tokens carry
// the user id in the subject claim; everything downstream is scoped by that
// id.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/domain/user"
	"github.com/mahfuzr/hisab/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

// Service authenticates users.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// New creates an auth service.
func New(uow repository.UnitOfWork, cfg config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in dto.UserCreate) (*user.User, error) {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, user.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &user.User{Email: in.Email, Name: in.Name, PasswordHash: string(hash)}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if existing, err := uow.Users().GetByEmail(ctx, in.Email); err == nil && existing != nil {
			return user.ErrEmailTaken
		}
		return uow.Users().Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and returns a signed JWT. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.uow.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", user.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", user.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(u.ID, 10),
		"exp": time.Now().Add(s.cfg.Expiry).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", err
	}
	s.logger.Info("login successful", "user_id", u.ID)
	return signed, nil
}

// CurrentUserID extracts the authenticated user id from a verified token.
func (s *Service) CurrentUserID(token *jwt.Token) (int64, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("unexpected claims type")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("malformed subject claim")
	}
	return id, nil
}
