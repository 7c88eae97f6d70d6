package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"smartats/internal/apperror"
	"smartats/internal/domain/user"
	"smartats/internal/pkg/jwt"
	"smartats/internal/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

const (
	MsgEmailAlreadyRegistered = "Email already registered"
	MsgInvalidCredentials     = "Invalid email or password"
	MsgInvalidRefreshToken    = "Invalid refresh token"
	MsgInvalidInput           = "A valid email and a password of at least 8 characters are required"
)

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type Result struct {
	User   user.User     `json:"user"`
	Tokens jwt.TokenPair `json:"tokens"`
}

type Usecase interface {
	Register(ctx context.Context, in RegisterInput) (user.User, error)
	Login(ctx context.Context, in LoginInput) (Result, error)
	Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error)
}

type Service struct {
	users  user.Repository
	tokens jwt.Service
	logger *zap.Logger
}

func NewService(users user.Repository, tokens jwt.Service, lg *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger.OrNop(lg).Named("auth")}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !isValidPassword(in.Password) {
		return user.User{}, apperror.Validation(MsgInvalidInput, nil)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("check email failed", zap.Error(err))
		return user.User{}, apperror.Internal("failed to check email", err)
	}
	if exists {
		return user.User{}, apperror.Conflict(MsgEmailAlreadyRegistered)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return user.User{}, apperror.Internal("failed to hash password", err)
	}

	id, err := s.users.Create(ctx, user.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		// lost a race with a concurrent registration
		exists, exErr := s.users.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return user.User{}, apperror.Conflict(MsgEmailAlreadyRegistered)
		}
		s.logger.Error("create user failed", zap.Error(err))
		return user.User{}, apperror.Internal("failed to create user", err)
	}

	created, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("load created user failed", zap.Int64("user_id", id), zap.Error(err))
		return user.User{}, apperror.Internal("failed to load user", err)
	}
	s.logger.Info("user registered", zap.Int64("user_id", id))
	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Result, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Result{}, apperror.Unauthorized(MsgInvalidCredentials)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Result{}, apperror.Unauthorized(MsgInvalidCredentials)
		}
		s.logger.Error("load user failed", zap.Error(err))
		return Result{}, apperror.Internal("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Result{}, apperror.Unauthorized(MsgInvalidCredentials)
	}

	pair, err := s.tokens.IssuePair(u.ID, u.Email)
	if err != nil {
		s.logger.Error("issue tokens failed", zap.Int64("user_id", u.ID), zap.Error(err))
		return Result{}, apperror.Internal("failed to issue tokens", err)
	}
	return Result{User: sanitizeUser(u), Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new pair. The user must still exist.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return jwt.TokenPair{}, apperror.Unauthorized(MsgInvalidRefreshToken)
	}

	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return jwt.TokenPair{}, apperror.Unauthorized(MsgInvalidRefreshToken)
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return jwt.TokenPair{}, apperror.Unauthorized(MsgInvalidRefreshToken)
		}
		s.logger.Error("load user failed", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return jwt.TokenPair{}, apperror.Internal("failed to load user", err)
	}

	pair, err := s.tokens.IssuePair(u.ID, u.Email)
	if err != nil {
		s.logger.Error("issue tokens failed", zap.Int64("user_id", u.ID), zap.Error(err))
		return jwt.TokenPair{}, apperror.Internal("failed to issue tokens", err)
	}
	return pair, nil
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= minPasswordLength
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
