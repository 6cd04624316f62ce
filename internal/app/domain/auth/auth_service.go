package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Service handles registration, login and profile management.
type Service interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error)
	Login(ctx context.Context, in models.LoginInput) (*models.AuthResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	jwt    *JWTService
}

func NewServiceImpl(repo Repository, jwt *JWTService, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		jwt:    jwt,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("auth.email", in.Email),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Register"), zap.String("email", in.Email))

	hash, err := s.jwt.HashPassword(in.Password)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.Register(ctx, in.Email, in.Username, hash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Registration failed")
		return nil, err
	}

	token, expiresAt, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Username)
	if err != nil {
		l.Error("Failed to issue token after registration", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token generation failed")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	l.Info("User registered and token issued", zap.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *ServiceImpl) Login(ctx context.Context, in models.LoginInput) (*models.AuthResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("auth.email", in.Email),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Login"), zap.String("email", in.Email))

	user, hash, err := s.repo.GetByEmailWithHash(ctx, in.Email)
	if err != nil {
		// A missing account and a wrong password produce the same response.
		if errors.Is(err, models.ErrNotFound) {
			l.Warn("Login attempted for unknown email")
			span.SetStatus(codes.Error, "Invalid credentials")
			return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Login lookup failed")
		return nil, err
	}

	if !s.jwt.CheckPassword(hash, in.Password) {
		l.Warn("Login attempted with wrong password", zap.String("userID", user.ID.String()))
		span.SetStatus(codes.Error, "Invalid credentials")
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	token, expiresAt, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Username)
	if err != nil {
		l.Error("Failed to issue token", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token generation failed")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	l.Info("User logged in", zap.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "Login succeeded")
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *ServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Profile")
	defer span.End()

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Profile fetch failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Profile fetched")
	return user, nil
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "UpdateProfile")
	defer span.End()

	user, err := s.repo.UpdateProfile(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Profile update failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Profile updated")
	return user, nil
}
