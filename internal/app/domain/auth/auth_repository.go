package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
	database "github.com/ngandinhtk/tripwise/internal/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the contract for account and profile persistence.
type Repository interface {
	Register(ctx context.Context, email, username, hashedPassword string) (*models.User, error)
	GetByEmailWithHash(ctx context.Context, email string) (*models.User, string, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool database.Querier
}

func NewRepositoryImpl(pgpool database.Querier, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id, email, username, display_name, home_country, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row, u *models.User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.HomeCountry, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt,
	)
}

func (r *RepositoryImpl) Register(ctx context.Context, email, username, hashedPassword string) (*models.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "Register", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Register"), zap.String("email", email))
	l.Debug("Registering new user")

	var user models.User
	query := `
        INSERT INTO users (email, username, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, Now(), Now())
        RETURNING ` + userColumns

	err := scanUser(r.pgpool.QueryRow(ctx, query, email, username, hashedPassword), &user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			l.Warn("Attempted to register duplicate email or username", zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Duplicate account")
			return nil, fmt.Errorf("account already exists: %w", models.ErrConflict)
		}
		l.Error("Failed to insert new user", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error registering user: %w", err)
	}

	l.Info("User registered", zap.String("userID", user.ID.String()))
	span.SetAttributes(attribute.String("db.user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return &user, nil
}

func (r *RepositoryImpl) GetByEmailWithHash(ctx context.Context, email string) (*models.User, string, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetByEmailWithHash", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var user models.User
	var hash string
	query := `
        SELECT ` + userColumns + `, password_hash
        FROM users
        WHERE email = $1`

	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Username, &user.DisplayName, &user.HomeCountry,
		&user.AvatarURL, &user.CreatedAt, &user.UpdatedAt, &hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, "", fmt.Errorf("user not found: %w", models.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, "", fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return &user, hash, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := scanUser(r.pgpool.QueryRow(ctx, query, userID), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user %s not found: %w", userID, models.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return &user, nil
}

func (r *RepositoryImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "UpdateProfile"), zap.String("userID", userID.String()))

	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	if params.DisplayName != nil {
		setClauses = append(setClauses, fmt.Sprintf("display_name = $%d", argID))
		args = append(args, params.DisplayName)
		argID++
	}
	if params.HomeCountry != nil {
		setClauses = append(setClauses, fmt.Sprintf("home_country = $%d", argID))
		args = append(args, params.HomeCountry)
		argID++
	}
	if params.AvatarURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("avatar_url = $%d", argID))
		args = append(args, params.AvatarURL)
		argID++
	}

	if len(setClauses) == 0 {
		l.Info("No fields provided to update profile")
		span.SetStatus(codes.Ok, "No update fields")
		return r.GetByID(ctx, userID)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(setClauses, ", "), argID)

	var user models.User
	err := scanUser(r.pgpool.QueryRow(ctx, query, args...), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user %s not found: %w", userID, models.ErrNotFound)
		}
		l.Error("Failed to update profile", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating profile: %w", err)
	}

	l.Info("Profile updated")
	span.SetStatus(codes.Ok, "Profile updated")
	return &user, nil
}
