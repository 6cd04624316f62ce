package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
)

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) Register(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, email, username, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) GetByEmailWithHash(ctx context.Context, email string) (*models.User, string, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthRepo) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	jwt := testJWTService()
	input := models.RegisterInput{Email: "amelia@example.com", Username: "amelia", Password: "hunter2hunter2"}

	t.Run("hashes the password and issues a token", func(t *testing.T) {
		user := &models.User{ID: uuid.New(), Email: input.Email, Username: input.Username}

		repo := new(MockAuthRepo)
		repo.On("Register", mock.Anything, input.Email, input.Username, mock.MatchedBy(func(hash string) bool {
			return hash != input.Password && jwt.CheckPassword(hash, input.Password)
		})).Return(user, nil).Once()

		svc := NewServiceImpl(repo, jwt, zap.NewNop())

		resp, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user, resp.User)

		claims, err := jwt.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email surfaces conflict", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("Register", mock.Anything, input.Email, input.Username, mock.Anything).
			Return(nil, models.ErrConflict).Once()

		svc := NewServiceImpl(repo, jwt, zap.NewNop())

		resp, err := svc.Register(ctx, input)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, models.ErrConflict)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	jwt := testJWTService()
	user := &models.User{ID: uuid.New(), Email: "amelia@example.com", Username: "amelia"}

	hash, err := jwt.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetByEmailWithHash", mock.Anything, user.Email).Return(user, hash, nil).Once()

		svc := NewServiceImpl(repo, jwt, zap.NewNop())

		resp, err := svc.Login(ctx, models.LoginInput{Email: user.Email, Password: "hunter2hunter2"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user, resp.User)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetByEmailWithHash", mock.Anything, user.Email).Return(user, hash, nil).Once()

		svc := NewServiceImpl(repo, jwt, zap.NewNop())

		resp, err := svc.Login(ctx, models.LoginInput{Email: user.Email, Password: "wrong"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("unknown email maps to the same error as a wrong password", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetByEmailWithHash", mock.Anything, "ghost@example.com").
			Return(nil, "", models.ErrNotFound).Once()

		svc := NewServiceImpl(repo, jwt, zap.NewNop())

		resp, err := svc.Login(ctx, models.LoginInput{Email: "ghost@example.com", Password: "whatever"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		assert.NotErrorIs(t, err, models.ErrNotFound)
	})
}
