package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"charavault/internal/auth"
	apperrors "charavault/internal/errors"
	"charavault/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, username, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func newTestAuthService(users *MockUserRepository, store *MockTokenStore) AuthService {
	return NewAuthService(users, auth.NewJWTService("test-secret"), store)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success folds username to lowercase", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		users.On("FindByUsername", ctx, "user1").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", ctx, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
			user := args.Get(1).(*model.User)
			user.ID = 1
			assert.Equal(t, "user1", user.Username)
			assert.NotEqual(t, "secret123", user.PasswordHash)
		}).Return(nil)

		user, err := newTestAuthService(users, store).Register(ctx, "User1", "secret123")

		assert.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
		assert.Equal(t, "user1", user.Username)
		users.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		users.On("FindByUsername", ctx, "taken").Return(&model.User{ID: 2, Username: "taken"}, nil)

		_, err := newTestAuthService(users, store).Register(ctx, "taken", "secret123")

		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate username lost insert race", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		users.On("FindByUsername", ctx, "taken").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		_, err := newTestAuthService(users, store).Register(ctx, "taken", "secret123")

		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})

	t.Run("missing fields", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)

		_, err := newTestAuthService(users, store).Register(ctx, "", "secret123")
		assert.True(t, apperrors.IsValidation(err))

		_, err = newTestAuthService(users, store).Register(ctx, "someone", "")
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)
	stored := &model.User{ID: 7, Username: "user1", PasswordHash: string(hashed)}

	t.Run("success with case-folded username", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		users.On("FindByUsername", ctx, "user1").Return(stored, nil)
		store.On("StoreRefreshToken", ctx, mock.AnythingOfType("string"), uint(7), "user1", auth.RefreshTokenExpiry).Return(nil)

		access, refresh, user, err := newTestAuthService(users, store).Login(ctx, "User1", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, uint(7), user.ID)
		store.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		users.On("FindByUsername", ctx, "user1").Return(stored, nil)

		_, _, _, err := newTestAuthService(users, store).Login(ctx, "user1", "wrong")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown username yields the same error", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		users.On("FindByUsername", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, _, _, err := newTestAuthService(users, store).Login(ctx, "ghost", "whatever")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	jwtService := auth.NewJWTService("test-secret")

	t.Run("refresh round trip", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		svc := NewAuthService(users, jwtService, store)

		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "user1")
		assert.NoError(t, err)
		store.On("GetRefreshToken", ctx, tokenID).Return(uint(7), "user1", nil)

		access, err := svc.RefreshToken(ctx, refreshToken)
		assert.NoError(t, err)

		claims, err := jwtService.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, "user1", claims.Username)
	})

	t.Run("refresh with revoked token", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		svc := NewAuthService(users, jwtService, store)

		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "user1")
		assert.NoError(t, err)
		store.On("GetRefreshToken", ctx, tokenID).Return(uint(0), "", assert.AnError)

		_, err = svc.RefreshToken(ctx, refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		svc := NewAuthService(users, jwtService, store)

		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "user1")
		assert.NoError(t, err)
		store.On("DeleteRefreshToken", ctx, tokenID).Return(nil)

		assert.NoError(t, svc.Logout(ctx, refreshToken))
		store.AssertExpectations(t)
	})

	t.Run("logout with garbage token", func(t *testing.T) {
		users := new(MockUserRepository)
		store := new(MockTokenStore)
		svc := NewAuthService(users, jwtService, store)

		err := svc.Logout(ctx, "not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
