package usecase_account

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/humanbelnik/columns/core/internal/model"
	"github.com/humanbelnik/columns/core/internal/usecase/account/mocks"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type UsecaseAccountSuite struct {
	suite.Suite
}

type resources struct {
	usecase  *Usecase
	users    *mocks.UserRepository
	sessions *mocks.SessionCache
	ctx      context.Context
}

func initResources(t provider.T) *resources {
	users := mocks.NewUserRepository(t)
	sessions := mocks.NewSessionCache(t)
	ttl := time.Hour
	usecase := New(users, sessions, &ttl)
	usecase.cost = bcrypt.MinCost

	return &resources{
		usecase:  usecase,
		users:    users,
		sessions: sessions,
		ctx:      context.Background(),
	}
}

func hashOf(t provider.T, password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	return hash
}

func (s *UsecaseAccountSuite) TestRegister(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		username      string
		password      string
		setupMocks    func(r *resources)
		expectedError error
	}{
		{
			name:     "Should store bcrypt hash of the password",
			username: " alice ",
			password: "secret",
			setupMocks: func(r *resources) {
				r.users.On("CreateUser", r.ctx, "alice", mock.MatchedBy(func(hash []byte) bool {
					return bcrypt.CompareHashAndPassword(hash, []byte("secret")) == nil
				})).Return(int64(5), nil).Once()
			},
		},
		{
			name:          "Should reject short username",
			username:      "al",
			password:      "secret",
			setupMocks:    func(r *resources) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:          "Should reject short password",
			username:      "alice",
			password:      "abc",
			setupMocks:    func(r *resources) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:          "Should reject password bcrypt cannot hash",
			username:      "alice",
			password:      strings.Repeat("x", 73),
			setupMocks:    func(r *resources) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:     "Should report taken username",
			username: "alice",
			password: "secret",
			setupMocks: func(r *resources) {
				r.users.On("CreateUser", r.ctx, "alice", mock.Anything).Return(int64(0), ErrUserExists).Once()
			},
			expectedError: ErrUserExists,
		},
		{
			name:     "Should wrap repository failure",
			username: "alice",
			password: "secret",
			setupMocks: func(r *resources) {
				r.users.On("CreateUser", r.ctx, "alice", mock.Anything).Return(int64(0), errors.New("db down")).Once()
			},
			expectedError: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)

			identity, err := r.usecase.Register(r.ctx, tc.username, tc.password)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Zero(t, identity.UserID)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, Identity{UserID: 5, Username: "alice"}, identity)
		})
	}
}

func (s *UsecaseAccountSuite) TestLogin(t provider.T) {
	t.Run("Should issue token resolvable to the user", func(t provider.T) {
		r := initResources(t)
		r.users.On("LoginUser", r.ctx, "alice").Return(model.User{
			ID:           5,
			Username:     "alice",
			PasswordHash: hashOf(t, "secret"),
		}, nil).Once()

		var stored string
		r.sessions.On("Set", mock.AnythingOfType("string"), mock.AnythingOfType("string"), time.Hour).
			Run(func(args mock.Arguments) { stored = args.String(1) }).
			Return(nil).Once()

		identity, token, err := r.usecase.Login(r.ctx, "alice", "secret")

		assert.NoError(t, err)
		assert.Equal(t, Identity{UserID: 5, Username: "alice"}, identity)
		assert.NotEmpty(t, token)

		r.sessions.On("Get", token).Return(stored, nil).Once()
		resolved, err := r.usecase.ResolveToken(token)
		assert.NoError(t, err)
		assert.Equal(t, identity, resolved)
	})

	t.Run("Should reject wrong password", func(t provider.T) {
		r := initResources(t)
		r.users.On("LoginUser", r.ctx, "alice").Return(model.User{
			ID:           5,
			Username:     "alice",
			PasswordHash: hashOf(t, "secret"),
		}, nil).Once()

		_, token, err := r.usecase.Login(r.ctx, "alice", "guess")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("Should hide unknown user behind invalid credentials", func(t provider.T) {
		r := initResources(t)
		r.users.On("LoginUser", r.ctx, "mallory").Return(model.User{}, ErrUserNotFound).Once()

		_, _, err := r.usecase.Login(r.ctx, "mallory", "secret")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Should wrap session cache failure", func(t provider.T) {
		r := initResources(t)
		r.users.On("LoginUser", r.ctx, "alice").Return(model.User{
			ID:           5,
			Username:     "alice",
			PasswordHash: hashOf(t, "secret"),
		}, nil).Once()
		r.sessions.On("Set", mock.Anything, mock.Anything, time.Hour).Return(errors.New("redis down")).Once()

		_, _, err := r.usecase.Login(r.ctx, "alice", "secret")

		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("Should require both fields", func(t provider.T) {
		r := initResources(t)

		_, _, err := r.usecase.Login(r.ctx, "alice", "")

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func (s *UsecaseAccountSuite) TestResolveToken(t provider.T) {
	t.Run("Should reject empty token without cache lookup", func(t provider.T) {
		r := initResources(t)

		_, err := r.usecase.ResolveToken("")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject expired token", func(t provider.T) {
		r := initResources(t)
		r.sessions.On("Get", "stale").Return("", nil).Once()

		_, err := r.usecase.ResolveToken("stale")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should wrap cache failure", func(t provider.T) {
		r := initResources(t)
		r.sessions.On("Get", "token").Return("", errors.New("redis down")).Once()

		_, err := r.usecase.ResolveToken("token")

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestAccountSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseAccountSuite))
}
