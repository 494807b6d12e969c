package usecase_account

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/columns/core/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInternal           = errors.New("internal error")
	ErrInvalidInput       = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("wrong username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const (
	minUsernameLen    = 3
	maxUsernameLen    = 32
	minPasswordLen    = 4
	maxPasswordLen    = 72
	defaultSessionTTL = 24 * time.Hour
)

//go:generate mockery --name=UserRepository --output=./mocks --filename=user_repository.go
type UserRepository interface {
	CreateUser(ctx context.Context, username string, passwordHash []byte) (model.UserID, error)
	LoginUser(ctx context.Context, username string) (model.User, error)
}

//go:generate mockery --name=SessionCache --output=./mocks --filename=session_cache.go
type SessionCache interface {
	Set(key string, value string, ttl time.Duration) error
	Get(key string) (string, error)
}

// Identity is what a session token resolves to.
type Identity struct {
	UserID   model.UserID `json:"userId"`
	Username string       `json:"username"`
}

type Usecase struct {
	users    UserRepository
	sessions SessionCache
	ttl      time.Duration
	cost     int
}

func New(
	users UserRepository,
	sessions SessionCache,
	ttl *time.Duration,
) *Usecase {
	if ttl == nil || *ttl <= 0 {
		ttl = func() *time.Duration {
			d := defaultSessionTTL
			return &d
		}()
	}

	return &Usecase{
		users:    users,
		sessions: sessions,
		ttl:      *ttl,
		cost:     bcrypt.DefaultCost,
	}
}

func (u *Usecase) Register(ctx context.Context, username string, password string) (Identity, error) {
	username = strings.TrimSpace(username)
	if err := validate(username, password); err != nil {
		return Identity{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return Identity{}, errors.Join(ErrInternal, err)
	}

	id, err := u.users.CreateUser(ctx, username, hash)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			return Identity{}, ErrUserExists
		}
		return Identity{}, errors.Join(ErrInternal, err)
	}

	return Identity{UserID: id, Username: username}, nil
}

// Login checks the password and issues a session token.
func (u *Usecase) Login(ctx context.Context, username string, password string) (Identity, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Identity{}, "", ErrInvalidInput
	}

	user, err := u.users.LoginUser(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Identity{}, "", ErrInvalidCredentials
		}
		return Identity{}, "", errors.Join(ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Identity{}, "", ErrInvalidCredentials
		}
		return Identity{}, "", errors.Join(ErrInternal, err)
	}

	identity := Identity{UserID: user.ID, Username: user.Username}
	token, err := u.issueToken(identity)
	if err != nil {
		return Identity{}, "", err
	}
	return identity, token, nil
}

// ResolveToken returns the identity a live token was issued for.
func (u *Usecase) ResolveToken(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	v, err := u.sessions.Get(token)
	if err != nil {
		return Identity{}, errors.Join(ErrInternal, err)
	}
	if v == "" {
		return Identity{}, ErrInvalidToken
	}

	var identity Identity
	if err := json.Unmarshal([]byte(v), &identity); err != nil {
		return Identity{}, errors.Join(ErrInternal, err)
	}
	return identity, nil
}

func (u *Usecase) issueToken(identity Identity) (string, error) {
	v, err := json.Marshal(identity)
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}

	t := uuid.New().String()
	if err := u.sessions.Set(t, string(v), u.ttl); err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return t, nil
}

func validate(username, password string) error {
	if n := len(username); n < minUsernameLen || n > maxUsernameLen {
		return ErrInvalidInput
	}
	if n := len(password); n < minPasswordLen || n > maxPasswordLen {
		return ErrInvalidInput
	}
	return nil
}
