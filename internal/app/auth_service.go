package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"postboard/internal/model"
	"postboard/internal/pkg/jwtutil"
	"postboard/internal/pkg/password"
	"postboard/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username already registered")
	ErrInvalidCredential = errors.New("incorrect username or password")
	ErrInactiveUser      = errors.New("inactive user")
	ErrUserNotFound      = errors.New("user not found")
)

const (
	minUsernameLength = 3
	maxUsernameLength = 64
	maxFullNameLength = 128
)

type AuthService struct {
	store     *repository.Store
	hasher    *password.Hasher
	tokens    *jwtutil.Issuer
	profiles  ProfileCache
	publisher ActivityPublisher

	dummyOnce sync.Once
	dummyHash string
}

// ProfileCache caches public user profiles. It is never consulted for authentication.
type ProfileCache interface {
	GetProfile(ctx context.Context, username string) (*model.User, bool, error)
	SetProfile(ctx context.Context, user *model.User) error
}

type RegisterInput struct {
	Username string
	FullName string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	User        *model.User
}

func NewAuthService(
	store *repository.Store,
	hasher *password.Hasher,
	tokens *jwtutil.Issuer,
	profiles ProfileCache,
	publisher ActivityPublisher,
) *AuthService {
	return &AuthService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		profiles:  profiles,
		publisher: publisher,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	fullName := strings.TrimSpace(input.FullName)

	n := utf8.RuneCountInString(username)
	if n < minUsernameLength || n > maxUsernameLength || strings.ContainsAny(username, " \t\r\n") {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(fullName) > maxFullNameLength {
		return nil, ErrInvalidInput
	}

	existing, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, ErrInvalidInput
	}

	user := &model.User{
		Username:     username,
		FullName:     fullName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	publish(ctx, s.publisher, model.Activity{UserID: user.ID, Kind: model.ActivityUserRegistered})
	return user, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong passwords
// both yield ErrInvalidCredential.
func (s *AuthService) Authenticate(ctx context.Context, username, pw string) (*model.User, error) {
	user, err := s.store.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		s.hasher.Verify(pw, s.placeholderHash())
		return nil, ErrInvalidCredential
	}
	if !s.hasher.Verify(pw, user.PasswordHash) {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	token, err := s.tokens.IssueDefault(user.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.tokens.DefaultTTL(),
		User:        user,
	}, nil
}

// ResolveFromToken maps a bearer token to a user that still exists and is active.
func (s *AuthService) ResolveFromToken(ctx context.Context, token string) (*model.User, error) {
	username, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func (s *AuthService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidInput
	}

	if s.profiles != nil {
		if cached, hit, err := s.profiles.GetProfile(ctx, username); err == nil && hit {
			return cached, nil
		}
	}

	user, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if s.profiles != nil {
		_ = s.profiles.SetProfile(ctx, user)
	}
	return user, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("postboard-placeholder")
	})
	return s.dummyHash
}
