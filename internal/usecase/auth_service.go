package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/quinielago/quiniela-api/internal/domain/user"
	idgen "github.com/quinielago/quiniela-api/internal/platform/id"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 72
	bcryptCost     = 10
)

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(principal user.Principal) (string, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Name        *string
	IsFirstTime *bool
}

// AuthSession is the register/login response: the user plus a bearer
// token.
type AuthSession struct {
	User  user.User
	Token string
}

type AuthService struct {
	userRepo user.Repository
	tokens   TokenIssuer
	idGen    idgen.Generator
	now      func() time.Time
}

func NewAuthService(userRepo user.Repository, tokens TokenIssuer, idGen idgen.Generator) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		idGen:    idGen,
		now:      time.Now,
	}
}

// Register creates an account and returns a fresh session. Duplicate
// emails are a conflict; the password policy requires an upper, a
// lower, and a digit.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthSession, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Register")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	var v violations
	if input.Name == "" {
		v.add("name", "is required")
	}
	if input.Email == "" {
		v.add("email", "is required")
	} else if !strings.Contains(input.Email, "@") {
		v.add("email", "must be a valid email address")
	}
	if reason, ok := passwordViolation(input.Password); !ok {
		v.add("password", reason)
	}
	if err := v.err(); err != nil {
		return AuthSession{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return AuthSession{}, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.idGen.NewID()
	if err != nil {
		return AuthSession{}, fmt.Errorf("generate user id: %w", err)
	}

	now := s.now().UTC()
	u := user.User{
		ID:           userID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		IsFirstTime:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return AuthSession{}, fmt.Errorf("%w: email is already registered", ErrConflict)
		}
		return AuthSession{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.Principal{UserID: u.ID, Email: u.Email})
	if err != nil {
		return AuthSession{}, fmt.Errorf("issue token: %w", err)
	}

	return AuthSession{User: u, Token: token}, nil
}

// Login verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthSession, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))

	var v violations
	if email == "" {
		v.add("email", "is required")
	}
	if password == "" {
		v.add("password", "is required")
	}
	if err := v.err(); err != nil {
		return AuthSession{}, err
	}

	u, exists, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return AuthSession{}, fmt.Errorf("get user by email: %w", err)
	}
	if !exists {
		return AuthSession{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return AuthSession{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.Principal{UserID: u.ID, Email: u.Email})
	if err != nil {
		return AuthSession{}, fmt.Errorf("issue token: %w", err)
	}

	return AuthSession{User: u, Token: token}, nil
}

// GetMe loads the caller's profile.
func (s *AuthService) GetMe(ctx context.Context, callerID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.GetMe")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	u, exists, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return u, nil
}

// UpdateProfile applies the provided fields only; nil pointers leave
// the current value untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, callerID string, input UpdateProfileInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.UpdateProfile")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	u, exists, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return user.User{}, &ValidationError{Violations: []FieldViolation{{Field: "name", Reason: "cannot be empty"}}}
		}
		u.Name = name
	}
	if input.IsFirstTime != nil {
		u.IsFirstTime = *input.IsFirstTime
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.userRepo.Update(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func passwordViolation(password string) (string, bool) {
	if n := len(password); n < passwordMinLen || n > passwordMaxLen {
		return fmt.Sprintf("must be between %d and %d characters", passwordMinLen, passwordMaxLen), false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return "must contain an uppercase letter, a lowercase letter, and a digit", false
	}
	return "", true
}
