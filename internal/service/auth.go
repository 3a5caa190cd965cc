package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/blogpost/internal/domain"
)

const (
	audienceWeb = "web"
	audienceAPI = "api"

	sessionTTL  = 24 * time.Hour
	apiTokenTTL = 30 * 24 * time.Hour
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// AuthService handles registration, credential checks and token issuance.
// Browser sessions carry a stateless JWT; API tokens are JWTs whose jti
// must still exist in the token store.
type AuthService struct {
	users     domain.UserRepository
	tokens    domain.APITokenRepository
	hasher    PasswordHasher
	jwtSecret []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens domain.APITokenRepository, hasher PasswordHasher, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a new user account with the default role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	verr := domain.NewValidationError()
	checkString(verr, "name", in.Name, maxStringLength)
	checkEmail(verr, in.Email)
	checkNewPassword(verr, in.Password, in.PasswordConfirmation)

	if !verr.Has("email") {
		_, err := s.users.GetByEmail(ctx, in.Email)
		switch {
		case err == nil:
			verr.WithCause(domain.ErrDuplicateEmail).Add("email", emailTakenMessage)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("check email: %w", err)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			verr.WithCause(domain.ErrDuplicateEmail).Add("email", emailTakenMessage)
			return nil, verr
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials. Unknown emails and wrong passwords
// both yield domain.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Login verifies credentials and returns the user with a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.sign(jwt.MapClaims{
		"sub": strconv.FormatInt(user.ID, 10),
		"aud": audienceWeb,
	}, sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("generate jwt: %w", err)
	}
	return user, token, nil
}

// ValidateToken parses a session token and returns the user ID from the
// sub claim.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	claims, err := s.parse(tokenString, audienceWeb)
	if err != nil {
		return 0, err
	}
	return subject(claims)
}

// IssueAPIToken signs a bearer token for user and records its jti.
func (s *AuthService) IssueAPIToken(ctx context.Context, user *domain.User) (string, error) {
	record := &domain.APIToken{ID: uuid.NewString(), UserID: user.ID}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("store api token: %w", err)
	}

	token, err := s.sign(jwt.MapClaims{
		"sub": strconv.FormatInt(user.ID, 10),
		"aud": audienceAPI,
		"jti": record.ID,
	}, apiTokenTTL)
	if err != nil {
		return "", fmt.Errorf("generate jwt: %w", err)
	}
	return token, nil
}

// AuthenticateAPIToken resolves a bearer token to its user. The returned
// token ID identifies the token for RevokeAPIToken.
func (s *AuthService) AuthenticateAPIToken(ctx context.Context, tokenString string) (*domain.User, string, error) {
	claims, err := s.parse(tokenString, audienceAPI)
	if err != nil {
		return nil, "", err
	}
	userID, err := subject(claims)
	if err != nil {
		return nil, "", err
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, "", domain.ErrUnauthorized
	}

	record, err := s.tokens.GetByID(ctx, jti)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("get api token: %w", err)
	}
	if record.UserID != userID {
		return nil, "", domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", err
	}
	return user, jti, nil
}

// RevokeAPIToken invalidates a bearer token by its ID.
func (s *AuthService) RevokeAPIToken(ctx context.Context, tokenID string) error {
	if err := s.tokens.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("revoke api token: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// EnsureAdmin creates the initial administrator unless the email is
// already registered. It is safe to call on every start.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			slog.Warn("admin seed email belongs to a non-admin account", "user_id", existing.ID)
		}
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	verr := domain.NewValidationError()
	checkString(verr, "name", name, maxStringLength)
	checkEmail(verr, email)
	checkNewPassword(verr, password, password)
	if err := verr.OrNil(); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &domain.User{Name: name, Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.Info("admin account created", "user_id", admin.ID)
	return nil
}

func (s *AuthService) sign(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) parse(tokenString, audience string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithAudience(audience), jwt.WithExpirationRequired())
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func subject(claims jwt.MapClaims) (int64, error) {
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}
