package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-job-board/internal/model"
	"go-job-board/pkg/apierror"
)

// UserStore is the credential-store contract the auth service depends on.
// *repository.UserRepository satisfies it; tests supply an in-memory fake.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	Count(ctx context.Context) (int, error)
}

type AuthService struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(secret string, tokenTTL time.Duration, users UserStore) (*AuthService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}

	return &AuthService{users: users, secret: []byte(secret), tokenTTL: tokenTTL}, nil
}

// Register creates a user with the default role. The duplicate check runs
// before the insert; the store's unique constraint backs it up under races.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) error {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return wrapInternal("Error registering user", err)
	}
	if exists {
		return apierror.New("DUPLICATE_USER", "User already exists", "", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return wrapInternal("Error registering user", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return wrapInternal("Error registering user", err)
	}
	return nil
}

// Login verifies the credentials and issues a fresh bearer token. Nothing
// is persisted; the token itself is the whole session.
func (s *AuthService) Login(ctx context.Context, email string, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", wrapInternal("Error logging in", err)
	}

	if !user.CheckPassword(password) {
		return "", apierror.New("INVALID_CREDENTIALS", "Invalid credentials", "", http.StatusUnauthorized)
	}

	return s.issueToken(user)
}

// Profile returns the record behind an already-verified identity, password
// excluded. The account may have been deleted since the token was issued.
func (s *AuthService) Profile(ctx context.Context, userID string) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Profile{}, wrapInternal("Error fetching user profile", err)
	}

	return user.Profile(), nil
}

func (s *AuthService) issueToken(user model.User) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", wrapInternal("Error logging in", err)
	}
	return signed, nil
}

// VerifyToken rejects anything malformed, tampered with, or expired. Expiry
// is the only invalidation mechanism; there is no revocation list.
func (s *AuthService) VerifyToken(tokenString string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	if claims.UserID == "" {
		return nil, model.ErrInvalidToken
	}

	return claims, nil
}

// EnsureDefaultAdmin seeds an admin account when the user table is empty so
// a fresh deployment is reachable.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, email string, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	admin := model.User{
		ID:        uuid.NewString(),
		Name:      "Administrator",
		Email:     email,
		Phone:     "",
		Role:      model.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}

	return s.users.Create(ctx, admin)
}

// wrapInternal passes APIErrors through untouched and downgrades everything
// else to a 500 whose details carry the raw store/hash message.
func wrapInternal(message string, err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return err
	}

	return apierror.New("INTERNAL", message, err.Error(), http.StatusInternalServerError)
}
