package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusufkoc/hr-intake/internal/application/port"
	"github.com/yusufkoc/hr-intake/internal/domain/approval"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
)

// ErrInvalidCredentials is returned on a failed login. The message is
// identical for unknown user and wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims are the JWT claims carried by a session token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthConfig holds token signing configuration.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration

	// DefaultPassword is assigned to the seeded accounts when the
	// users table is empty at startup.
	DefaultPassword string
}

// AuthService authenticates actors and issues session tokens.
type AuthService interface {
	// Login verifies credentials and returns the user with a signed
	// token.
	Login(ctx context.Context, username, password string) (*entity.User, string, error)

	// VerifyToken parses and validates a session token.
	VerifyToken(tokenString string) (*Claims, error)

	// EnsureDefaultUsers seeds one account per role when the users
	// table is empty.
	EnsureDefaultUsers(ctx context.Context) error
}

type authServiceImpl struct {
	userRepo port.UserRepository
	cfg      AuthConfig
	logger   Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo port.UserRepository, cfg AuthConfig, logger Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

// Login verifies the password against the stored bcrypt hash and
// issues a token.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("User logged in", "username", user.Username, "role", user.Role.String())
	return user, token, nil
}

// VerifyToken validates the signature and expiry and returns the claims.
func (s *authServiceImpl) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// defaultUsers is the seed account set, one per role.
var defaultUsers = []entity.User{
	{Username: "dm.user", Name: "Department Manager", Role: approval.RoleDepartmentManager, Department: "Sales"},
	{Username: "gm.user", Name: "General Manager", Role: approval.RoleGeneralManager},
	{Username: "hr.user", Name: "HR Specialist", Role: approval.RoleHRUser},
	{Username: "hr.supervisor", Name: "HR Supervisor", Role: approval.RoleHRSupervisor},
	{Username: "admin", Name: "Administrator", Role: approval.RoleAdmin},
}

// EnsureDefaultUsers seeds the account set on a fresh database.
func (s *authServiceImpl) EnsureDefaultUsers(ctx context.Context) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	for _, u := range defaultUsers {
		user := u
		user.PasswordHash = string(hash)
		if err := s.userRepo.Create(ctx, &user); err != nil {
			return fmt.Errorf("seed user %s: %w", user.Username, err)
		}
	}

	s.logger.Info("Seeded default users", "count", len(defaultUsers))
	return nil
}
