package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"animedrop/internal/config"
	"animedrop/internal/logging"
	"animedrop/internal/microservices/http-api/models"
	"animedrop/internal/microservices/http-api/repository"
	"animedrop/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const tokenIssuer = "animedrop"

// Claims is the JWT payload issued at register and login.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RegisterInput: fields accepted at registration
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (token string, user *models.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *models.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.JWTExpiry,
		now:       time.Now,
	}
}

// Register creates the account and returns a token for it.
func (s *authService) Register(ctx context.Context, in RegisterInput) (string, *models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || in.Password == "" {
		return "", nil, Validationf("Please provide username, email and password")
	}
	if err := fieldValidator.Var(email, "email"); err != nil {
		return "", nil, ErrInvalidEmail
	}

	// Check if email exists
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	// Check if user exists
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return "", nil, ErrNameInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	hashedPassword, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	// the unique indexes still catch a concurrent registration
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch repository.DuplicateConstraint(err) {
		case "idx_users_email":
			return "", nil, ErrEmailInUse
		case "idx_users_username":
			return "", nil, ErrNameInUse
		}
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("user registered")
	return token, user, nil
}

// Login authenticates by email and password.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, err
		}
		// same bcrypt cost as a wrong password so response time leaks nothing
		auth.BurnPasswordCheck(password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CurrentUser loads the account behind a validated token. A token whose user
// no longer exists is rejected as unauthenticated.
func (s *authService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrUnauthenticated, "Not authorized, user not found")
		}
		return nil, err
	}
	return user, nil
}
