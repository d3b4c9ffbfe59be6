package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/proplist/realty-api/internal/domain"
	"github.com/proplist/realty-api/internal/dto"
	"github.com/proplist/realty-api/internal/repository"
	"github.com/proplist/realty-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProductKeyRequired = errors.New("product key required")
	ErrInvalidProductKey  = errors.New("invalid product key")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthServiceConfig holds configuration for AuthService. Both secrets are
// read-only after startup and injected here rather than read from the
// environment at call time.
type AuthServiceConfig struct {
	JWTSecret        string
	ProductKeySecret string
	TokenExpiry      time.Duration
	BcryptCost       int
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Signup creates an account with the given role and returns a token.
	// Non-buyer roles must present a valid product key.
	Signup(ctx context.Context, req *dto.SignupRequest, role domain.Role) (*dto.AuthResponse, error)
	// Signin authenticates an existing account and returns a token
	Signin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error)
	// GenerateProductKey mints a product key for a prospective privileged
	// account, to be distributed out-of-band
	GenerateProductKey(ctx context.Context, email string, role domain.Role) (string, error)
	// ValidateToken verifies a bearer token and returns its claims
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// authService implements AuthService
type authService struct {
	userRepo repository.UserRepository
	config   *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, config *AuthServiceConfig) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.TokenExpiry == 0 {
		config.TokenExpiry = time.Hour
	}
	return &authService{
		userRepo: userRepo,
		config:   config,
	}
}

// Signup creates a new account and issues a token for it
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest, role domain.Role) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.signup")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", req.Email),
		attribute.String("role", string(role)),
	)

	// Privileged roles are gated on a product key
	if role != domain.RoleBuyer {
		if req.ProductKey == "" {
			span.SetStatus(codes.Error, "product key required")
			return nil, ErrProductKeyRequired
		}
		if !s.verifyProductKey(req.Email, role, req.ProductKey) {
			span.SetStatus(codes.Error, "invalid product key")
			return nil, ErrInvalidProductKey
		}
	}

	// Best-effort duplicate check; the unique email index in storage is
	// what actually guarantees it under concurrent signups
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "email taken")
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(s.config.TokenExpiry.Seconds()),
	}, nil
}

// Signin authenticates an existing account. Unknown email and wrong
// password are deliberately indistinguishable to the caller.
func (s *authService) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.signin")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(s.config.TokenExpiry.Seconds()),
	}, nil
}

// GenerateProductKey mints a one-way-hashed key binding (email, role). The
// key is never stored: whoever holds it proves possession at signup by the
// server re-deriving the same string and comparing.
func (s *authService) GenerateProductKey(ctx context.Context, email string, role domain.Role) (string, error) {
	_, span := telemetry.StartSpan(ctx, "service.auth.generate_product_key")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", email),
		attribute.String("role", string(role)),
	)

	hash, err := bcrypt.GenerateFromPassword([]byte(s.deriveProductKey(email, role)), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetStatus(codes.Ok, "")
	return string(hash), nil
}

// ValidateToken verifies signature and expiry of a bearer token. Tokens are
// stateless: there is no server-side revocation before expiry.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	_, span := telemetry.StartSpan(ctx, "service.auth.validate_token")
	defer span.End()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			span.SetStatus(codes.Error, "token expired")
			return nil, ErrTokenExpired
		}
		span.SetStatus(codes.Error, "invalid token")
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		span.SetStatus(codes.Error, "invalid token")
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		span.SetStatus(codes.Error, "invalid claims")
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		span.SetStatus(codes.Error, "invalid claims")
		return nil, ErrInvalidToken
	}
	name, _ := claims["name"].(string)

	span.SetAttributes(attribute.String("user_id", userID))
	span.SetStatus(codes.Ok, "")

	return &domain.Claims{
		UserID: userID,
		Name:   name,
	}, nil
}

// GetUser retrieves a user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.get_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// deriveProductKey builds the deterministic string a product key commits to.
// Two distinct (email, role) pairs derive distinct strings.
func (s *authService) deriveProductKey(email string, role domain.Role) string {
	return fmt.Sprintf("%s-%s-%s", email, role, s.config.ProductKeySecret)
}

// verifyProductKey checks a caller-supplied key against the derived string
func (s *authService) verifyProductKey(email string, role domain.Role, suppliedKey string) bool {
	return bcrypt.CompareHashAndPassword([]byte(suppliedKey), []byte(s.deriveProductKey(email, role))) == nil
}

// generateToken issues an HS256-signed bearer token for the user. The role
// is intentionally absent from the claims; it is resolved from storage when
// the token is presented.
func (s *authService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     user.ID,
		"user_id": user.ID,
		"name":    user.Name,
		"iat":     now.Unix(),
		"exp":     now.Add(s.config.TokenExpiry).Unix(),
	})
	return token.SignedString([]byte(s.config.JWTSecret))
}
