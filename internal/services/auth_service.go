package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CioFlingar/Library-Management-API/internal/logger"
	"github.com/CioFlingar/Library-Management-API/internal/repositories"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Identity is the authenticated caller extracted from an access token.
type Identity struct {
	UserID  uuid.UUID
	IsStaff bool
}

// TokenPair is the login response: a short-lived access token and a
// longer-lived refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService issues and validates the stateless JWT pair used by the API.
type AuthService interface {
	Login(username, password string) (*TokenPair, error)
	Refresh(refreshToken string) (string, error)
	ParseAccess(token string) (*Identity, error)
}

type authClaims struct {
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type authService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repositories.UserRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repositories.UserRepository,
	secret string,
	accessTTL, refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:         db,
		log:        log.With("service", "AuthService"),
		userRepo:   userRepo,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Login verifies the credentials and returns a fresh token pair.
func (s *authService) Login(username, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByUsername(nil, username)
	if err != nil {
		// Same failure for unknown user and bad password.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.signToken(user.ID, user.IsStaff, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user.ID, user.IsStaff, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("Login: token pair issued", "user_id", user.ID, "username", username)
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The user
// row is re-read so a staff-flag change takes effect on refresh.
func (s *authService) Refresh(refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(nil, userID)
	if err != nil {
		return "", ErrInvalidToken
	}
	return s.signToken(user.ID, user.IsStaff, tokenTypeAccess, s.accessTTL)
}

// ParseAccess validates an access token and returns the caller's identity.
func (s *authService) ParseAccess(token string) (*Identity, error) {
	claims, err := s.parseToken(token, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: userID, IsStaff: claims.IsStaff}, nil
}

func (s *authService) signToken(userID uuid.UUID, isStaff bool, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := authClaims{
		IsStaff:   isStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) parseToken(tokenString, wantType string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
