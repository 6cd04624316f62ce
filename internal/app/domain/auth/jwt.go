package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ngandinhtk/tripwise/internal/pkg/config"
)

// Claims represents the JWT claims carried in a session token.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	cfg config.AuthConfig
}

func NewJWTService(cfg config.AuthConfig) *JWTService {
	return &JWTService{cfg: cfg}
}

// GenerateToken generates a new signed HS256 token.
func (s *JWTService) GenerateToken(userID, email, username string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.TokenExpiration)
	claims := Claims{
		UserID:   userID,
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken parses and validates a session token.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ValidateBearer validates a token for transport middleware, which needs only
// the identity fields.
func (s *JWTService) ValidateBearer(token string) (userID, email, username string, err error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return "", "", "", err
	}
	return claims.UserID, claims.Email, claims.Username, nil
}

// HashPassword hashes a password using bcrypt.
func (s *JWTService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a hashed password with a plaintext password.
func (s *JWTService) CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
