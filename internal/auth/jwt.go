package auth

import (
	"fmt"
	"strconv"
	"time"

	"cinelist/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identifies the user in the standard "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user ID.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
	}
	return id, nil
}

// JWTManager issues and checks HS256 access tokens.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
}

func NewJWTManager(cfg config.AuthConfig) (*JWTManager, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required but was empty")
	}
	if cfg.Algorithm != "" && cfg.Algorithm != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	timeout := cfg.AccessTokenTTL
	if timeout <= 0 {
		timeout = time.Hour
	}

	return &JWTManager{
		secret:  []byte(cfg.SecretKey),
		timeout: timeout,
		now:     time.Now,
	}, nil
}

func (m *JWTManager) GenerateToken(userID int64) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}

// ValidateToken checks the signature, algorithm and expiry of tokenString.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}
