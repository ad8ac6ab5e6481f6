package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// identity provider token claims
// the subject carries the provider's user id, which maps to users.external_id
type IdentityClaims struct {
	jwt.RegisteredClaims

	// username is the preferred username assigned by the provider
	Username string `json:"preferred_username,omitempty"`

	// email is the user's email address
	Email string `json:"email,omitempty"`

	// email_verified indicates if email is confirmed
	EmailVerified bool `json:"email_verified,omitempty"`

	// session_id is the unique session identifier
	SessionID string `json:"session_id,omitempty"`
}

// ExternalID returns the subject claim (the provider's user id)
func (c *IdentityClaims) ExternalID() string {
	return c.Subject
}

// PreferredUsername returns the username claim, falling back to the subject
// so every authenticated user gets a usable name
func (c *IdentityClaims) PreferredUsername() string {
	if c.Username != "" {
		return c.Username
	}
	return c.Subject
}

// JWTValidator validates identity provider tokens
type JWTValidator struct {
	secret []byte
}

// NewJWTValidator creates a new validator with the shared jwt secret
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{
		secret: []byte(secret),
	}
}

// common jwt validation errors
var (
	ErrMissingToken     = errors.New("missing authorization token")
	ErrInvalidToken     = errors.New("invalid token format")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// ValidateToken parses and validates a jwt token
// returns the claims if valid, or an error if validation fails
func (v *JWTValidator) ValidateToken(tokenString string) (*IdentityClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	// strip "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &IdentityClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// validate the signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		// check for specific jwt errors
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	// validate essential claims
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrInvalidClaims)
	}

	// check expiration manually as extra safety
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// ExtractBearerToken extracts the token from an Authorization header value
func ExtractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	// handle "Bearer <token>" format
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}
