package utils

import (
	"errors" // Error construction
	"time"   // Time for token expiration

	"eduvault/internal/domain" // Identity record and error taxonomy

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// SessionTTL is the lifetime of a session token and its cookie
const SessionTTL = 7 * 24 * time.Hour

var errNoSecret = errors.New("signing secret not configured")

// Claims carried by a session token. The subject is the identity id.
type Claims struct {
	Email                string  `json:"email"`         // Identity email
	Name                 string  `json:"name"`          // Identity full name
	WalletAddress        *string `json:"walletAddress"` // Wallet address, null when none
	jwt.RegisteredClaims                                // Standard JWT claims (sub, iat, exp)
}

// ClaimsForUser builds session claims from an identity record
func ClaimsForUser(u *domain.User) Claims {
	return Claims{
		Email:            u.Email,
		Name:             u.FullName,
		WalletAddress:    u.WalletAddress,
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.ID},
	}
}

// GenerateJWT signs claims with secret, expiring SessionTTL from now
func GenerateJWT(claims Claims, secret string) (string, error) {
	return GenerateJWTAt(claims, secret, time.Now())
}

// GenerateJWTAt signs claims as if issued at issuedAt
func GenerateJWTAt(claims Claims, secret string, issuedAt time.Time) (string, error) {
	if secret == "" {
		return "", &domain.ConfigurationError{Setting: "JWT_SECRET", Message: errNoSecret.Error()}
	}
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)                  // Issued at
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(SessionTTL)) // Token expires in 7 days
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)      // Create token with claims
	return token.SignedString([]byte(secret))                       // Sign the token with the secret
}

// ParseJWT verifies signature and expiry and returns the claims.
// Every failure is reported as *domain.InvalidTokenError.
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	if secret == "" {
		return nil, &domain.InvalidTokenError{Err: errNoSecret} // Nothing can be verified
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	// Check for parsing errors
	if err != nil {
		return nil, &domain.InvalidTokenError{Err: err}
	}
	if !token.Valid || claims.Subject == "" {
		return nil, &domain.InvalidTokenError{Err: jwt.ErrTokenInvalidClaims}
	}
	return claims, nil
}
