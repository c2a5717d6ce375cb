package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mygroup/mygroup-backend/pkg/config"
)

var (
	// ErrSigningConfig is returned when the JWT settings cannot sign or verify.
	ErrSigningConfig = errors.New("jwt signing config incomplete")
	// ErrMalformedClaims is returned for a validly signed token whose claims
	// do not identify a member.
	ErrMalformedClaims = errors.New("jwt claims malformed")
)

var signingMethod = jwt.SigningMethodHS256

func checkSigningConfig(cfg config.JWTConfig) error {
	switch {
	case cfg.Secret == "":
		return fmt.Errorf("%w: secret is empty", ErrSigningConfig)
	case cfg.Issuer == "":
		return fmt.Errorf("%w: issuer is empty", ErrSigningConfig)
	}
	return nil
}

// MintAccessToken signs an HS256 session token valid for cfg.TTL() from now.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := checkSigningConfig(cfg); err != nil {
		return "", err
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return "", fmt.Errorf("%w: expiration must be positive", ErrSigningConfig)
	}
	if payload.UserID <= 0 {
		return "", errors.New("mint token: user id is required")
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("mint token: invalid role %q", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := AccessTokenClaims{
		UserID: payload.UserID,
		Email:  payload.Email,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    cfg.Issuer,
			Subject:   strconv.FormatInt(payload.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature, issuer and expiry and returns the
// member claims. The subject must agree with user_id.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: secret is empty", ErrSigningConfig)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	claims := &AccessTokenClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}); err != nil {
		return nil, err
	}

	if claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrMalformedClaims)
	}
	if claims.Subject != "" && claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, fmt.Errorf("%w: subject does not match user id", ErrMalformedClaims)
	}
	return claims, nil
}
