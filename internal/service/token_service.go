package service

import (
	"errors"
	"fmt"
	"time"

	"venue-settlement-engine/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in the "role" claim. Stations submit payments and read fee
// schedules; admins fund wallets, settle venues and distribute the pool.
const (
	RoleStation = "station"
	RoleAdmin   = "admin"
)

func knownRole(role string) bool {
	return role == RoleStation || role == RoleAdmin
}

type engineClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTTokenService signs and checks HS256 bearer tokens for stations and
// operators. Tokens without an expiry are rejected.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
	parser *jwt.Parser
}

func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// Generate mints a token for subject, which is a station ID for RoleStation
// and an operator name for RoleAdmin.
func (s *JWTTokenService) Generate(subject string, role string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject is required")
	}
	if !knownRole(role) {
		return "", time.Time{}, fmt.Errorf("unknown role %q", role)
	}

	now := time.Now()
	expiresAt := now.Add(s.expiry)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, engineClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing %s token for %s: %w", role, subject, err)
	}
	return signed, expiresAt, nil
}

func (s *JWTTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	var claims engineClaims
	if _, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	if !knownRole(claims.Role) {
		return nil, fmt.Errorf("token role %q not recognized", claims.Role)
	}
	return &ports.TokenClaims{Subject: claims.Subject, Role: claims.Role}, nil
}

var _ ports.TokenService = (*JWTTokenService)(nil)
