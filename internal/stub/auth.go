package stub

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
)

// tokenIssuer issues and validates HS256 bearer tokens for the stub tenant.
type tokenIssuer struct {
	secret       []byte
	ttl          time.Duration
	clientID     string
	clientSecret string
}

func newTokenIssuer(secret, clientID, clientSecret string, ttlMinutes int) *tokenIssuer {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &tokenIssuer{
		secret:       []byte(secret),
		ttl:          time.Duration(ttlMinutes) * time.Minute,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// handleToken implements the OAuth2 client-credentials endpoint.
func (ti *tokenIssuer) handleToken(c *fiber.Ctx) error {
	if c.FormValue("grant_type") != "client_credentials" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported_grant_type"})
	}
	if c.FormValue("client_id") != ti.clientID || c.FormValue("client_secret") != ti.clientSecret {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_client"})
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   ti.clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "token_signing_failed"})
	}

	return c.JSON(fiber.Map{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(ti.ttl.Seconds()),
		"scope":        c.FormValue("scope"),
	})
}

// requireBearer validates the Authorization header on API routes.
func (ti *tokenIssuer) requireBearer(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization header"})
	}

	if err := ti.validate(parts[1]); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	return c.Next()
}

func (ti *tokenIssuer) validate(tokenStr string) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return ti.secret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid token claims")
	}
	return nil
}
