package jwtPkg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"portfolio/internal/entity"
)

const (
	SecretEnvKey = "JWT_ACCESS_TOKEN_SECRET"
	LocalsKey    = "admin"
	defaultTTL   = time.Hour
)

var (
	ErrMissingToken  = errors.New("missing access token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// AccessTokenTTL reads JWT_ACCESS_TOKEN_TTL as a Go duration, defaulting to one hour.
func AccessTokenTTL() time.Duration {
	ttl, err := time.ParseDuration(os.Getenv("JWT_ACCESS_TOKEN_TTL"))
	if err != nil || ttl <= 0 {
		return defaultTTL
	}
	return ttl
}

func Sign(data map[string]interface{}, expiresIn time.Duration) (string, int64, error) {
	expiredAt := time.Now().Add(expiresIn).Unix()

	secret := os.Getenv(SecretEnvKey)
	if secret == "" {
		return "", 0, fmt.Errorf("%s not set", SecretEnvKey)
	}

	claims := jwt.MapClaims{}
	for k, v := range data {
		claims[k] = v
	}
	claims["exp"] = expiredAt
	claims["iat"] = time.Now().Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

// TokenFromRequest takes the bearer token from the Authorization header. Browsers
// cannot set headers on websocket upgrades, so those may pass ?access_token= instead.
func TokenFromRequest(c *fiber.Ctx) (string, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			return "", errors.New("invalid Authorization format")
		}
		return token, nil
	}

	if c.Get(fiber.HeaderUpgrade) != "" {
		if token := c.Query("access_token"); token != "" {
			return token, nil
		}
	}

	return "", ErrMissingToken
}

func Parse(accessToken, secretEnvKey string) (*jwt.Token, error) {
	secret := os.Getenv(secretEnvKey)
	if secret == "" {
		return nil, errors.New("JWT secret not configured")
	}

	return jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
}

func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	accessToken, err := TokenFromRequest(c)
	if err != nil {
		return nil, err
	}
	return Parse(accessToken, secretEnvKey)
}

// LoginData extracts the admin identity from a verified token.
func LoginData(token *jwt.Token) (entity.AdminLoginData, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.AdminLoginData{}, ErrInvalidClaims
	}

	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	sessionID, _ := claims["session_id"].(string)
	if id == "" || sessionID == "" {
		return entity.AdminLoginData{}, ErrInvalidClaims
	}

	return entity.AdminLoginData{ID: id, Email: email, SessionID: sessionID}, nil
}

func GetAdminLoginData(c *fiber.Ctx) (entity.AdminLoginData, error) {
	admin, ok := c.Locals(LocalsKey).(entity.AdminLoginData)
	if !ok {
		return entity.AdminLoginData{}, fiber.ErrUnauthorized
	}
	return admin, nil
}
