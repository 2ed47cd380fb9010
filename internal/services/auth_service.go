package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"chat-threads/config"
	thread_errors "chat-threads/pkg/errors"
	"chat-threads/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService validates bearer tokens issued elsewhere. It never issues
// tokens itself.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

// AccessClaims are the claims read from an access token. Azp holds the
// caller's stable user id.
type AccessClaims struct {
	Azp string `json:"azp"`
	jwt.RegisteredClaims
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, thread_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, thread_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, thread_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, thread_errors.ErrUnauthorized
	}

	return *claims, nil
}

// CallerID extracts the numeric user id from the azp claim.
func CallerID(claims AccessClaims) (int64, error) {
	azp := strings.TrimSpace(claims.Azp)
	if azp == "" {
		return 0, thread_errors.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(azp, 10, 64)
	if err != nil {
		return 0, thread_errors.ErrInvalidToken
	}
	return userID, nil
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, thread_errors.ErrInvalidRequest), errors.Is(err, thread_errors.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, thread_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, thread_errors.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, thread_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func ErrorCode(err error) string {
	switch {
	case errors.Is(err, thread_errors.ErrInvalidRequest):
		return "INVALID_REQUEST"
	case errors.Is(err, thread_errors.ErrInvalidToken):
		return "INVALID_TOKEN"
	case errors.Is(err, thread_errors.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, thread_errors.ErrAccessDenied):
		return "ACCESS_DENIED"
	case errors.Is(err, thread_errors.ErrRateLimited):
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}

type ctxKey string

var userIDKey ctxKey = "user_id"

// WithUserContext stores the caller id for handlers and for log fields.
func WithUserContext(ctx context.Context, userID int64) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, logger.UserIdKey, userID)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
