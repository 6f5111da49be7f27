package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/pkg/apierrors"
)

const actorKey = "actor"

var errMissingToken = errors.New("missing bearer token")

// Claims is the access token payload issued by the identity service. The
// subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates an HS256 bearer token and stores the caller as a
// domain.Actor. Browsers cannot set headers on EventSource requests, so the
// token may also arrive as the access_token query parameter.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		actor, err := authenticate(c, parser, secret)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthorized, GetLang(c)),
			)
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func authenticate(c *gin.Context, parser *jwt.Parser, secret []byte) (domain.Actor, error) {
	raw := bearerToken(c)
	if raw == "" {
		return domain.Actor{}, errMissingToken
	}

	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return domain.Actor{}, err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return domain.Actor{}, jwt.ErrTokenInvalidSubject
	}

	return domain.Actor{ID: claims.Subject, Role: domain.ParseRole(claims.Role)}, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(c.Query("access_token"))
}

// RequirePrivileged lets only administrative roles through.
func RequirePrivileged() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := LookupActor(c)
		if !ok || !actor.Role.Privileged() {
			c.AbortWithStatusJSON(
				http.StatusForbidden,
				apierrors.CreateError(http.StatusForbidden, apierrors.MsgForbidden, GetLang(c)),
			)
			return
		}
		c.Next()
	}
}

func LookupActor(c *gin.Context) (domain.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return domain.Actor{}, false
	}
	actor, ok := value.(domain.Actor)
	return actor, ok
}

// GetActor returns the authenticated caller. Routes behind AuthMiddleware
// always have one.
func GetActor(c *gin.Context) domain.Actor {
	actor, _ := LookupActor(c)
	return actor
}

// SetActor is used by tests and trusted internal callers.
func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
}

// IssueToken signs an access token for userID. It backs local tooling and
// tests; production tokens come from the identity service.
func IssueToken(secret []byte, userID string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
