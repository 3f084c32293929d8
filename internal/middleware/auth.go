package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"rental-payments-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// Claims carried by access tokens. Tokens are issued by the identity
// service; this service only verifies them.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthRequired verifies the Bearer token (HS256) and stores the caller's id
// and role on the context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if header == "" || !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, claims.Role)
		c.Next()
	}
}

func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no role"})
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// CurrentUser returns the authenticated caller set by AuthRequired.
func CurrentUser(c *gin.Context) (uuid.UUID, models.Role, bool) {
	id, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, "", false
	}
	role, _ := c.Get(ctxUserRole)
	userID, ok := id.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	r, _ := role.(models.Role)
	return userID, r, true
}

// SignToken issues an HS256 token for userID. Used by tooling and tests.
func SignToken(secret string, userID uuid.UUID, role models.Role, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = userID.String()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: role, RegisteredClaims: claims})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
