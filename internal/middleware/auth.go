package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ankit-karki-11/smarttest/config"
	"github.com/ankit-karki-11/smarttest/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Roles carried in the token.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Context keys set by RequireAuth.
const (
	ctxUserID = "auth_user_id"
	ctxRole   = "auth_role"
)

// Claims is the JWT payload issued by the identity provider in front of this
// service. Only the user id and role are consumed here.
type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAuth validates the bearer token and stores the caller's identity on
// the gin context.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing or malformed Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			log.Warn().Err(err).Msg("Rejected request with invalid token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}
		if claims.UserID == 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Token carries no user id"})
			return
		}

		ctx.Set(ctxUserID, claims.UserID)
		ctx.Set(ctxRole, claims.Role)
		ctx.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if CurrentRole(ctx) != RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Admin access required"})
			return
		}
		ctx.Next()
	}
}

// CurrentUserID returns the authenticated caller's id, or 0 when the request
// skipped RequireAuth.
func CurrentUserID(ctx *gin.Context) uint {
	if v, ok := ctx.Get(ctxUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentRole returns the authenticated caller's role.
func CurrentRole(ctx *gin.Context) string {
	if v, ok := ctx.Get(ctxRole); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
