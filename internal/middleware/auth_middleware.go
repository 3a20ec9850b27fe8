package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/errors"
	"github.com/ktakagi/sensho-backend/pkg/redis"
	"github.com/ktakagi/sensho-backend/pkg/util"
)

// Context keys for authenticated identity
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
	ScopeKey    = "token_scope"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates a user-scoped JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return m.requireScope(model.ScopeUser)
}

// AuthenticateAdmin validates an admin-scoped JWT token (required)
func (m *AuthMiddleware) AuthenticateAdmin() gin.HandlerFunc {
	return m.requireScope(model.ScopeAdmin)
}

func (m *AuthMiddleware) requireScope(scope model.TokenScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string

		// Try to get token from Authorization header first
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "認証ヘッダーの形式が正しくありません")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			// File download links cannot set headers, so fall back to a query
			// parameter for the export endpoints.
			token = c.Query("token")
			if token == "" {
				log.Warn("Missing authorization header", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.Unauthorized(c, "ログインが必要です")
				c.Abort()
				return
			}
			log.Debug("Using token from query parameter", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "ログインの有効期限が切れました")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "有効な認証トークンではありません")
			}
			c.Abort()
			return
		}

		if revoked, err := redis.IsTokenRevoked(c.Request.Context(), token); err == nil && revoked {
			log.Warn("Revoked token rejected", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "このトークンは失効しています。再度ログインしてください")
			c.Abort()
			return
		}

		if model.TokenScope(claims.Scope) != scope {
			log.Warn("Token scope mismatch", map[string]interface{}{
				"path":           c.Request.URL.Path,
				"token_scope":    claims.Scope,
				"required_scope": string(scope),
			})
			if scope == model.ScopeAdmin {
				errors.RespondWithError(c, http.StatusForbidden, errors.AuthAdminOnly, "管理者権限が必要です")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "有効な認証トークンではありません")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.SubjectID)
		c.Set(UsernameKey, claims.Username)
		c.Set(ScopeKey, model.TokenScope(claims.Scope))

		log.Debug("Authenticated successfully", map[string]interface{}{
			"subject_id": claims.SubjectID,
			"username":   claims.Username,
			"scope":      claims.Scope,
		})

		c.Next()
	}
}

// GetUserID extracts the authenticated subject ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUsername extracts the authenticated username from context
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	return username.(string), true
}

// GetTokenScope extracts the token scope from context
func GetTokenScope(c *gin.Context) (model.TokenScope, bool) {
	scope, exists := c.Get(ScopeKey)
	if !exists {
		return "", false
	}
	return scope.(model.TokenScope), true
}
