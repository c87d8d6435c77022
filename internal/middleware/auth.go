package middleware

import (
	"errors"
	"strings"

	"github.com/campuscord/core/internal/models"
	"github.com/campuscord/core/internal/pkg/jwt"
	"github.com/campuscord/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyAdmin  = "is_admin"
)

// Auth returns a middleware that enforces JWT bearer authentication.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ValidateToken(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// AuthorizeMember gates routes on membership of the :serverId server.
func AuthorizeMember(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		membership, err := LookupMembership(db, CurrentUserID(c), c.Param("serverId"))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if membership == nil {
			response.ForbiddenMsg(c, "Forbidden: You are not a member of this server")
			return
		}
		c.Set(ContextKeyAdmin, membership.Admin)
		c.Next()
	}
}

// AuthorizeAdmin gates routes on admin membership of the :serverId server.
func AuthorizeAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		membership, err := LookupMembership(db, CurrentUserID(c), c.Param("serverId"))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if membership == nil || !membership.Admin {
			response.ForbiddenMsg(c, "Forbidden: You are not an admin of this server")
			return
		}
		c.Set(ContextKeyAdmin, true)
		c.Next()
	}
}

// ValidateToken validates a JWT and returns the authenticated user id.
func ValidateToken(rawToken string) (string, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return "", errors.New("token is required")
	}
	claims, err := jwt.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// LookupMembership returns the membership record for (userID, serverID), or nil if none.
func LookupMembership(db *gorm.DB, userID, serverID string) (*models.Membership, error) {
	if userID == "" || serverID == "" {
		return nil, nil
	}
	var m models.Membership
	err := db.Where("user_id = ? AND server_id = ?", userID, serverID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
