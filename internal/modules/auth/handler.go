package auth

import (
	"errors"
	"net/http"

	"github.com/campuscord/core/internal/middleware"
	"github.com/campuscord/core/internal/models"
	"github.com/campuscord/core/internal/pkg/response"
	"github.com/campuscord/core/internal/pkg/storage"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc   *Service
	store *storage.Client
}

func NewHandler(svc *Service, store *storage.Client) *Handler {
	return &Handler{svc: svc, store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login", h.login)
	a.POST("/register", h.register)
	a.GET("/verify", h.verify)
	a.GET("/me", authMW, h.me)
	a.PATCH("/me", authMW, h.updateProfile)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}

	token, user, err := h.svc.Login(dto.Username, dto.Password)
	switch {
	case errors.Is(err, errUserNotFound):
		response.NotFoundMsg(c, "User not found")
		return
	case errors.Is(err, errWrongPassword):
		response.UnauthorizedMsg(c, "Invalid password")
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User: userInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Name:     user.Name,
		},
	})
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "username, email and password are required")
		return
	}

	if err := h.svc.Register(&dto); err != nil {
		if errors.Is(err, errTaken) {
			response.Conflict(c, "Username or email already taken")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Verification email sent"})
}

func (h *Handler) verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token is required")
		return
	}
	if err := h.svc.Verify(token); err != nil {
		response.UnauthorizedMsg(c, "Invalid or expired verification token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified, you can now log in"})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.Me(middleware.CurrentUserID(c))
	if err != nil {
		response.NotFoundMsg(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": h.profile(user)})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var dto UpdateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid profile payload")
		return
	}

	userID := middleware.CurrentUserID(c)
	user, err := h.svc.UpdateProfile(userID, &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := gin.H{"user": h.profile(user)}
	if h.store != nil {
		uploadURL, err := h.store.UploadURL(c.Request.Context(), "user/"+userID, "image/*")
		if err == nil {
			out["uploadUrl"] = uploadURL
		}
	}
	response.Created(c, out)
}

func (h *Handler) profile(u *models.UserModel) userInfo {
	info := userInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Verified: &u.Verified,
	}
	if h.store != nil {
		info.Avatar = h.store.PublicPath("user/" + u.ID)
	}
	return info
}
