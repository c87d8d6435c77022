package member

import (
	"errors"
	"net/http"

	"github.com/campuscord/core/internal/middleware"
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

// RegisterRoutes mounts membership routes. Join only needs authentication,
// the rest run behind the membership gate; promote/demote behind admin.
func (h *Handler) RegisterRoutes(srv, gated *gin.RouterGroup, adminMW gin.HandlerFunc) {
	srv.POST("/:serverId/join", h.join)

	gated.GET("/members", h.list)
	gated.DELETE("/leave", h.leave)
	gated.PATCH("/promote/:userId", adminMW, h.promote)
	gated.PATCH("/demote/:userId", adminMW, h.demote)
}

func (h *Handler) list(c *gin.Context) {
	members, err := h.svc.List(c.Param("serverId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := make([]memberInfo, 0, len(members))
	for _, m := range members {
		info := memberInfo{
			ID:       m.User.ID,
			Username: m.User.Username,
			Name:     m.User.Name,
			Admin:    m.Admin,
		}
		if h.store != nil {
			info.Avatar = h.store.PublicPath("user/" + m.User.ID)
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"members": out})
}

func (h *Handler) join(c *gin.Context) {
	err := h.svc.Join(middleware.CurrentUserID(c), c.Param("serverId"))
	switch {
	case errors.Is(err, errAlreadyMember):
		response.BadRequest(c, "You are already a member of this server")
	case errors.Is(err, errServerNotFound):
		response.NotFoundMsg(c, "Server not found")
	case errors.Is(err, errWrongDomain):
		response.ForbiddenMsg(c, "Your email domain does not match this server")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Created(c, gin.H{"message": "Joined server"})
	}
}

func (h *Handler) leave(c *gin.Context) {
	err := h.svc.Leave(middleware.CurrentUserID(c), c.Param("serverId"))
	switch {
	case errors.Is(err, errNotMember):
		response.NotFoundMsg(c, "You are not a member of this server")
	case err != nil:
		response.InternalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Left server"})
	}
}

func (h *Handler) promote(c *gin.Context) {
	err := h.svc.Promote(c.Param("serverId"), c.Param("userId"))
	switch {
	case errors.Is(err, errNotMember):
		response.NotFoundMsg(c, "Member not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Member promoted to admin"})
	}
}

func (h *Handler) demote(c *gin.Context) {
	err := h.svc.Demote(c.Param("serverId"), c.Param("userId"))
	switch {
	case errors.Is(err, errNotMember):
		response.NotFoundMsg(c, "Member not found")
	case errors.Is(err, errNotAdmin):
		response.BadRequest(c, "Member is not an admin")
	case err != nil:
		response.InternalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Member demoted"})
	}
}
