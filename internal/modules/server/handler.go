package server

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

// RegisterRoutes mounts catalogue and per-server management routes. The
// caller hands over the authenticated /server group plus the membership
// and admin gates for :serverId routes.
func (h *Handler) RegisterRoutes(srv *gin.RouterGroup, memberMW, adminMW gin.HandlerFunc) {
	srv.GET("", h.list)
	srv.GET("/my", h.mine)
	srv.POST("", h.create)

	gated := srv.Group("/:serverId", memberMW)
	gated.GET("", h.details)
	gated.PATCH("", adminMW, h.edit)
	gated.DELETE("", adminMW, h.remove)
}

func (h *Handler) list(c *gin.Context) {
	primary, secondary, err := h.svc.ListAll(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := gin.H{"secondaryServers": h.summaries(secondary)}
	if primary != nil {
		out["primaryServer"] = h.summary(*primary)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) mine(c *gin.Context) {
	servers, err := h.svc.Mine(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := make([]serverSummary, 0, len(servers))
	for _, s := range servers {
		out = append(out, serverSummary{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Logo:        h.logo(s.ID),
		})
	}
	c.JSON(http.StatusOK, gin.H{"servers": out})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateServerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "name is required")
		return
	}

	srv, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"server": srv})
}

func (h *Handler) details(c *gin.Context) {
	srv, members, err := h.svc.Details(c.Param("serverId"))
	if err != nil {
		if errors.Is(err, errServerNotFound) {
			response.NotFoundMsg(c, "Server not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	userID := middleware.CurrentUserID(c)
	details := serverDetails{
		ID:          srv.ID,
		Name:        srv.Name,
		Description: srv.Description,
		Logo:        h.logo(srv.ID),
		Channels:    make([]channelInfo, 0, len(srv.Channels)),
		Members:     make([]memberInfo, 0, len(members)),
	}
	for _, ch := range srv.Channels {
		details.Channels = append(details.Channels, channelInfo{
			Name:       ch.Name,
			Topic:      ch.Topic,
			Restricted: ch.Restricted,
			Call:       ch.Call,
		})
	}
	for _, m := range members {
		if m.UserID == userID && m.Admin {
			details.IsAdmin = true
		}
		details.Members = append(details.Members, memberInfo{
			ID:       m.User.ID,
			Username: m.User.Username,
			Name:     m.User.Name,
			Avatar:   h.avatar(m.User.ID),
			Admin:    m.Admin,
		})
	}
	c.JSON(http.StatusOK, gin.H{"server": details})
}

func (h *Handler) edit(c *gin.Context) {
	var dto UpdateServerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid server payload")
		return
	}

	srv, err := h.svc.Edit(c.Param("serverId"), &dto)
	if err != nil {
		if errors.Is(err, errServerNotFound) {
			response.NotFoundMsg(c, "Server not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"server": srv})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Param("serverId")); err != nil {
		if errors.Is(err, errServerNotFound) {
			response.NotFoundMsg(c, "Server not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Server deleted"})
}

func (h *Handler) summaries(entries []serverWithJoined) []serverSummary {
	out := make([]serverSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, h.summary(e))
	}
	return out
}

func (h *Handler) summary(e serverWithJoined) serverSummary {
	joined := e.Joined
	return serverSummary{
		ID:          e.Server.ID,
		Name:        e.Server.Name,
		Description: e.Server.Description,
		Logo:        h.logo(e.Server.ID),
		Joined:      &joined,
	}
}

func (h *Handler) logo(serverID string) string {
	if h.store == nil {
		return ""
	}
	return h.store.PublicPath("server/" + serverID)
}

func (h *Handler) avatar(userID string) string {
	if h.store == nil {
		return ""
	}
	return h.store.PublicPath("user/" + userID)
}
