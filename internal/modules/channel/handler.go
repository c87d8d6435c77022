package channel

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/campuscord/core/internal/middleware"
	"github.com/campuscord/core/internal/models"
	"github.com/campuscord/core/internal/pkg/livekit"
	"github.com/campuscord/core/internal/pkg/pagination"
	"github.com/campuscord/core/internal/pkg/response"
	"github.com/campuscord/core/internal/pkg/storage"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc     *Service
	store   *storage.Client
	livekit livekit.Options
}

func NewHandler(svc *Service, store *storage.Client, lk livekit.Options) *Handler {
	return &Handler{svc: svc, store: store, livekit: lk}
}

// RegisterRoutes mounts channel and message routes under a membership-gated
// /:serverId group. Channel management is admin only.
func (h *Handler) RegisterRoutes(gated *gin.RouterGroup, adminMW gin.HandlerFunc) {
	ch := gated.Group("/channel")
	ch.GET("", h.list)
	ch.POST("", adminMW, h.create)

	named := ch.Group("/:channelName")
	named.GET("", h.details)
	named.PATCH("", adminMW, h.edit)
	named.DELETE("", adminMW, h.remove)
	named.POST("/joinroom", h.joinRoom)
	named.POST("/message", h.createMessage)
	named.DELETE("/message/:messageId", h.deleteMessage)
	named.POST("/message/:messageId/like", h.like)
	named.DELETE("/message/:messageId/dislike", h.dislike)
}

func (h *Handler) list(c *gin.Context) {
	channels, err := h.svc.List(c.Param("serverId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateChannelDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "name is required")
		return
	}

	ch, err := h.svc.Create(c.Param("serverId"), &dto)
	switch {
	case errors.Is(err, errChannelExists):
		response.BadRequest(c, "Channel already exists")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Created(c, gin.H{"channel": ch})
	}
}

func (h *Handler) details(c *gin.Context) {
	serverID := c.Param("serverId")
	name := c.Param("channelName")

	ch, err := h.svc.Get(serverID, name)
	if err != nil {
		if errors.Is(err, errChannelMissing) {
			response.NotFoundMsg(c, "Channel not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	messages, page, err := h.svc.Messages(serverID, name, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	userID := middleware.CurrentUserID(c)
	views, err := h.messageViews(userID, serverID, name, messages)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel":    ch,
		"messages":   views,
		"pagination": page,
	})
}

func (h *Handler) edit(c *gin.Context) {
	var dto UpdateChannelDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid channel payload")
		return
	}

	ch, err := h.svc.Edit(c.Param("serverId"), c.Param("channelName"), &dto)
	switch {
	case errors.Is(err, errChannelMissing):
		response.NotFoundMsg(c, "Channel not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"channel": ch})
	}
}

func (h *Handler) remove(c *gin.Context) {
	err := h.svc.Delete(c.Param("serverId"), c.Param("channelName"))
	switch {
	case errors.Is(err, errChannelMissing):
		response.NotFoundMsg(c, "Channel not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Channel deleted"})
	}
}

// joinRoom issues a LiveKit join token for a call-enabled channel. The
// room name spans server and channel so calls never cross servers.
func (h *Handler) joinRoom(c *gin.Context) {
	serverID := c.Param("serverId")
	name := c.Param("channelName")

	ch, err := h.svc.Get(serverID, name)
	if err != nil || !ch.Call {
		response.NotFoundMsg(c, "No room found")
		return
	}

	room := fmt.Sprintf("%s/%s", serverID, name)
	token, err := livekit.AccessToken(h.livekit, middleware.CurrentUserID(c), room, 0)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.livekit.URL, "token": token})
}

func (h *Handler) createMessage(c *gin.Context) {
	var dto CreateMessageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid message payload")
		return
	}
	if dto.Content == "" && len(dto.Media) == 0 {
		response.BadRequest(c, "message needs content or media")
		return
	}

	serverID := c.Param("serverId")
	name := c.Param("channelName")
	userID := middleware.CurrentUserID(c)

	msg, err := h.svc.CreateMessage(userID, serverID, name, &dto)
	switch {
	case errors.Is(err, errChannelMissing):
		response.NotFoundMsg(c, "Channel not found")
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}

	uploadURLs := make([]string, 0, len(msg.Media))
	if h.store != nil {
		for _, m := range msg.Media {
			key := mediaKey(serverID, name, msg.ID, m.Name)
			url, err := h.store.UploadURL(c.Request.Context(), key, m.Type)
			if err != nil {
				response.InternalError(c, err)
				return
			}
			uploadURLs = append(uploadURLs, url)
		}
	}

	view := h.messageView(userID, serverID, name, msg, 0, false)
	response.Created(c, gin.H{"message": view, "uploadUrls": uploadURLs})
}

func (h *Handler) deleteMessage(c *gin.Context) {
	err := h.svc.DeleteMessage(c.Param("messageId"), middleware.CurrentUserID(c))
	switch {
	case errors.Is(err, errMessageMissing):
		response.NotFoundMsg(c, "Message not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
	}
}

func (h *Handler) like(c *gin.Context) {
	err := h.svc.Like(middleware.CurrentUserID(c), c.Param("messageId"))
	switch {
	case errors.Is(err, errAlreadyLiked):
		response.BadRequest(c, "Message already liked")
	case err != nil:
		response.InternalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Message liked"})
	}
}

func (h *Handler) dislike(c *gin.Context) {
	if err := h.svc.Dislike(middleware.CurrentUserID(c), c.Param("messageId")); err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Like removed"})
}

func (h *Handler) messageViews(userID, serverID, name string, messages []models.MessageModel) ([]MessageView, error) {
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	counts, mine, err := h.svc.LikeState(userID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		views = append(views, h.messageView(userID, serverID, name, m, counts[m.ID], mine[m.ID]))
	}
	return views, nil
}

func (h *Handler) messageView(userID, serverID, name string, m *models.MessageModel, likes int64, liked bool) MessageView {
	view := MessageView{
		ID:        m.ID,
		Content:   m.Content,
		Media:     make([]MediaView, 0, len(m.Media)),
		CreatedAt: m.CreatedAt,
		CreatedBy: AuthorView{
			ID:       m.CreatedBy.ID,
			Username: m.CreatedBy.Username,
			Name:     m.CreatedBy.Name,
		},
		Likes: likes,
		Liked: liked,
		Self:  m.UserID == userID,
	}
	if h.store != nil {
		view.CreatedBy.Avatar = h.store.PublicPath("user/" + m.CreatedBy.ID)
		for _, media := range m.Media {
			view.Media = append(view.Media, MediaView{
				Name: media.Name,
				Type: media.Type,
				Path: h.store.PublicPath(mediaKey(serverID, name, m.ID, media.Name)),
			})
		}
	} else {
		for _, media := range m.Media {
			view.Media = append(view.Media, MediaView{Name: media.Name, Type: media.Type})
		}
	}
	return view
}

func mediaKey(serverID, channelName, messageID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s/%s", serverID, channelName, messageID, fileName)
}
