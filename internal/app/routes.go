package app

import (
	"net/http"

	"github.com/campuscord/core/internal/middleware"
	"github.com/campuscord/core/internal/modules/auth"
	"github.com/campuscord/core/internal/modules/channel"
	"github.com/campuscord/core/internal/modules/gateway"
	"github.com/campuscord/core/internal/modules/member"
	"github.com/campuscord/core/internal/modules/server"
	"github.com/campuscord/core/internal/pkg/livekit"
	"github.com/campuscord/core/internal/pkg/mail"
	pkgredis "github.com/campuscord/core/internal/pkg/redis"
	"github.com/campuscord/core/internal/pkg/response"
	"github.com/campuscord/core/internal/pkg/storage"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(rc *pkgredis.Client, store *storage.Client, mailer *mail.Sender) {
	r := a.router

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gateway.RegisterRoutes(&r.RouterGroup, a.hub)

	api := r.Group("/api")
	api.Use(middleware.RateLimit(rc.Raw()))

	authMW := middleware.Auth()
	memberMW := middleware.AuthorizeMember(a.db)
	adminMW := middleware.AuthorizeAdmin(a.db)

	authH := auth.NewHandler(auth.NewService(a.db, mailer, a.cfg.BackendURL), store)
	authH.RegisterRoutes(api, authMW)

	srv := api.Group("/server", authMW)
	gated := srv.Group("/:serverId", memberMW)

	serverH := server.NewHandler(server.NewService(a.db), store)
	serverH.RegisterRoutes(srv, memberMW, adminMW)

	memberH := member.NewHandler(member.NewService(a.db), store)
	memberH.RegisterRoutes(srv, gated, adminMW)

	lk := livekit.Options{
		URL:       a.cfg.LiveKit.URL,
		APIKey:    a.cfg.LiveKit.APIKey,
		APISecret: a.cfg.LiveKit.APISecret,
	}
	channelH := channel.NewHandler(channel.NewService(a.db), store, lk)
	channelH.RegisterRoutes(gated, adminMW)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})
}
