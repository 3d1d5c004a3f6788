package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LeeBhin/boasting/internal/middleware"
	"github.com/LeeBhin/boasting/internal/modules/bookmark"
	"github.com/LeeBhin/boasting/internal/modules/comment"
	"github.com/LeeBhin/boasting/internal/modules/file"
	"github.com/LeeBhin/boasting/internal/modules/project"
	"github.com/LeeBhin/boasting/internal/modules/user"
	"github.com/LeeBhin/boasting/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(a.rc.Raw()))
	r.Use(middleware.Idempotence(a.rc.Raw()))

	api := r.Group(apiPrefix)
	// OptionalAuth must run before HTTPCache so signed-in GETs bypass the
	// shared anonymous cache.
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.HTTPCache(a.rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   a.cfg.IsDev(),
		SkipPaths: httpCacheSkipPaths(apiPrefix),
	}))

	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	// Users & auth
	userSvc := user.NewService(db)
	user.NewHandler(userSvc).RegisterRoutes(api, authMW)

	// Projects
	projectSvc := project.NewService(db, userSvc)
	projectHandler := project.NewHandler(projectSvc, a.rc)
	projectHandler.SetWebOrigin(a.cfg.WebOrigin)
	projectHandler.RegisterRoutes(api, authMW)

	// Comments
	comment.NewHandler(comment.NewService(db)).RegisterRoutes(api, authMW)

	// Bookmarks
	bookmark.NewHandler(bookmark.NewService(db, projectSvc)).RegisterRoutes(api, authMW)

	// File storage
	fileHandler, err := file.NewHandler(a.cfg, a.logger)
	if err != nil {
		a.logger.Fatal("file storage init failed", zap.Error(err))
	}
	fileHandler.RegisterRoutes(api, authMW)
}

func httpCacheSkipPaths(prefix string) []string {
	p := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	if p == "" {
		p = apiPrefix
	}
	return []string{
		p + "/ping",
		p + "/user",
		p + "/user/login",
		p + "/user/register",
		p + "/bookmarks",
		p + "/files/upload",
		p + "/files/batch-upload",
	}
}
