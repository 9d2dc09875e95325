package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/screengrabber-backend/internal/http/handlers"
	"github.com/yungbote/screengrabber-backend/internal/http/middleware"
	"github.com/yungbote/screengrabber-backend/internal/http/templates"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log           *logger.Logger
	Mode          string
	StatusHandler *handlers.StatusHandler
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("screengrabber-backend"))
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS())

	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	router.GET("/healthcheck", handlers.HealthCheck)
	router.GET("/", cfg.StatusHandler.Index)
	router.GET("/oembed.json", cfg.StatusHandler.OEmbed)

	// Pages the headless renderer screenshots.
	router.GET("/render/:account/status/:statusID", cfg.StatusHandler.RenderPage)

	// The unfurl surface itself.
	router.GET("/:account/status/:statusID", cfg.StatusHandler.GetStatus)

	return router, nil
}
