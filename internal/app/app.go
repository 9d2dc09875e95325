package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/screengrabber-backend/internal/cache"
	"github.com/yungbote/screengrabber-backend/internal/clients/renderer"
	"github.com/yungbote/screengrabber-backend/internal/clients/statusapi"
	"github.com/yungbote/screengrabber-backend/internal/data/db"
	"github.com/yungbote/screengrabber-backend/internal/http/handlers"
	"github.com/yungbote/screengrabber-backend/internal/mosaic"
	"github.com/yungbote/screengrabber-backend/internal/observability"
	"github.com/yungbote/screengrabber-backend/internal/platform/envutil"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
	"github.com/yungbote/screengrabber-backend/internal/platform/objstore"
	"github.com/yungbote/screengrabber-backend/internal/server"
	"github.com/yungbote/screengrabber-backend/internal/services"
)

type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Router *gin.Engine
	Cfg    Config

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "screengrabber-backend",
		Environment: cfg.Mode,
		Version:     envutil.Str("SERVICE_VERSION", "dev"),
	})

	dbService, err := db.NewService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	store := cache.NewStore(theDB, log)

	storage, err := objstore.New(ctx, log, objstore.ConfigFromEnv())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	statusClient := statusapi.NewClient(log)
	rendererClient, err := renderer.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init renderer client: %w", err)
	}

	composer := mosaic.NewComposer(log)
	mosaicService := services.NewMosaicService(log, store, storage, statusClient, composer, cfg.Mosaic)
	screengrabService := services.NewScreengrabService(log, store, storage, rendererClient, statusClient, mosaicService, services.ScreengrabConfig{
		SelfBaseURL: cfg.SelfBaseURL,
		RenderWidth: cfg.RenderWidth,
		CacheTTL:    cfg.CacheTTL,
	})

	statusHandler := handlers.NewStatusHandler(log, screengrabService, statusClient, handlers.StatusHandlerConfig{
		PublicHost: cfg.PublicHost,
	})

	router, err := server.NewRouter(server.RouterConfig{
		Log:           log,
		Mode:          cfg.Mode,
		StatusHandler: statusHandler,
	})
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init router: %w", err)
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Port)
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
