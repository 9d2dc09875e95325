package app

import (
	"fmt"
	"time"

	"github.com/yungbote/screengrabber-backend/internal/mosaic"
	"github.com/yungbote/screengrabber-backend/internal/platform/envutil"
)

type Config struct {
	Mode       string
	Port       string
	PublicHost string

	// SelfBaseURL is the address the headless renderer uses to reach
	// our /render pages. Inside docker this differs from PublicHost.
	SelfBaseURL string
	RenderWidth int
	CacheTTL    time.Duration

	Mosaic mosaic.Options
}

func LoadConfig() Config {
	mode := envutil.Str("LOG_MODE", "development")
	port := envutil.Str("PORT", "8080")
	return Config{
		Mode:        mode,
		Port:        port,
		PublicHost:  envutil.Str("SCREENGRABBER_TWITTER_HOST", fmt.Sprintf("http://localhost:%s", port)),
		SelfBaseURL: envutil.Str("SELF_BASE_URL", fmt.Sprintf("http://localhost:%s", port)),
		RenderWidth: envutil.Int("RENDER_WIDTH", 600),
		CacheTTL:    envutil.Minutes("CACHE_TTL_MINUTES", 24*60),
		Mosaic: mosaic.Options{
			TargetWidth:    envutil.Int("MOSAIC_TARGET_WIDTH", 1200),
			BorderSize:     envutil.Int("MOSAIC_BORDER_SIZE", 10),
			RatioTolerance: envutil.Float("MOSAIC_RATIO_TOLERANCE", 0.2),
			MaxPerRow:      envutil.Int("MOSAIC_MAX_PER_ROW", 3),
		},
	}
}
