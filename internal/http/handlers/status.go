package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/screengrabber-backend/internal/clients/statusapi"
	"github.com/yungbote/screengrabber-backend/internal/http/response"
	"github.com/yungbote/screengrabber-backend/internal/platform/apierr"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
	"github.com/yungbote/screengrabber-backend/internal/platform/useragent"
	"github.com/yungbote/screengrabber-backend/internal/services"
)

type StatusHandlerConfig struct {
	// PublicHost is the externally visible base URL of this service,
	// used in the embed page's oembed link.
	PublicHost string
}

type StatusHandler struct {
	log         *logger.Logger
	screengrabs services.ScreengrabService
	statuses    statusapi.Client
	cfg         StatusHandlerConfig
}

func NewStatusHandler(
	log *logger.Logger,
	screengrabs services.ScreengrabService,
	statuses statusapi.Client,
	cfg StatusHandlerConfig,
) *StatusHandler {
	return &StatusHandler{
		log:         log.With("handler", "StatusHandler"),
		screengrabs: screengrabs,
		statuses:    statuses,
		cfg:         cfg,
	}
}

func (sh *StatusHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// GetStatus is the unfurl entry point. Link-preview bots get a page of
// meta tags pointing at the cached render; everyone else gets the image
// bytes directly.
func (sh *StatusHandler) GetStatus(c *gin.Context) {
	account := c.Param("account")
	statusID := c.Param("statusID")

	result, err := sh.screengrabs.GetOrRender(c.Request.Context(), account, statusID)
	if err != nil {
		sh.log.Error("Screengrab failed", "account", account, "status_id", statusID, "error", err)
		response.RespondAPIError(c, err)
		return
	}

	visitor := useragent.Identify(c.Request.UserAgent())
	if !visitor.IsBot() {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s_%s.png", account, statusID))
		c.Data(http.StatusOK, "image/png", result.Image)
		return
	}

	renderURL := result.PublicURL
	if result.MosaicURL != "" {
		renderURL = result.MosaicURL
	}
	c.HTML(http.StatusOK, "twitter_embed.html", gin.H{
		"Host":      sh.cfg.PublicHost,
		"XURL":      fmt.Sprintf("https://x.com/%s/status/%s", account, statusID),
		"RenderURL": renderURL,
		"Account":   account,
		"StatusID":  statusID,
	})
}

// RenderPage serves the card the headless renderer screenshots. It is
// not meant for end users.
func (sh *StatusHandler) RenderPage(c *gin.Context) {
	account := c.Param("account")
	statusID := c.Param("statusID")

	status, err := sh.statuses.GetStatus(c.Request.Context(), account, statusID)
	if err != nil {
		sh.log.Error("Status lookup failed", "account", account, "status_id", statusID, "error", err)
		response.RespondAPIError(c, apierr.New(http.StatusBadGateway, "STATUS_LOOKUP_FAILED", err))
		return
	}

	var mediaURLs []string
	for _, m := range status.ImageMedia() {
		mediaURLs = append(mediaURLs, m.URL)
	}
	viewCount := ""
	if status.Views != nil {
		viewCount = FormatCount(int64(*status.Views))
	}

	c.HTML(http.StatusOK, "twitter_render.html", gin.H{
		"UserName":      status.UserName,
		"Handle":        "@" + status.ScreenName,
		"Verified":      true,
		"AvatarURL":     status.AvatarURL,
		"Text":          status.Text,
		"MediaURLs":     mediaURLs,
		"MosaicURL":     "",
		"FormattedDate": FormatStatusDate(status.DateEpoch),
		"ViewCount":     viewCount,
		"ReplyCount":    FormatCount(int64(status.Replies)),
		"RetweetCount":  FormatCount(int64(status.Retweets)),
		"LikeCount":     FormatCount(int64(status.Likes)),
	})
}

// OEmbed backs the alternate link on the embed page. Chat clients call
// it to fill in the card's author line.
func (sh *StatusHandler) OEmbed(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"type":          c.Query("ttype"),
		"version":       "1.0",
		"provider_name": "screengrabx - pretty x posts",
		"provider_url":  "https://screengrabx.com",
		"title":         c.Query("desc"),
		"author_name":   c.Query("user"),
		"author_url":    c.Query("link"),
	})
}
