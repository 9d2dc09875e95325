// Package useragent classifies inbound user agents so the status handler
// can decide between serving an embed page (link-expanding crawlers) and
// serving raw image bytes (everyone else).
package useragent

import "strings"

type Visitor string

const (
	VisitorDiscord  Visitor = "discordbot"
	VisitorSlack    Visitor = "slackbot"
	VisitorTelegram Visitor = "telegrambot"
	VisitorTwitter  Visitor = "twitterbot"
	VisitorFacebook Visitor = "facebookexternalhit"
	VisitorGoogle   Visitor = "googlebot"
	VisitorBing     Visitor = "bingbot"
	VisitorWhatsApp Visitor = "whatsapp"
	VisitorLinkedIn Visitor = "linkedinbot"
	VisitorUnknown  Visitor = "unknown"
)

var known = []Visitor{
	VisitorDiscord,
	VisitorSlack,
	VisitorTelegram,
	VisitorTwitter,
	VisitorFacebook,
	VisitorGoogle,
	VisitorBing,
	VisitorWhatsApp,
	VisitorLinkedIn,
}

// Identify matches the user agent against known bot tokens. Substring
// match, case-insensitive; first hit wins in declaration order.
func Identify(userAgent string) Visitor {
	ua := strings.ToLower(userAgent)
	for _, v := range known {
		if strings.Contains(ua, string(v)) {
			return v
		}
	}
	return VisitorUnknown
}

// IsBot reports whether the visitor is a link-expanding crawler.
func (v Visitor) IsBot() bool {
	return v != VisitorUnknown
}
