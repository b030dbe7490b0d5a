package seo

import (
	"strings"
)

// DefaultDisallow keeps crawlers out of the back office, the API and the
// checkout flow.
var DefaultDisallow = []string{"/admin", "/api/", "/checkout"}

type RobotsConfig struct {
	BaseURL       string
	DisallowAll   bool
	DisallowPaths []string
}

func BuildRobots(cfg RobotsConfig) string {
	var sb strings.Builder

	sb.WriteString("User-agent: *\n")
	if cfg.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	sb.WriteString("Allow: /\n")
	for _, path := range cfg.DisallowPaths {
		sb.WriteString("Disallow: " + path + "\n")
	}

	if cfg.BaseURL != "" {
		sb.WriteString("\nSitemap: " + strings.TrimRight(cfg.BaseURL, "/") + "/sitemap.xml\n")
	}
	return sb.String()
}
