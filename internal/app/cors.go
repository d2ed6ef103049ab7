package app

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/config"
)

func newCORS(cfg *config.AppConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			for _, pattern := range patterns {
				if matchOrigin(pattern, origin) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(corsConfig)
}

// extractOriginHost returns the "host[:port]" portion of an origin URL.
func extractOriginHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOrigin accepts full origins ("https://site.org") as well as host
// patterns ("*.site.org", "localhost:*").
func matchOrigin(pattern, origin string) bool {
	pattern = strings.TrimRight(strings.TrimSpace(pattern), "/")
	if pattern == "*" || strings.EqualFold(pattern, origin) {
		return true
	}
	if strings.Contains(pattern, "://") {
		return false
	}
	return matchOriginPattern(pattern, extractOriginHost(origin))
}

// matchOriginPattern reports whether host matches the given wildcard pattern.
func matchOriginPattern(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
