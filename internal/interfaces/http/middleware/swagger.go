package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SwaggerProtection guards the API documentation routes. A disabled endpoint
// answers 404. An allow list, when set, is checked before authentication.
func SwaggerProtection(cfg config.SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlerFunc {
	prefixes := parseAllowList(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
			return
		}

		if len(cfg.AllowedIPs) > 0 && !ipAllowed(c.ClientIP(), prefixes) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access to API documentation is restricted")
			return
		}

		if cfg.RequireAuth && jwtMiddleware != nil {
			jwtMiddleware(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

// parseAllowList accepts single addresses and CIDR ranges. Unparseable
// entries are dropped.
func parseAllowList(entries []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				prefixes = append(prefixes, p.Masked())
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return prefixes
}

func ipAllowed(clientIP string, prefixes []netip.Prefix) bool {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
