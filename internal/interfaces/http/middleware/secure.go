package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// SecurityConfig holds configuration for security headers
type SecurityConfig struct {
	// HSTSMaxAge enables Strict-Transport-Security when positive (seconds)
	HSTSMaxAge            int64
	HSTSIncludeSubdomains bool
	ContentSecurityPolicy string
	PermissionsPolicy     string
	// IsDevelopment disables HSTS and host checks for local work
	IsDevelopment bool
}

// DefaultSecurityConfig returns the headers for a JSON API that is never
// framed or rendered as a page
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSMaxAge:            0,
		HSTSIncludeSubdomains: true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		PermissionsPolicy:     "accelerometer=(), camera=(), geolocation=(), microphone=(), payment=(), usb=()",
	}
}

// SecureHeaders sets the security response headers
func SecureHeaders(cfg SecurityConfig) gin.HandlerFunc {
	s := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: cfg.ContentSecurityPolicy,
		PermissionsPolicy:     cfg.PermissionsPolicy,
		STSSeconds:            cfg.HSTSMaxAge,
		STSIncludeSubdomains:  cfg.HSTSIncludeSubdomains,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         cfg.IsDevelopment,
	})

	return func(c *gin.Context) {
		if err := s.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		// Process may have redirected
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
