// Package security provides the HTTP hardening applied to every response:
// Content Security Policy, HSTS, frame and sniffing protection, and origin
// validation for state-changing requests and live reload connections.
//
// Policies come in three flavours selected by the server environment.
// Development allows websocket connections from anywhere so the live reload
// client works behind tunnels; production upgrades insecure requests and
// enables HSTS preload.
package security

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ayden94/caro-kann-docs/internal/config"
	"github.com/ayden94/caro-kann-docs/internal/errors"
	"github.com/ayden94/caro-kann-docs/internal/logging"
)

// SecurityConfig holds the headers and checks applied by SecurityMiddleware.
type SecurityConfig struct {
	// CSP configures the Content-Security-Policy header
	CSP *CSPConfig
	// HSTS is only sent over TLS
	HSTS *HSTSConfig
	// XFrameOptions sets X-Frame-Options (DENY, SAMEORIGIN)
	XFrameOptions string
	// XContentTypeNoSniff enables X-Content-Type-Options: nosniff
	XContentTypeNoSniff bool
	// ReferrerPolicy sets the Referrer-Policy header
	ReferrerPolicy string
	// PermissionsPolicy configures browser feature access
	PermissionsPolicy *PermissionsPolicyConfig
	// Origins validates the origin of non-GET requests
	Origins OriginValidator
	// Logger receives rejected requests
	Logger logging.Logger
}

// CSPConfig holds Content Security Policy configuration
type CSPConfig struct {
	DefaultSrc              []string
	ScriptSrc               []string
	StyleSrc                []string
	ImgSrc                  []string
	ConnectSrc              []string
	FontSrc                 []string
	ObjectSrc               []string
	FrameAncestors          []string
	BaseURI                 []string
	FormAction              []string
	UpgradeInsecureRequests bool
}

// HSTSConfig holds HTTP Strict Transport Security configuration
type HSTSConfig struct {
	MaxAge            int
	IncludeSubDomains bool
	Preload           bool
}

// PermissionsPolicyConfig holds Permissions Policy configuration
type PermissionsPolicyConfig struct {
	Geolocation []string
	Camera      []string
	Microphone  []string
	Payment     []string
	USB         []string
	Fullscreen  []string
}

// DefaultSecurityConfig returns a secure default configuration
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		CSP: &CSPConfig{
			DefaultSrc:     []string{"'self'"},
			ScriptSrc:      []string{"'self'"},
			StyleSrc:       []string{"'self'"},
			ImgSrc:         []string{"'self'", "data:", "https:"},
			ConnectSrc:     []string{"'self'"},
			FontSrc:        []string{"'self'"},
			ObjectSrc:      []string{"'none'"},
			FrameAncestors: []string{"'none'"},
			BaseURI:        []string{"'self'"},
			FormAction:     []string{"'self'"},
		},
		HSTS: &HSTSConfig{
			MaxAge:            31536000, // 1 year
			IncludeSubDomains: true,
		},
		XFrameOptions:       "DENY",
		XContentTypeNoSniff: true,
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		PermissionsPolicy: &PermissionsPolicyConfig{
			Fullscreen: []string{"self"},
		},
	}
}

// DevelopmentSecurityConfig returns a more permissive config for development
func DevelopmentSecurityConfig() *SecurityConfig {
	config := DefaultSecurityConfig()

	// Live reload connects over ws:// from whatever host serves the page
	config.CSP.ConnectSrc = append(config.CSP.ConnectSrc, "ws:", "wss:")
	config.XFrameOptions = "SAMEORIGIN"
	config.CSP.FrameAncestors = []string{"'self'"}
	config.HSTS = nil

	return config
}

// ProductionSecurityConfig returns a strict config for production
func ProductionSecurityConfig() *SecurityConfig {
	config := DefaultSecurityConfig()

	config.CSP.ConnectSrc = append(config.CSP.ConnectSrc, "wss:")
	config.CSP.UpgradeInsecureRequests = true
	config.HSTS.Preload = true

	return config
}

// SecurityConfigFromAppConfig creates security config from application config
func SecurityConfigFromAppConfig(cfg *config.Config) *SecurityConfig {
	var sec *SecurityConfig
	switch cfg.Server.Environment {
	case "production":
		sec = ProductionSecurityConfig()
	case "development":
		sec = DevelopmentSecurityConfig()
	default:
		sec = DefaultSecurityConfig()
	}
	sec.Origins = NewOriginValidator(cfg.Server.AllowedOrigins, cfg.Server.Host, cfg.Server.Port)
	return sec
}

// SecurityMiddleware creates a security middleware with the given configuration
func SecurityMiddleware(secConfig *SecurityConfig) func(http.Handler) http.Handler {
	if secConfig == nil {
		secConfig = DefaultSecurityConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			applySecurityHeaders(w, r, secConfig)

			// Validate origin for non-GET requests
			if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodOptions {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Same-origin form posts may only carry a Referer
					if ref, err := url.Parse(r.Header.Get("Referer")); err == nil && ref.Host != "" {
						origin = ref.Scheme + "://" + ref.Host
					}
				}
				if secConfig.Origins == nil || !secConfig.Origins.IsAllowedOrigin(origin) {
					if secConfig.Logger != nil {
						secConfig.Logger.Warn(r.Context(),
							errors.ErrInvalidOrigin(origin),
							"Security: Invalid origin",
							"method", r.Method,
							"origin", logging.SanitizeForLog(origin),
							"ip", ClientIP(r))
					}
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// applySecurityHeaders applies all configured security headers
func applySecurityHeaders(w http.ResponseWriter, r *http.Request, config *SecurityConfig) {
	h := w.Header()

	if config.CSP != nil {
		h.Set("Content-Security-Policy", buildCSPHeader(config.CSP))
	}

	if config.HSTS != nil && r.TLS != nil {
		h.Set("Strict-Transport-Security", buildHSTSHeader(config.HSTS))
	}

	if config.XFrameOptions != "" {
		h.Set("X-Frame-Options", config.XFrameOptions)
	}

	if config.XContentTypeNoSniff {
		h.Set("X-Content-Type-Options", "nosniff")
	}

	if config.ReferrerPolicy != "" {
		h.Set("Referrer-Policy", config.ReferrerPolicy)
	}

	if config.PermissionsPolicy != nil {
		h.Set("Permissions-Policy", buildPermissionsPolicyHeader(config.PermissionsPolicy))
	}

	h.Set("Cross-Origin-Opener-Policy", "same-origin")
}

// buildCSPHeader constructs the Content-Security-Policy header value
func buildCSPHeader(csp *CSPConfig) string {
	var directives []string

	addDirective := func(name string, values []string) {
		if len(values) > 0 {
			directives = append(directives, fmt.Sprintf("%s %s", name, strings.Join(values, " ")))
		}
	}

	addDirective("default-src", csp.DefaultSrc)
	addDirective("script-src", csp.ScriptSrc)
	addDirective("style-src", csp.StyleSrc)
	addDirective("img-src", csp.ImgSrc)
	addDirective("connect-src", csp.ConnectSrc)
	addDirective("font-src", csp.FontSrc)
	addDirective("object-src", csp.ObjectSrc)
	addDirective("frame-ancestors", csp.FrameAncestors)
	addDirective("base-uri", csp.BaseURI)
	addDirective("form-action", csp.FormAction)

	if csp.UpgradeInsecureRequests {
		directives = append(directives, "upgrade-insecure-requests")
	}

	return strings.Join(directives, "; ")
}

// buildHSTSHeader constructs the Strict-Transport-Security header value
func buildHSTSHeader(hsts *HSTSConfig) string {
	header := fmt.Sprintf("max-age=%d", hsts.MaxAge)

	if hsts.IncludeSubDomains {
		header += "; includeSubDomains"
	}

	if hsts.Preload {
		header += "; preload"
	}

	return header
}

// buildPermissionsPolicyHeader constructs the Permissions-Policy header value
func buildPermissionsPolicyHeader(pp *PermissionsPolicyConfig) string {
	var policies []string

	addPolicy := func(name string, values []string) {
		policies = append(policies, fmt.Sprintf("%s=(%s)", name, strings.Join(values, " ")))
	}

	addPolicy("geolocation", pp.Geolocation)
	addPolicy("camera", pp.Camera)
	addPolicy("microphone", pp.Microphone)
	addPolicy("payment", pp.Payment)
	addPolicy("usb", pp.USB)
	addPolicy("fullscreen", pp.Fullscreen)

	return strings.Join(policies, ", ")
}

// ClientIP extracts the client IP address from the request
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if colonPos := strings.LastIndex(ip, ":"); colonPos != -1 {
		ip = ip[:colonPos]
	}

	return ip
}
