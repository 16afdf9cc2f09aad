package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/evitalab-core/internal/config"
)

const (
	defaultCORSMethods = "GET, POST, PUT, DELETE, OPTIONS, PATCH"
	defaultCORSHeaders = "Origin, Content-Type, Accept, Authorization, X-Request-ID"
	defaultCORSMaxAge  = 12 * 60 * 60
)

// corsPolicy is the resolved form of config.CORSConfig. Allowed origins are
// either "*", a full origin such as "https://lab.example.com" or a subdomain
// wildcard such as "*.evitadb.io". Without any, only loopback origins pass.
type corsPolicy struct {
	anyOrigin bool
	origins   map[string]bool
	suffixes  []string

	methods     string
	headers     string
	exposed     string
	maxAge      string
	credentials bool
}

func newCORSPolicy(cfg config.CORSConfig) *corsPolicy {
	p := &corsPolicy{
		origins:     make(map[string]bool, len(cfg.AllowedOrigins)),
		methods:     joinOr(cfg.AllowedMethods, defaultCORSMethods),
		headers:     joinOr(cfg.AllowedHeaders, defaultCORSHeaders),
		exposed:     joinOr(cfg.ExposedHeaders, RequestIDHeader),
		maxAge:      strconv.Itoa(defaultCORSMaxAge),
		credentials: cfg.AllowCredentials,
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	for _, o := range cfg.AllowedOrigins {
		switch {
		case o == "*":
			p.anyOrigin = true
		case strings.HasPrefix(o, "*."):
			p.suffixes = append(p.suffixes, strings.ToLower(o[1:]))
		default:
			if u, ok := parseOrigin(o); ok {
				p.origins[u.Scheme+"://"+u.Host] = true
			}
		}
	}
	return p
}

func (p *corsPolicy) allows(origin string) bool {
	u, ok := parseOrigin(origin)
	if !ok {
		return false
	}
	if p.anyOrigin || p.origins[u.Scheme+"://"+u.Host] {
		return true
	}
	host := u.Hostname()
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	if len(p.origins) == 0 && len(p.suffixes) == 0 {
		return isLoopback(host)
	}
	return false
}

// CORSMiddleware handles Cross-Origin Resource Sharing for the lab web UI
func CORSMiddleware(corsConfig config.CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(corsConfig)
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); policy.allows(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			if policy.credentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}
		c.Header("Access-Control-Allow-Methods", policy.methods)
		c.Header("Access-Control-Allow-Headers", policy.headers)
		c.Header("Access-Control-Expose-Headers", policy.exposed)
		c.Header("Access-Control-Max-Age", policy.maxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// parseOrigin accepts only bare http(s) origins and lowercases scheme and host.
func parseOrigin(origin string) (*url.URL, bool) {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" || u.User != nil || (u.Path != "" && u.Path != "/") || u.RawQuery != "" {
		return nil, false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	u.Host = strings.ToLower(u.Host)
	return u, true
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
