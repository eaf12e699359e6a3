package httpx

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy defines the CORS headers to emit for matching origins.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSPolicy allows the booking API verbs and exposes the request id.
func DefaultCORSPolicy(origins []string) CORSPolicy {
	return CORSPolicy{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         10 * time.Minute,
	}
}

// cors is a CORSPolicy with its header values rendered once.
type cors struct {
	origins     []string
	anyOrigin   bool
	methods     []string
	credentials bool
	fixed       map[string]string
}

func compileCORS(p CORSPolicy) *cors {
	c := &cors{
		origins:     normalizeList(p.AllowedOrigins),
		methods:     normalizeList(p.AllowedMethods),
		credentials: p.AllowCredentials,
		fixed:       map[string]string{},
	}
	c.anyOrigin = slices.Contains(c.origins, "*")
	if len(c.methods) > 0 {
		c.fixed["Access-Control-Allow-Methods"] = strings.Join(c.methods, ", ")
	}
	if h := normalizeList(p.AllowedHeaders); len(h) > 0 {
		c.fixed["Access-Control-Allow-Headers"] = strings.Join(h, ", ")
	}
	if h := normalizeList(p.ExposedHeaders); len(h) > 0 {
		c.fixed["Access-Control-Expose-Headers"] = strings.Join(h, ", ")
	}
	if secs := int(p.MaxAge.Seconds()); secs > 0 {
		c.fixed["Access-Control-Max-Age"] = strconv.Itoa(secs)
	}
	if p.AllowCredentials {
		c.fixed["Access-Control-Allow-Credentials"] = "true"
	}
	return c
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin. A
// wildcard is echoed back as the origin when credentials are allowed.
func (c *cors) allowOrigin(origin string) (string, bool) {
	if c.anyOrigin {
		if c.credentials {
			return origin, true
		}
		return "*", true
	}
	for _, o := range c.origins {
		if strings.EqualFold(o, origin) {
			return origin, true
		}
	}
	return "", false
}

func (c *cors) methodAllowed(method string) bool {
	return len(c.methods) == 0 || slices.ContainsFunc(c.methods, func(m string) bool { return strings.EqualFold(m, method) })
}

// WithCORS adds CORS headers for allowed origins and answers preflights with
// 204. An empty AllowedOrigins disables it.
func WithCORS(p CORSPolicy) Middleware {
	c := compileCORS(p)
	if len(c.origins) == 0 {
		return nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			origin := r.Header.Get("Origin")
			allow, ok := c.allowOrigin(origin)
			if origin == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if preflight && !c.methodAllowed(r.Header.Get("Access-Control-Request-Method")) {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			h.Set("Access-Control-Allow-Origin", allow)
			for k, v := range c.fixed {
				h.Set(k, v)
			}
			if preflight {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
